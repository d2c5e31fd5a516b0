package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadDir loads and compiles every theme defined in the CUE files of a
// directory. Themes live under the top-level "theme" struct, one field
// per theme name.
func LoadDir(dir string) (map[string]*ThemeSpec, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("theme directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing theme directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning theme directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	themesVal := value.LookupPath(cue.ParsePath("theme"))
	if !themesVal.Exists() {
		return nil, fmt.Errorf("no themes found in %s: expected a top-level theme struct", dir)
	}

	iter, err := themesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	themes := make(map[string]*ThemeSpec)
	for iter.Next() {
		spec, err := Compile(iter.Value())
		if err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = iter.Selector().String()
		}
		themes[spec.Name] = spec
	}

	if len(themes) == 0 {
		return nil, fmt.Errorf("theme struct in %s defines no themes", dir)
	}
	return themes, nil
}

// Select picks the named theme from a loaded set, falling back to the
// built-in default when name is empty and no theme dir was loaded.
func Select(themes map[string]*ThemeSpec, name string) (*ThemeSpec, error) {
	if name == "" {
		if t, ok := themes["default"]; ok {
			return t, nil
		}
		return Default(), nil
	}
	if t, ok := themes[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
