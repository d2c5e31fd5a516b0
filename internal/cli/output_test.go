package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrWriter(t *testing.T) {
	var out, errBuf bytes.Buffer

	f := &OutputFormatter{Writer: &out}
	assert.Same(t, &out, f.GetErrWriter().(*bytes.Buffer), "falls back to Writer")

	f.ErrWriter = &errBuf
	assert.Same(t, &errBuf, f.GetErrWriter().(*bytes.Buffer))
}

func TestVerboseLog(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := &OutputFormatter{Writer: &out, ErrWriter: &errBuf}

	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, errBuf.String(), "silent unless verbose")

	f.Verbose = true
	f.VerboseLog("parsed %d slide(s)", 3)
	assert.Equal(t, "parsed 3 slide(s)\n", errBuf.String())
	assert.Empty(t, out.String(), "diagnostics never land on the primary writer")
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := WrapExitError(ExitCommandError, "server stopped", inner)

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "server stopped: boom", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
