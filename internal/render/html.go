package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/deckardcli/deckard/internal/deck"
	"github.com/deckardcli/deckard/internal/theme"
)

// HTMLOptions controls HTML rendering.
type HTMLOptions struct {
	Notes bool // emit speaker notes as <aside> blocks
}

// HTML renders the deck as a standalone HTML document: one <section>
// per slide, in presentation order, styled by the theme. Exhibit text
// is escaped but never transformed; slide bodies pass through as
// escaped text, one <p> per blank-line-separated paragraph.
func HTML(d *deck.Deck, t *theme.ThemeSpec, opts HTMLOptions) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(d.Title))
	writeStyle(&b, t)
	b.WriteString("</head>\n<body>\n<main class=\"deck\">\n")

	for i := range d.Slides {
		writeSlide(&b, &d.Slides[i], i, opts)
	}

	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String()
}

func writeSlide(b *strings.Builder, s *deck.Slide, index int, opts HTMLOptions) {
	fmt.Fprintf(b, "<section class=\"slide\" id=\"slide-%d\">\n", index+1)

	if s.Heading != "" {
		fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(s.Heading))
	}

	for _, para := range paragraphs(s.Body) {
		fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(para))
	}

	for i := range s.Exhibits {
		writeExhibit(b, &s.Exhibits[i])
	}

	if opts.Notes && s.Note != nil {
		fmt.Fprintf(b, "<aside class=\"notes\">%s</aside>\n", html.EscapeString(s.Note.Text))
	}

	b.WriteString("</section>\n")
}

func writeExhibit(b *strings.Builder, e *deck.Exhibit) {
	if e.Format == deck.FormatDiff {
		b.WriteString("<pre class=\"exhibit diff\"><code>")
		for i, line := range ClassifyDiff(e.Text) {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(b, "<span class=\"%s\">%s</span>", line.Kind, html.EscapeString(line.Text))
		}
		b.WriteString("</code></pre>\n")
		return
	}

	if e.Lang != "" {
		fmt.Fprintf(b, "<pre class=\"exhibit code\" data-lang=\"%s\"><code>", html.EscapeString(e.Lang))
	} else {
		b.WriteString("<pre class=\"exhibit code\"><code>")
	}
	b.WriteString(html.EscapeString(e.Text))
	b.WriteString("</code></pre>\n")
}

// paragraphs splits a slide body on blank lines.
func paragraphs(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	var out []string
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

// writeStyle emits the theme-driven stylesheet.
func writeStyle(b *strings.Builder, t *theme.ThemeSpec) {
	codeBg := "#f6f8fa"
	if t.Code.Style == "dark" {
		codeBg = "#161b22"
	}

	b.WriteString("<style>\n")
	fmt.Fprintf(b, "body{background:%s;color:%s;font-family:%s;margin:0}\n",
		t.Color("background"), t.Color("text"), t.Font("body"))
	fmt.Fprintf(b, "h2{font-family:%s;color:%s}\n", t.Font("heading"), t.Color("accent"))
	fmt.Fprintf(b, ".slide{min-height:100vh;padding:4rem;box-sizing:border-box;border-bottom:1px solid %s}\n",
		t.Color("muted"))
	fmt.Fprintf(b, ".exhibit{font-family:%s;background:%s;padding:1rem;overflow-x:auto}\n",
		t.Font("code"), codeBg)
	fmt.Fprintf(b, ".diff .add{color:%s}\n", t.Color("add"))
	fmt.Fprintf(b, ".diff .del{color:%s}\n", t.Color("del"))
	fmt.Fprintf(b, ".diff .hunk{color:%s}\n", t.Color("hunk"))
	fmt.Fprintf(b, ".diff .header{color:%s}\n", t.Color("muted"))
	fmt.Fprintf(b, ".notes{color:%s;font-style:italic;margin-top:2rem}\n", t.Color("muted"))
	b.WriteString("</style>\n")
}
