package deck

// ExhibitFormat is the format hint attached to an exhibit.
type ExhibitFormat string

const (
	// FormatCode marks a plain code exhibit.
	FormatCode ExhibitFormat = "code"
	// FormatDiff marks a unified-diff exhibit.
	FormatDiff ExhibitFormat = "diff"
)

// ValidExhibitFormats defines the allowed exhibit format hints.
var ValidExhibitFormats = map[ExhibitFormat]bool{
	FormatCode: true,
	FormatDiff: true,
}

// Deck is a parsed slide deck. Slides appear in presentation order.
type Deck struct {
	Title  string            `json:"title"`
	Author string            `json:"author,omitempty"`
	Date   string            `json:"date,omitempty"`
	Theme  string            `json:"theme,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"` // unrecognized frontmatter keys
	Slides []Slide           `json:"slides"`

	// SourceName is the file the deck was parsed from ("" for in-memory decks).
	// Excluded from the canonical form so identity tracks content, not path.
	SourceName string `json:"-"`
}

// Slide is one block of the deck.
type Slide struct {
	Index    int       `json:"index"` // 0-based position, significant
	Heading  string    `json:"heading,omitempty"`
	Body     string    `json:"body"` // markdown source minus exhibits and note
	Exhibits []Exhibit `json:"exhibits,omitempty"`
	Note     *Note     `json:"note,omitempty"` // at most one per slide
}

// Exhibit is a verbatim text block embedded in a slide.
// The body is stored exactly as authored and never interpreted.
type Exhibit struct {
	Format    ExhibitFormat `json:"format"`
	Lang      string        `json:"lang,omitempty"` // fence info string
	Text      string        `json:"text"`
	StartLine int           `json:"start_line"` // 1-based line of the opening fence
	EndLine   int           `json:"end_line"`   // 1-based line of the closing fence
}

// Note is the speaker note attached to a slide. Hidden from the
// primary rendering path.
type Note struct {
	Text      string `json:"text"`
	StartLine int    `json:"start_line"` // 1-based line of the ??? marker
}

// HasNotes reports whether any slide in the deck carries a speaker note.
func (d *Deck) HasNotes() bool {
	for i := range d.Slides {
		if d.Slides[i].Note != nil {
			return true
		}
	}
	return false
}

// ExhibitCount returns the total number of exhibits across all slides.
func (d *Deck) ExhibitCount() int {
	n := 0
	for i := range d.Slides {
		n += len(d.Slides[i].Exhibits)
	}
	return n
}
