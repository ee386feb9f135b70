// Package render converts parsed gemtext documents into printable
// terminal lines and collects the page's link table.
package render

import (
	"fmt"

	"github.com/gemnav/gemnav/internal/gemtext"
)

// Link is one numbered link collected from a rendered page. Indices
// are assigned in document order starting at 1.
type Link struct {
	URL   string
	Label string
}

// Renderer converts gemtext lines into display strings. The zero
// value renders with color; NoColor keeps layout and link numbering
// but drops styling.
type Renderer struct {
	NoColor bool
}

// Render walks doc in order and returns one string per visible output
// line plus the page's links. Preformat toggles emit no output;
// preformatted text passes through unstyled.
func (r *Renderer) Render(doc []gemtext.Line) ([]string, []Link) {
	out := make([]string, 0, len(doc))
	var links []Link

	for _, ln := range doc {
		switch ln.Kind {
		case gemtext.KindText, gemtext.KindPreText:
			out = append(out, ln.Text)
		case gemtext.KindLink:
			links = append(links, Link{URL: ln.URL, Label: ln.Label})
			out = append(out, r.styled(LinkText, fmt.Sprintf("[%d] %s", len(links), ln.Label)))
		case gemtext.KindHeading:
			if ln.Level == 1 {
				out = append(out, r.styled(Title, ln.Text))
			} else {
				out = append(out, r.styled(Heading, ln.Text))
			}
		case gemtext.KindListItem:
			out = append(out, "  • "+ln.Text)
		case gemtext.KindQuote:
			out = append(out, r.styled(Quote, ln.Text))
		case gemtext.KindPreToggle:
			// toggle lines produce no output
		}
	}
	return out, links
}

// Status formats a pager status line, muted unless NoColor is set.
func (r *Renderer) Status(s string) string {
	return r.styled(Muted, s)
}
