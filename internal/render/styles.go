package render

import "github.com/charmbracelet/lipgloss"

// Terminal styles for rendered gemtext lines.
var (
	// Title styles level-one headings.
	Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // bright cyan

	// Heading styles second and third level headings.
	Heading = lipgloss.NewStyle().Bold(true)

	// LinkText styles numbered link lines.
	LinkText = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan

	// Quote styles quoted lines.
	Quote = lipgloss.NewStyle().Faint(true).Italic(true)

	// Muted styles secondary text such as pager status lines.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
)

func (r *Renderer) styled(st lipgloss.Style, s string) string {
	if r.NoColor {
		return s
	}
	return st.Render(s)
}
