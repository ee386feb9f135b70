// Package gemtext owns line-oriented parsing of text/gemini documents.
package gemtext

import (
	"strings"
	"unicode"
)

// LineKind discriminates the parsed line variants.
type LineKind int

const (
	KindText LineKind = iota
	KindLink
	KindHeading
	KindListItem
	KindQuote
	KindPreToggle
	KindPreText
)

// Line is one parsed line of a text/gemini document. Fields beyond
// Kind are populated per variant: URL/Label for links, Level for
// headings, AltText for preformat toggles, Text for everything else.
type Line struct {
	Kind    LineKind
	Text    string
	URL     string
	Label   string
	Level   int
	AltText string
}

// Parse splits a text/gemini body into lines. ``` markers toggle
// preformatted mode and are emitted themselves; lines inside a
// preformatted block are passed through verbatim with no further
// parsing.
func Parse(body string) []Line {
	var lines []Line
	inPre := false

	for _, raw := range splitLines(body) {
		if after, ok := strings.CutPrefix(raw, "```"); ok {
			lines = append(lines, Line{Kind: KindPreToggle, AltText: strings.TrimSpace(after)})
			inPre = !inPre
			continue
		}
		if inPre {
			lines = append(lines, Line{Kind: KindPreText, Text: raw})
			continue
		}

		switch {
		case strings.HasPrefix(raw, "=>"):
			lines = append(lines, parseLink(raw[2:]))
		case strings.HasPrefix(raw, "### "):
			lines = append(lines, Line{Kind: KindHeading, Level: 3, Text: raw[4:]})
		case strings.HasPrefix(raw, "## "):
			lines = append(lines, Line{Kind: KindHeading, Level: 2, Text: raw[3:]})
		case strings.HasPrefix(raw, "# "):
			lines = append(lines, Line{Kind: KindHeading, Level: 1, Text: raw[2:]})
		case strings.HasPrefix(raw, "* "):
			lines = append(lines, Line{Kind: KindListItem, Text: raw[2:]})
		case strings.HasPrefix(raw, ">"):
			lines = append(lines, Line{Kind: KindQuote, Text: strings.TrimPrefix(raw[1:], " ")})
		default:
			lines = append(lines, Line{Kind: KindText, Text: raw})
		}
	}
	return lines
}

// parseLink splits a link line body at the first whitespace run; the
// label defaults to the URL when absent.
func parseLink(rest string) Line {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return Line{Kind: KindLink}
	}
	pos := strings.IndexFunc(rest, unicode.IsSpace)
	if pos < 0 {
		return Line{Kind: KindLink, URL: rest, Label: rest}
	}
	return Line{
		Kind:  KindLink,
		URL:   rest[:pos],
		Label: strings.TrimSpace(rest[pos:]),
	}
}

// IsMedia reports whether a response media type names a text/gemini
// document. Parameters such as charset are ignored.
func IsMedia(mediaType string) bool {
	mt, _, _ := strings.Cut(mediaType, ";")
	return strings.TrimSpace(mt) == "text/gemini"
}

// splitLines mirrors line iteration over \n with optional \r before
// it; a trailing newline does not produce a final empty line.
func splitLines(body string) []string {
	if body == "" {
		return nil
	}
	body = strings.TrimSuffix(body, "\n")
	parts := strings.Split(body, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
