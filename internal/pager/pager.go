// Package pager owns paginated display of rendered page lines. When a
// page exceeds the terminal height the browser shows one screenful at
// a time and scrolls with next/prev commands at the prompt.
package pager

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Pager tracks a window over a fixed slice of display lines.
type Pager struct {
	lines      []string
	offset     int
	pageHeight int
}

// New creates a pager over lines. pageHeight is the number of content
// lines per page, typically terminal height minus one to reserve a row
// for the status line. Heights below one are clamped to one.
func New(lines []string, pageHeight int) *Pager {
	if pageHeight < 1 {
		pageHeight = 1
	}
	return &Pager{lines: lines, pageHeight: pageHeight}
}

// CurrentPage returns the lines of the page at the current offset.
func (p *Pager) CurrentPage() []string {
	end := min(p.offset+p.pageHeight, len(p.lines))
	return p.lines[p.offset:end]
}

// Next advances one page. It reports whether the page changed; at the
// last page it stays put and returns false.
func (p *Pager) Next() bool {
	lastOffset := 0
	if len(p.lines) > 0 {
		lastOffset = (p.Pages() - 1) * p.pageHeight
	}
	if p.offset >= lastOffset {
		return false
	}
	p.offset = min(p.offset+p.pageHeight, lastOffset)
	return true
}

// Prev moves back one page. It reports whether the page changed.
func (p *Pager) Prev() bool {
	if p.offset == 0 {
		return false
	}
	p.offset = max(p.offset-p.pageHeight, 0)
	return true
}

// NeedsPagination reports whether the content does not fit one page.
func (p *Pager) NeedsPagination() bool {
	return len(p.lines) > p.pageHeight
}

// Pages returns the total page count. An empty pager has one page.
func (p *Pager) Pages() int {
	if len(p.lines) == 0 {
		return 1
	}
	return (len(p.lines) + p.pageHeight - 1) / p.pageHeight
}

// Page returns the 1-indexed current page number.
func (p *Pager) Page() int {
	return p.offset/p.pageHeight + 1
}

// StatusLine formats the scroll prompt shown under a paginated page.
func (p *Pager) StatusLine() string {
	return fmt.Sprintf("[Page %d/%d — 'n':next 'p':prev]", p.Page(), p.Pages())
}

// TerminalHeight detects the terminal height in rows: the LINES
// environment variable first, then the controlling terminal size,
// then a default of 24.
func TerminalHeight() int {
	if v := os.Getenv("LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && h > 0 {
		return h
	}
	return 24
}
