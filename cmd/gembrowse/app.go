package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gemnav/gemnav/internal/gemini"
	"github.com/gemnav/gemnav/internal/gemtext"
	"github.com/gemnav/gemnav/internal/history"
	"github.com/gemnav/gemnav/internal/pager"
	"github.com/gemnav/gemnav/internal/render"
	"github.com/gemnav/gemnav/internal/urlutil"
)

var (
	// ErrNavigateBack signals caller-intent to return to the previous page.
	ErrNavigateBack = errors.New("navigate back")
	// ErrNavigateExit signals caller-intent to exit the browser.
	ErrNavigateExit = errors.New("navigate exit")
)

// historyListLimit bounds the "history" command output.
const historyListLimit = 20

// App hosts interactive browser state: the page stack, the numbered
// links of the current page, and the pager when a page overflows the
// terminal.
type App struct {
	reader   *bufio.Reader
	client   *gemini.Client
	renderer render.Renderer
	visits   *history.Store

	current *url.URL
	history []*url.URL
	links   []render.Link
	pager   *pager.Pager
}

// NewApp wires the REPL against a configured client. The visit log is
// optional; without a history_db path the "history" command is
// disabled and nothing is persisted.
func NewApp(cfg browserConfig) (*App, error) {
	app := &App{
		reader:   bufio.NewReader(os.Stdin),
		client:   gemini.NewClient(cfg.Client),
		renderer: render.Renderer{NoColor: cfg.NoColor},
	}
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		app.visits = store
	}
	return app, nil
}

// Close releases the visit log if one is open.
func (a *App) Close() {
	if a.visits != nil {
		_ = a.visits.Close()
	}
}

// Run drives the read-eval-print loop until quit or EOF. A non-empty
// startURL is navigated before the first prompt.
func (a *App) Run(startURL string) error {
	if startURL != "" {
		u, err := urlutil.Parse(startURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			a.navigate(u)
		}
	}
	for {
		line, err := a.promptLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch err := a.dispatch(line); {
		case errors.Is(err, ErrNavigateExit):
			return nil
		case errors.Is(err, ErrNavigateBack):
			a.goBack()
		case err != nil:
			return err
		}
	}
}

func (a *App) dispatch(line string) error {
	cmd := parseCommand(line)
	switch cmd.kind {
	case cmdEmpty:
	case cmdQuit:
		return ErrNavigateExit
	case cmdBack:
		return ErrNavigateBack
	case cmdHelp:
		printHelp()
	case cmdNavigate:
		u, err := urlutil.Parse(cmd.url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return nil
		}
		a.navigate(u)
	case cmdFollowLink:
		a.followLink(cmd.link)
	case cmdNextPage:
		a.scroll(true)
	case cmdPrevPage:
		a.scroll(false)
	case cmdHistory:
		a.showHistory()
	default:
		fmt.Println("Unknown command. Type 'help' for available commands.")
	}
	return nil
}

// navigate fetches u, following redirects, and hands the terminal
// response off by status category. Fetch errors are reported without
// disturbing the current page.
func (a *App) navigate(u *url.URL) {
	res, err := a.client.Navigate(context.Background(), u)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	resp := res.Response
	switch resp.Category() {
	case gemini.CategoryInput:
		a.promptInput(res)
	case gemini.CategorySuccess:
		a.showPage(res)
	case gemini.CategoryTempFailure:
		fmt.Fprintf(os.Stderr, "Temporary failure (%d): %s\n", resp.Status, resp.Meta)
	case gemini.CategoryPermFailure:
		fmt.Fprintf(os.Stderr, "Permanent failure (%d): %s\n", resp.Status, resp.Meta)
	case gemini.CategoryCertRequired:
		fmt.Fprintln(os.Stderr, "Client certificates are not supported.")
	default:
		fmt.Fprintf(os.Stderr, "Unexpected status: %d %s\n", resp.Status, resp.Meta)
	}
}

// promptInput answers a 1x response: the meta is the prompt, the typed
// line becomes the percent-encoded query of a repeat fetch.
func (a *App) promptInput(res *gemini.Result) {
	fmt.Println(res.Response.Meta)
	line, err := a.promptLine("Input: ")
	if err != nil {
		return
	}
	a.navigate(urlutil.WithInput(res.URL, line))
}

// showPage renders a success response. Gemtext bodies are styled and
// paginated when they overflow the terminal; other media types are
// announced but not rendered. Both count as a visit.
func (a *App) showPage(res *gemini.Result) {
	resp := res.Response
	mediaType := resp.MediaType()
	if !gemtext.IsMedia(mediaType) {
		fmt.Printf("[Received %s, not rendering]\n", mediaType)
		a.pushHistory(res.URL)
		a.links = nil
		a.pager = nil
		a.recordVisit(res)
		return
	}

	doc := gemtext.Parse(string(resp.Body))
	lines, links := a.renderer.Render(doc)

	// One row stays reserved for the prompt.
	pageHeight := max(pager.TerminalHeight()-1, 1)
	if len(lines) > pageHeight {
		a.pager = pager.New(lines, pageHeight)
		a.displayPage()
	} else {
		for _, line := range lines {
			fmt.Println(line)
		}
		a.pager = nil
	}

	a.pushHistory(res.URL)
	a.links = links
	a.recordVisit(res)
}

// pushHistory records the page being left, so that an unvisited slot
// (after back) never re-enters the stack.
func (a *App) pushHistory(u *url.URL) {
	if a.current != nil {
		a.history = append(a.history, a.current)
	}
	a.current = u
}

func (a *App) goBack() {
	if len(a.history) == 0 {
		fmt.Println("No previous page.")
		return
	}
	prev := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	a.current = nil
	a.navigate(prev)
}

func (a *App) followLink(n int) {
	if n < 1 || n > len(a.links) {
		fmt.Println("Invalid link number.")
		return
	}
	target := a.links[n-1].URL
	var (
		u   *url.URL
		err error
	)
	if a.current != nil {
		u, err = urlutil.Resolve(a.current, target)
	} else {
		u, err = urlutil.Parse(target)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	a.navigate(u)
}

func (a *App) scroll(forward bool) {
	if a.pager == nil {
		fmt.Println("No page to scroll.")
		return
	}
	if forward {
		if a.pager.Next() {
			a.displayPage()
		} else {
			fmt.Println("Already on the last page.")
		}
		return
	}
	if a.pager.Prev() {
		a.displayPage()
	} else {
		fmt.Println("Already on the first page.")
	}
}

func (a *App) displayPage() {
	for _, line := range a.pager.CurrentPage() {
		fmt.Println(line)
	}
	if a.pager.NeedsPagination() {
		fmt.Println(a.renderer.Status(a.pager.StatusLine()))
	}
}

func (a *App) showHistory() {
	if a.visits == nil {
		fmt.Println("History is disabled. Set history_db in the config file to enable it.")
		return
	}
	visits, err := a.visits.Recent(context.Background(), historyListLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println("Recent Visits")
	if len(visits) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i, v := range visits {
		fmt.Printf(
			"  [%d] %s status=%d meta=%q ts=%s\n",
			i+1,
			v.URL,
			v.Status,
			v.Meta,
			v.FetchedAt.Format(time.RFC3339),
		)
	}
}

// recordVisit persists one successful page view. Failures are logged
// and never interrupt browsing.
func (a *App) recordVisit(res *gemini.Result) {
	if a.visits == nil {
		return
	}
	visit := &history.Visit{
		URL:    res.URL.String(),
		Status: res.Response.Status,
		Meta:   res.Response.Meta,
	}
	if err := a.visits.Record(context.Background(), visit); err != nil {
		log.Warn().Err(err).Str("url", visit.URL).Msg("history record failed")
	}
}

func (a *App) promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		// A final unterminated line is still a usable command.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
