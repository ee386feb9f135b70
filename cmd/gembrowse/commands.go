package main

import (
	"fmt"
	"strconv"
	"strings"
)

// commandKind enumerates the REPL inputs.
type commandKind int

const (
	cmdEmpty commandKind = iota
	cmdNavigate
	cmdFollowLink
	cmdBack
	cmdNextPage
	cmdPrevPage
	cmdHistory
	cmdHelp
	cmdQuit
	cmdUnknown
)

// command is one parsed REPL input line.
type command struct {
	kind commandKind
	url  string
	link int
}

// parseCommand classifies one input line. "go <url>" and a bare
// gemini:// URL both navigate; a bare non-negative integer follows a
// numbered link on the current page.
func parseCommand(input string) command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return command{kind: cmdEmpty}
	}
	switch trimmed {
	case "quit", "q":
		return command{kind: cmdQuit}
	case "back", "b":
		return command{kind: cmdBack}
	case "help", "?":
		return command{kind: cmdHelp}
	case "next", "n":
		return command{kind: cmdNextPage}
	case "prev", "p":
		return command{kind: cmdPrevPage}
	case "history":
		return command{kind: cmdHistory}
	}
	if rest, ok := strings.CutPrefix(trimmed, "go "); ok {
		target := strings.TrimSpace(rest)
		if target == "" {
			return command{kind: cmdUnknown}
		}
		return command{kind: cmdNavigate, url: target}
	}
	if strings.HasPrefix(trimmed, "gemini://") {
		return command{kind: cmdNavigate, url: trimmed}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 {
		return command{kind: cmdFollowLink, link: n}
	}
	return command{kind: cmdUnknown}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  <number>      follow a link")
	fmt.Println("  back, b       go back")
	fmt.Println("  go <url>      navigate to URL")
	fmt.Println("  gemini://...  navigate to URL")
	fmt.Println("  next, n       next page")
	fmt.Println("  prev, p       previous page")
	fmt.Println("  history       show recent visits")
	fmt.Println("  help, ?       show this help")
	fmt.Println("  quit, q       exit")
}
