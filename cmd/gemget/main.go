package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gemnav/gemnav/internal/gemini"
	"github.com/gemnav/gemnav/internal/urlutil"
)

// gemget fetches one gemini URL and writes the body to stdout, keeping
// stderr for the response header and errors so output can be piped.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gemget: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		timeout      time.Duration
		maxRedirects int
		maxBodyBytes int64
		output       string
		headers      bool
	)
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-phase network timeout")
	flag.IntVar(&maxRedirects, "max-redirects", 5, "redirect hops to follow")
	flag.Int64Var(&maxBodyBytes, "max-body", 5*1024*1024, "response body cap in bytes")
	flag.StringVar(&output, "o", "", "write the body to a file instead of stdout")
	flag.BoolVar(&headers, "headers", false, "print the response header to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("usage: gemget [flags] <gemini-url>")
	}
	u, err := urlutil.Parse(flag.Arg(0))
	if err != nil {
		return err
	}

	cfg := gemini.DefaultConfig()
	cfg.ConnectTimeout = timeout
	cfg.ReadTimeout = timeout
	cfg.WriteTimeout = timeout
	cfg.MaxRedirects = maxRedirects
	cfg.MaxBodyBytes = maxBodyBytes

	res, err := gemini.NewClient(cfg).Navigate(context.Background(), u)
	if err != nil {
		return err
	}
	resp := res.Response
	if headers {
		fmt.Fprintf(os.Stderr, "%d %s\n", resp.Status, resp.Meta)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("server answered %d: %s", resp.Status, resp.Meta)
	}

	if output == "" {
		_, err := os.Stdout.Write(resp.Body)
		return err
	}
	return os.WriteFile(output, resp.Body, 0o644)
}
