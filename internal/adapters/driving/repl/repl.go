// Package repl provides the line-oriented interactive search loop that ends
// a pipeline run.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

// Prompt is printed before every query.
const Prompt = "Query: "

// PreviewRunes is how much of a narrative is shown per result.
const PreviewRunes = 300

var (
	banner = strings.Repeat("=", 60)
	rule   = strings.Repeat("─", 60)
)

// Session is an interactive search session over a reader and writer.
type Session struct {
	search driving.SearchService
	in     io.Reader
	out    io.Writer
	limit  int
}

// New creates a session. A non-positive limit uses domain.DefaultSearchLimit.
func New(search driving.SearchService, in io.Reader, out io.Writer, limit int) *Session {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	return &Session{search: search, in: in, out: out, limit: limit}
}

// Run prompts for queries until the user quits, input ends, or ctx is
// cancelled. Ending the session is never an error; a failed search is
// reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	s.printBanner()

	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Debug("repl: read input: %v", err)
		}
	}()

	for {
		fmt.Fprintf(s.out, "\n%s", Prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nExiting.")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.out, "\nExiting.")
			return nil
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(s.out, "Bye!")
			return nil
		case "help":
			s.printHelp()
			continue
		}

		results, err := s.search.Search(ctx, query, domain.SearchOptions{Limit: s.limit})
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(s.out, "\nExiting.")
				return nil
			}
			fmt.Fprintf(s.out, "Search failed: %v\n", err)
			continue
		}
		PrintResults(s.out, results)
	}
}

// Run is a convenience wrapper around New(...).Run(ctx).
func Run(ctx context.Context, in io.Reader, out io.Writer, search driving.SearchService, limit int) error {
	return New(search, in, out, limit).Run(ctx)
}

// PrintResults writes ranked matches in the interactive result format.
func PrintResults(w io.Writer, results []domain.SearchResult) {
	fmt.Fprintf(w, "\n%s\n", rule)
	if len(results) == 0 {
		fmt.Fprintln(w, "\nNo matches.")
	}
	for i, r := range results {
		fmt.Fprintf(w, "\n[%d] Score: %.3f  |  Severity: %s  |  Disruption: %s\n",
			i+1, r.Score, r.Severity(), r.Disruption())
		fmt.Fprintf(w, "     %s...\n", Preview(r.Narrative(), PreviewRunes))
	}
	fmt.Fprintf(w, "%s\n", rule)
}

// Preview returns at most n runes of text.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

func (s *Session) printBanner() {
	fmt.Fprintln(s.out, banner)
	fmt.Fprintln(s.out, "Wildfire Narrative Search")
	fmt.Fprintln(s.out, "Type a query to search. Type 'quit' to exit, 'help' for examples.")
	fmt.Fprintln(s.out, banner)
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "\nExample queries:")
	for _, q := range domain.ExampleQueries {
		fmt.Fprintf(s.out, "  - %s\n", q)
	}
}
