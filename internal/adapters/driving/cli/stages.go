package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

var banner = strings.Repeat("=", 60)

// stagePrinter writes the pipeline progress report.
type stagePrinter struct {
	w io.Writer
	p *message.Printer
}

func newStagePrinter(w io.Writer) *stagePrinter {
	return &stagePrinter{w: w, p: message.NewPrinter(language.English)}
}

func (s *stagePrinter) stage(n int, title string, args ...any) {
	fmt.Fprintf(s.w, "\n%s\nSTAGE %d: %s\n%s\n", banner, n, fmt.Sprintf(title, args...), banner)
}

// printf groups thousands in numeric arguments.
func (s *stagePrinter) printf(format string, args ...any) {
	s.p.Fprintf(s.w, format, args...)
}

func (s *stagePrinter) distribution(name string, d domain.Distribution) {
	s.printf("%s: %s\n", name, formatDistribution(d))
}

// formatDistribution renders level counts largest first, ties by rank.
func formatDistribution(d domain.Distribution) string {
	levels := make([]domain.Level, 0, len(d))
	for level := range d {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		if d[levels[i]] != d[levels[j]] {
			return d[levels[i]] > d[levels[j]]
		}
		return levels[i].Rank() < levels[j].Rank()
	})

	parts := make([]string, len(levels))
	for i, level := range levels {
		parts[i] = fmt.Sprintf("%s=%d", level, d[level])
	}
	return strings.Join(parts, ", ")
}

// addBuildFlags registers the flags shared by the root command and index.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("rebuild", false, "Re-embed and upload even if the index is populated")
}

// runPipeline executes stages 1 to 4 and returns the narrated events.
func runPipeline(cmd *cobra.Command, out *stagePrinter) ([]domain.Event, error) {
	rebuild, err := cmd.Flags().GetBool("rebuild")
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()

	out.stage(1, "Loading CSV files from %s", appSettings.Loader.DataDir)
	set, err := services.Pipeline.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, file := range set.Files {
		fmt.Fprintf(out.w, "  Loaded %s\n", file)
	}
	if set.SkippedFiles > 0 {
		out.printf("  Skipped %d unreadable file(s)\n", set.SkippedFiles)
	}
	if set.SkippedRows > 0 {
		out.printf("  Skipped %d malformed row(s)\n", set.SkippedRows)
	}
	out.printf("Total records loaded: %d\n", set.Len())

	out.stage(2, "Extracting features and classifying")
	events := services.Pipeline.Process(set.Records)
	out.distribution("Severity distribution", domain.SeverityDistribution(events))
	out.distribution("Disruption distribution", domain.DisruptionDistribution(events))

	out.stage(3, "Generating narratives")
	out.printf("Generated %d narratives.\n", len(events))
	if len(events) > 0 {
		fmt.Fprintf(out.w, "\nSample narrative:\n  %s\n", events[0].Narrative)
	}

	out.stage(4, "Embedding + uploading to %s", appSettings.VectorIndex.Backend)
	report, err := services.Index.Build(ctx, events, domain.BuildOptions{
		Rebuild: rebuild,
		Progress: func(uploaded, total int) {
			out.printf("  Uploaded %d/%d vectors\n", uploaded, total)
		},
	})
	if err != nil {
		return nil, err
	}
	if report.Skipped {
		out.printf("Index already has %d vectors, skipping embed & upload.\n", report.ExistingCount)
		fmt.Fprintln(out.w, "Run with --rebuild to force re-upload.")
	} else {
		out.printf("\nUploaded %d vectors to %s.\n", report.Uploaded, appSettings.VectorIndex.Name)
		if report.Unique < report.Events {
			out.printf("  (%d duplicate narratives collapsed)\n", report.Events-report.Unique)
		}
	}
	return events, nil
}
