// Package cli is the course-qa command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

var version = "dev"

// App runs the commands that need the wired service graph
type App interface {
	Serve(ctx context.Context) error
	Ingest(ctx context.Context) (*domain.IngestReport, error)
	RecentQuestions(ctx context.Context, limit int) ([]*domain.QuestionLogEntry, error)
}

var app App

var errNoApp = errors.New("application not configured")

var rootCmd = &cobra.Command{
	Use:   "course-qa",
	Short: "Answer course questions from a scraped knowledge snapshot",
	Long: `course-qa ingests the course site and forum into a JSON snapshot
and serves an HTTP API that answers questions with ranked links.`,
	SilenceUsage: true,
}

// SetApp installs the wired application
func SetApp(a App) {
	app = a
}

// SetVersion sets the version printed by the version command
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
