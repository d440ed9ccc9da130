package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scrape the course site and forum into the snapshot",
	Long: `Fetches course weeks from the course sidebar and topics from the
Discourse category, then atomically replaces the snapshot file.
Only one ingest runs at a time.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if app == nil {
		return errNoApp
	}

	report, err := app.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printIngestReport(cmd, report)
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Printf("Snapshot written to %s in %s\n", report.Path, report.Took.Round(time.Millisecond))
	cmd.Printf("  Forum topics:     %d (%d pages)\n", report.DiscoursePosts, report.ForumPages)
	cmd.Printf("  Course weeks:     %d\n", report.Weeks)
	cmd.Printf("  Course resources: %d\n", report.CourseResources)
}
