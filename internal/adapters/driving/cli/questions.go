package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	questionsLimit int
	questionsJSON  bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List recently answered questions",
	Long:  `Reads the question log. Requires DATABASE_URL.`,
	Args:  cobra.NoArgs,
	RunE:  runQuestions,
}

func init() {
	questionsCmd.Flags().IntVarP(&questionsLimit, "limit", "n", 20, "maximum number of questions")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	if app == nil {
		return errNoApp
	}

	entries, err := app.RecentQuestions(cmd.Context(), questionsLimit)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	if questionsJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal questions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No questions recorded.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("%s  %-7s %2d links  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.AnswerMode, e.LinkCount, e.Question)
	}
	return nil
}
