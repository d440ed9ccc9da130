package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

var (
	askServer  string
	askTimeout time.Duration
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a running server a question",
	Long: `Sends the question to POST /api/ on a running course-qa server and
prints the answer with its links.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	server := os.Getenv("COURSE_QA_URL")
	if server == "" {
		server = "http://localhost:8000"
	}
	askCmd.Flags().StringVarP(&askServer, "server", "s", server, "course-qa server URL")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 60*time.Second, "request timeout")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the raw response")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	body, err := json.Marshal(domain.QuestionRequest{Question: question})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(askServer, "/") + "/api/"
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: askTimeout}).Do(req)
	if err != nil {
		return fmt.Errorf("ask %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if askJSON {
		cmd.Println(strings.TrimSpace(string(raw)))
		return nil
	}

	var answer domain.AnswerResponse
	if err := json.Unmarshal(raw, &answer); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	cmd.Println(answer.Answer)
	if len(answer.Links) > 0 {
		cmd.Println()
	}
	for i, link := range answer.Links {
		cmd.Printf("  [%d] %s\n", i+1, link.Title)
		cmd.Printf("      %s\n", link.URL)
		if link.Week != "" {
			cmd.Printf("      %s · %s\n", link.Source, link.Week)
		}
	}
	return nil
}
