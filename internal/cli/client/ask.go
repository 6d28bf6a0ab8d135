package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// QueryRequest represents the query API request.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResult represents the query API response.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Context string   `json:"context"`
	Sources []string `json:"sources"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var sessionID string
	var showContext bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question over ingested documents",
		Long: `Ask a question. The answer is generated from the most relevant
indexed chunks and lists the source documents it drew on.

Examples:
  lmdrag ask "What laser power was used for the Ti-6Al-4V samples?"
  lmdrag ask --session exp1 "And at what scan speed?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			question := strings.Join(args, " ")
			return runAsk(cmd, question, sessionID, outputJSON, showContext)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for conversation history")
	cmd.Flags().BoolVar(&showContext, "context", false, "Print the retrieved context below the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, question, sessionID string, outputJSON, showContext bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/query", QueryRequest{
		Question:  question,
		SessionID: sessionID,
	})
	if err != nil {
		return err
	}

	var result QueryResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(result.Sources, ", "))
	}
	if showContext && result.Context != "" {
		fmt.Printf("\nContext:\n%s\n", result.Context)
	}
	return nil
}
