package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// FeedbackRequest represents the feedback API request.
type FeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Helpful  bool   `json:"helpful"`
}

// FeedbackResult represents the feedback API response.
type FeedbackResult struct {
	ID string `json:"id"`
}

// FeedbackCmd creates the feedback command.
func FeedbackCmd() *cobra.Command {
	var (
		question string
		answer   string
		helpful  bool
	)

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record whether an answer was helpful",
		Long: `Record a thumbs-up or thumbs-down vote for a previous answer.

Examples:
  lmdrag feedback --question "What laser power?" --answer "400 W" --helpful
  lmdrag feedback --question "What laser power?" --answer "400 W" --helpful=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runFeedback(cmd, question, answer, helpful, outputJSON)
		},
	}

	cmd.Flags().StringVar(&question, "question", "", "The question that was asked")
	cmd.Flags().StringVar(&answer, "answer", "", "The answer being rated")
	cmd.Flags().BoolVar(&helpful, "helpful", true, "Whether the answer was helpful")
	_ = cmd.MarkFlagRequired("question")

	return cmd
}

func runFeedback(cmd *cobra.Command, question, answer string, helpful, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/feedback", FeedbackRequest{
		Question: question,
		Answer:   answer,
		Helpful:  helpful,
	})
	if err != nil {
		return err
	}

	var result FeedbackResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("recorded feedback %s\n", result.ID)
	return nil
}
