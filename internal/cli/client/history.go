package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// Exchange represents one question/answer pair from the history API.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AskedAt  string `json:"asked_at"`
}

// History represents the history API response.
type History struct {
	Items []Exchange `json:"items"`
}

// HistoryCmd creates the history command.
func HistoryCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent questions and answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runHistory(cmd, sessionID, outputJSON)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID to show history for")

	return cmd
}

func runHistory(cmd *cobra.Command, sessionID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := "/history"
	if sessionID != "" {
		path += "?session_id=" + url.QueryEscape(sessionID)
	}

	resp, err := api.Get(path)
	if err != nil {
		return err
	}

	var history History
	if err := json.Unmarshal(resp.Data, &history); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(history, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(history.Items) == 0 {
		fmt.Println("no history")
		return nil
	}

	for _, ex := range history.Items {
		fmt.Printf("Q: %s\nA: %s\n\n", ex.Question, ex.Answer)
	}
	return nil
}
