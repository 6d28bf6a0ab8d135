package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// Document represents a document list item from the API.
type Document struct {
	Hash       string `json:"hash"`
	Filename   string `json:"filename"`
	IngestedAt string `json:"ingested_at"`
}

// DocumentList represents the document list API response.
type DocumentList struct {
	Items   []Document `json:"items"`
	Cursor  string     `json:"cursor,omitempty"`
	HasMore bool       `json:"has_more"`
}

// DocsCmd creates the docs command.
func DocsCmd() *cobra.Command {
	var (
		cursor string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDocs(cmd, cursor, limit, outputJSON)
		},
	}

	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum documents per page")

	return cmd
}

func runDocs(cmd *cobra.Command, cursor string, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/documents"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := api.Get(path)
	if err != nil {
		return err
	}

	var list DocumentList
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(list.Items) == 0 {
		fmt.Println("no documents ingested")
		return nil
	}

	for _, doc := range list.Items {
		fmt.Printf("%s  %s  %s\n", doc.Hash[:12], doc.IngestedAt, doc.Filename)
	}
	if list.HasMore {
		fmt.Printf("\nmore available: --cursor %s\n", list.Cursor)
	}
	return nil
}
