package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// IngestResult represents the ingest API response.
type IngestResult struct {
	Hash       string `json:"hash"`
	Filename   string `json:"filename"`
	Skipped    bool   `json:"skipped"`
	Reason     string `json:"reason,omitempty"`
	ChunkCount int    `json:"chunk_count"`
}

// IngestCmd creates the ingest command.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file-or-dir>...",
		Short: "Ingest documents into the index",
		Long: `Ingest one or more PDF, text, or markdown files. Directories are
scanned non-recursively. Files whose content was already ingested are
reported as skipped.

Examples:
  lmdrag ingest paper.pdf
  lmdrag ingest ./docs/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runIngest(cmd, args, outputJSON)
		},
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no ingestable files found")
	}

	var results []IngestResult
	var failures int

	for _, path := range paths {
		resp, err := api.PostFile("/documents", path)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}

		var result IngestResult
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: failed to parse response: %v\n", path, err)
			continue
		}
		results = append(results, result)

		if !outputJSON {
			if result.Skipped {
				fmt.Printf("skipped %s (%s)\n", result.Filename, result.Reason)
			} else {
				fmt.Printf("ingested %s: %d chunks (hash %s)\n", result.Filename, result.ChunkCount, result.Hash)
			}
		}
	}

	if outputJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(paths))
	}
	return nil
}

var ingestableExtensions = map[string]struct{}{
	".pdf": {},
	".txt": {},
	".md":  {},
}

// expandPaths resolves file and directory arguments into a flat list of
// ingestable files. Directories are scanned one level deep.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if _, ok := ingestableExtensions[ext]; ok {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}
