package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fourier-ai/lmdrag/internal/cli"
	"github.com/fourier-ai/lmdrag/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lmdrag",
		Short: "lmdrag CLI - question answering over technical documents",
		Long: `lmdrag CLI ingests PDF and text documents and answers questions
grounded in their content.

Environment variables:
  LMDRAG_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.IngestCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.DocsCmd())
	rootCmd.AddCommand(client.HistoryCmd())
	rootCmd.AddCommand(client.FeedbackCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
