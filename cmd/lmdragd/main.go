package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fourier-ai/lmdrag/internal/cli"
	"github.com/fourier-ai/lmdrag/internal/cli/daemon"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lmdragd",
		Short: "lmdrag daemon",
		Long:  "lmdrag daemon for running the document question-answering API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(daemon.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
