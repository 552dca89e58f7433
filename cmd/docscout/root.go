package main

import (
	"docscout/internal/version"

	"github.com/spf13/cobra"
)

var (
	// rootFlag is the CLI --root flag value
	rootFlag string
	// noLLMFlag swaps the external scorer for a fixed-response stub
	noLLMFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docscout",
	Short: "docscout - documentation source discovery",
	Long: `docscout decomposes a markdown document into a heading outline and, for each
section, discovers and ranks the repository source files most relevant to it.
Cheap pattern and lexical signals produce candidates; a capped LLM re-rank
orders the final results.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("docscout version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Project root to discover sources in (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&noLLMFlag, "no-llm", false,
		"Skip the external re-rank and use a neutral stub scorer")
}
