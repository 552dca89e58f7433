package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	discoverContentFile string
	discoverMax         int
	discoverFormat      string
)

var discoverCmd = &cobra.Command{
	Use:   "discover <heading>",
	Short: "Discover source files relevant to one section",
	Long: `Run the discovery pipeline for a single documentation section.

Pattern matching and lexical scoring propose candidate files; the top
candidates are re-ranked by the external scorer and results below the
relevance threshold are dropped.

Examples:
  docscout discover "Installation"
  docscout discover "Usage" --content-file=usage.md --max=3
  docscout discover "Configuration" --no-llm --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverContentFile, "content-file", "", "File holding the section body (default: heading only)")
	discoverCmd.Flags().IntVar(&discoverMax, "max", 0, "Maximum sources to return (default: from config)")
	discoverCmd.Flags().StringVar(&discoverFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	heading := args[0]
	ctx := newContext()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot, discoverFormat)

	content := ""
	excludePath := ""
	if discoverContentFile != "" {
		data, err := os.ReadFile(discoverContentFile)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		content = string(data)
		excludePath = docExcludePath(projectRoot, discoverContentFile)
	}

	d, _ := mustGetDiscoverer(ctx, projectRoot, excludePath, logger)
	results, err := d.Discover(ctx, heading, content, discoverMax)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if discoverFormat == "json" {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No relevant sources found for %q.\n", heading)
		return nil
	}
	fmt.Printf("Sources for %q:\n", heading)
	for _, r := range results {
		fmt.Printf("  %2d/10  %s  [%s]\n", r.RelevanceScore, r.Path, r.DiscoveryMethod)
		if r.Reasoning != "" {
			fmt.Printf("         %s\n", r.Reasoning)
		}
	}
	return nil
}
