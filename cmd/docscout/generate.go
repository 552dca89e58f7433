package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docscout/internal/outline"
	"docscout/internal/project"
)

var (
	generateMaxPerSection int
	generateFormat        string
)

var generateCmd = &cobra.Command{
	Use:   "generate <file.md>",
	Short: "Discover sources for every section of a document",
	Long: `Parse a markdown document and run discovery for each section, including
nested subsections. The annotated outline is persisted to
.docscout/project.json for later inspection.

Examples:
  docscout generate README.md
  docscout generate README.md --max-per-section=3 --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateMaxPerSection, "max-per-section", 0, "Maximum sources per section (default: from config)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	ctx := newContext()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot, generateFormat)

	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	o := outline.Parse(string(data))
	if len(o.Sections) == 0 {
		return fmt.Errorf("document has no sections to discover sources for")
	}

	// The document being generated must never surface as its own source.
	d, _ := mustGetDiscoverer(ctx, projectRoot, docExcludePath(projectRoot, docPath), logger)

	store := project.NewStore(projectRoot)
	p, err := store.Load()
	if err != nil {
		p = project.NewProject()
	}
	p.DocumentPath = docPath
	p.Outline = o

	// Sections run one at a time: each holds the full candidate set in
	// memory only for the duration of its own call.
	var failed int
	o.Walk(func(n *outline.HeadingNode, _ int) {
		results, err := d.Discover(ctx, n.Heading, n.Content, generateMaxPerSection)
		if err != nil {
			failed++
			logger.Warn("section discovery failed", map[string]interface{}{
				"heading": n.Heading, "error": err.Error(),
			})
			return
		}
		p.SetSection(n.Heading, results)

		fmt.Printf("%s (%d sources)\n", n.Heading, len(results))
		for _, r := range results {
			fmt.Printf("  %2d/10  %s\n", r.RelevanceScore, r.Path)
		}
	})

	if err := store.Save(p); err != nil {
		return fmt.Errorf("failed to save project state: %w", err)
	}
	fmt.Printf("\nSaved %d sections to %s\n", len(p.Sections), store.Path())
	if failed > 0 {
		return fmt.Errorf("%d section(s) failed discovery", failed)
	}
	return nil
}
