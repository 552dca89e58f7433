package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docscout/internal/outline"
	"docscout/internal/project"
)

var (
	outlineFormat string
	outlineSave   bool
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file.md>",
	Short: "Parse a markdown document into a heading outline",
	Long: `Parse a markdown document and print its heading hierarchy.

The document title comes from the first level-1 heading. Level-2 headings
become top-level sections; deeper headings nest under them. Fenced code
blocks are treated as content, never as structure.

Examples:
  docscout outline README.md
  docscout outline README.md --format=json
  docscout outline README.md --save   # persist into .docscout/project.json`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringVar(&outlineFormat, "format", "human", "Output format (human, json)")
	outlineCmd.Flags().BoolVar(&outlineSave, "save", false, "Persist the outline into the project state")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	o := outline.Parse(string(data))

	if outlineSave {
		store := project.NewStore(mustGetProjectRoot())
		p, err := store.Load()
		if err != nil {
			p = project.NewProject()
		}
		p.DocumentPath = docPath
		p.Outline = o
		if err := store.Save(p); err != nil {
			return fmt.Errorf("failed to save project state: %w", err)
		}
	}

	switch outlineFormat {
	case "json":
		out, err := json.MarshalIndent(o, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		printOutlineHuman(o)
	}
	return nil
}

func printOutlineHuman(o *outline.Outline) {
	if o.Title != "" {
		fmt.Printf("Title: %s\n", o.Title)
	}
	if len(o.Sections) == 0 {
		fmt.Println("No sections found.")
		return
	}
	fmt.Printf("Sections (%d total):\n", o.SectionCount())
	o.Walk(func(n *outline.HeadingNode, depth int) {
		fmt.Printf("  %s%s\n", strings.Repeat("  ", depth), n.Heading)
	})
}
