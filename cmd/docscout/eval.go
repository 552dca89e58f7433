package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docscout/internal/eval"
)

var (
	evalFixtures string
	evalFormat   string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate discovery accuracy",
	Long: `Run the discovery pipeline against ground-truth fixtures and report
precision, recall, and F1 per section plus suite-wide means.

Fixtures are JSON or YAML lists; each entry names a section heading, its
content, and the files a correct run should surface.

Examples:
  docscout eval --fixtures=./fixtures.json
  docscout eval --fixtures=./fixtures/ --no-llm
  docscout eval --fixtures=./fixtures.yaml --format=json`,
	RunE: runEvalSuite,
}

func init() {
	evalCmd.Flags().StringVar(&evalFixtures, "fixtures", "", "Path to fixtures file or directory (required)")
	evalCmd.Flags().StringVar(&evalFormat, "format", "human", "Output format (human, json)")
	evalCmd.MarkFlagRequired("fixtures")
	rootCmd.AddCommand(evalCmd)
}

func runEvalSuite(cmd *cobra.Command, args []string) error {
	ctx := newContext()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot, evalFormat)

	d, cfg := mustGetDiscoverer(ctx, projectRoot, "", logger)
	suite := eval.NewSuite(d, logger)

	info, err := os.Stat(evalFixtures)
	if err != nil {
		return fmt.Errorf("failed to access fixtures: %w", err)
	}
	if info.IsDir() {
		err = suite.LoadFixturesDir(evalFixtures)
	} else {
		err = suite.LoadFixtures(evalFixtures)
	}
	if err != nil {
		return err
	}

	result, err := suite.Run(ctx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	result.SortResultsByF1()

	if evalFormat == "json" {
		out, err := result.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(result.FormatReport(cfg.Eval.PassThreshold, cfg.Eval.WarnThreshold))
	return nil
}
