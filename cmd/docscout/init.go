package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docscout/internal/config"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docscout configuration",
	Long:  "Creates a .docscout/ directory with default configuration in the project root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .docscout directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	projectRoot := mustGetProjectRoot()

	stateDir := filepath.Join(projectRoot, ".docscout")
	if _, statErr := os.Stat(stateDir); statErr == nil {
		if !initForce {
			// Idempotent: already initialized is success (CI-friendly)
			fmt.Println("docscout already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(stateDir, "config.json"))
			fmt.Println("\nRun 'docscout init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(stateDir); removeErr != nil {
			return fmt.Errorf("failed to remove existing .docscout directory: %w", removeErr)
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(projectRoot); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println("docscout initialized.")
	fmt.Printf("Configuration at: %s\n", filepath.Join(stateDir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Println("  docscout outline README.md      # inspect the document structure")
	fmt.Println("  docscout generate README.md     # discover sources per section")
	return nil
}
