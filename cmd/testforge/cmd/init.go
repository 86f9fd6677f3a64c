package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/testforge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a testforge project",
	Long: `Initialize testforge in the current directory.
Writes a .testforge.yaml with default settings and creates the
.testforge data directory.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	configPath := filepath.Join(cwd, ".testforge.yaml")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration already exists, use --force to overwrite")
	}

	if err := config.Save(config.Default(), configPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(cwd, ".testforge"), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Println("Initialized testforge project in", cwd)
	fmt.Println("Configuration file: .testforge.yaml")
	fmt.Println("Run 'testforge doctor' to verify setup")

	return nil
}
