package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/testforge/internal/project"
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate or update tests for source files",
	Long: `Generate test files for the named source files. Without arguments, all
files matching the configured source globs under the source directory are
processed. Existing test files are updated incrementally where possible.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	updater, cleanup, err := buildUpdater(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	files := args
	if len(files) == 0 {
		sourceDir := filepath.Join(cfg.Project.Root, cfg.Project.SourceDir)
		exts := extensionsFromGlobs(cfg.Project.SourceGlobs)
		found, err := project.SourceFiles(sourceDir, exts)
		if err != nil {
			return fmt.Errorf("listing source files: %w", err)
		}
		for _, f := range found {
			files = append(files, filepath.Join(sourceDir, f))
		}
	}

	if len(files) == 0 {
		fmt.Println("no source files found")
		return nil
	}

	var failed int
	for _, file := range files {
		result, err := updater.UpdateFile(cmd.Context(), file)
		if err != nil {
			logger.Error("generation failed", "file", file, "error", err)
			failed++
			continue
		}
		printResult(result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// extensionsFromGlobs reduces globs like *.js to their extensions; globs
// without a literal extension fall back to the common JS/TS set.
func extensionsFromGlobs(globs []string) []string {
	var exts []string
	for _, g := range globs {
		if ext := filepath.Ext(g); ext != "" && !strings.ContainsAny(ext, "*?[") {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		exts = []string{".js", ".ts", ".jsx", ".tsx"}
	}
	return exts
}
