package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/testforge/internal/diagnostics"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check generation prerequisites",
	Long: `Verify the environment: git and the configured provider on PATH, API key
presence for API providers, and available system resources.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	failures := 0
	check := func(name string, err error) {
		if err != nil {
			fmt.Printf("FAIL  %-24s %v\n", name, err)
			failures++
			return
		}
		fmt.Printf("ok    %s\n", name)
	}

	_, gitErr := exec.LookPath("git")
	check("git on PATH", gitErr)

	if cfg.Generator.Provider == "gemini-api" {
		var keyErr error
		if os.Getenv(cfg.Generator.APIKeyEnv) == "" {
			keyErr = fmt.Errorf("%s is not set", cfg.Generator.APIKeyEnv)
		}
		check("API key ("+cfg.Generator.APIKeyEnv+")", keyErr)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	gen, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		check("provider "+cfg.Generator.Provider, err)
	} else {
		check("provider "+gen.Name(), gen.Ping(ctx))
	}

	preflight := diagnostics.NewPreflight().Run()
	var resErr error
	if !preflight.OK {
		resErr = fmt.Errorf("%v", preflight.Errors)
	}
	check("system resources", resErr)
	for _, w := range preflight.Warnings {
		fmt.Printf("warn  %s\n", w)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	return nil
}
