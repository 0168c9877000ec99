package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/minio-stack/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration form.
	runWizard = config.RunWizard

	// saveConfig writes the configuration to a file.
	saveConfig = config.Save
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	p, err := runWizard(ctx)
	if err != nil {
		return err
	}

	if err := saveConfig(p, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := newPrinter()
	out.title("Configuration saved: " + outputPath)
	out.field("Instance", p.Namespace+"/"+p.Name)
	out.field("Base domain", p.BaseDomain)
	out.field("Dashboard", p.DashboardDomain)
	out.field("Credentials", p.CredentialStore)
	out.hint("Next: 'minio-stack plan' to review, 'minio-stack apply --wait' to deploy.")
	return nil
}
