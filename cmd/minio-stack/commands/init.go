package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
	"github.com/imamik/minio-stack/internal/config"
)

// Init returns the command that writes a configuration file interactively.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Create a minio-stack configuration file.

The wizard asks for the instance name, namespace, base domain, dashboard
domain and credential store, and writes the result with mode 0600.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")

	return cmd
}
