package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
)

// Credentials returns the command that prints the root credential.
func Credentials() *cobra.Command {
	var opts handlers.Options
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Show the MinIO access keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Credentials(cmd.Context(), opts, jsonOutput)
		},
	}

	addClusterFlags(cmd, &opts)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
