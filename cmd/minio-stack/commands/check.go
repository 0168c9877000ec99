package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
)

// Check returns the command that verifies the deployed S3 endpoint.
func Check() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the S3 endpoint and configured buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Check(cmd.Context(), opts)
		},
	}

	addClusterFlags(cmd, &opts)

	return cmd
}
