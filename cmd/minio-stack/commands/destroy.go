package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
)

// Destroy returns the command that deletes the deployment.
func Destroy() *cobra.Command {
	var opts handlers.Options
	var destroyOpts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the MinIO deployment",
		Long: `Delete every object of the deployment, dependents first.

Deployments with protect: true are refused; set protect: false and apply
before destroying. The persistent volume claim and the stored root
credential are kept unless --purge-credentials is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts, destroyOpts)
		},
	}

	addClusterFlags(cmd, &opts)
	cmd.Flags().BoolVar(&destroyOpts.PurgeCredentials, "purge-credentials", false, "Also delete the stored root credential")

	return cmd
}
