package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
)

// Plan returns the command that renders the deployment without applying it.
func Plan() *cobra.Command {
	var opts handlers.Options
	var outputPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Render the Kubernetes objects in apply order",
		Long: `Render every object of the deployment as multi-document YAML.

Objects are emitted in dependency order and annotated with the graph node
they belong to, so the output can be applied later with
'minio-stack apply --plan'. The plan contains the root credential.

Examples:
  # Print the plan
  minio-stack plan

  # Save the plan for review and apply it later
  minio-stack plan -o plan.yaml
  minio-stack apply --plan plan.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), opts, outputPath)
		},
	}

	addClusterFlags(cmd, &opts)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the plan to a file instead of stdout")

	return cmd
}
