package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
)

// Apply returns the command that creates or updates the deployment.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect minio-stack.yaml)
//	--plan: Apply a saved plan instead of the configuration
//	--wait: Wait for readiness and create the configured buckets
//
// Environment variables:
//
//	MINIO_STACK_*: override configuration values
func Apply() *cobra.Command {
	var opts handlers.Options
	var applyOpts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the MinIO deployment",
		Long: `Create or update the MinIO deployment on the cluster.

Objects are applied with Server-Side Apply in dependency order: the
ConfigMap, Secret, Service and Certificate first, then the StatefulSet and
Ingress. The root credential is issued once and reused on every run.

Examples:
  # Apply using minio-stack.yaml in the current directory
  minio-stack apply

  # Apply and wait until the endpoint serves TLS, then create buckets
  minio-stack apply --wait

  # Apply a saved plan
  minio-stack apply --plan plan.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts, applyOpts)
		},
	}

	addClusterFlags(cmd, &opts)
	cmd.Flags().StringVar(&applyOpts.PlanPath, "plan", "", "Apply a plan written by 'minio-stack plan'")
	cmd.Flags().BoolVar(&applyOpts.Wait, "wait", false, "Wait for the deployment to become ready")
	cmd.Flags().DurationVar(&applyOpts.Timeout, "timeout", 10*time.Minute, "Maximum time to wait for each resource")
	cmd.Flags().StringVar(&applyOpts.ExtraManifests, "extra-manifests", "", "Multi-document YAML applied after the deployment")
	cmd.Flags().StringVar(&applyOpts.MetricsFile, "metrics-file", "", "Write apply metrics to this file (node-exporter textfile format)")

	return cmd
}
