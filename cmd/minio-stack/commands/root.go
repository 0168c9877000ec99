// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/minio-stack/cmd/minio-stack/handlers"
)

// Root returns the root command for the minio-stack CLI.
//
// The root command installs the structured logger used by library code;
// --verbose switches it to development mode with debug output.
func Root() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "minio-stack",
		Short:         "Provision MinIO object storage on Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := zap.New(zap.UseDevMode(verbose))
			ctrllog.SetLogger(logger)
			cmd.SetContext(ctrllog.IntoContext(cmd.Context(), logger))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(Init())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Credentials())
	cmd.AddCommand(Check())
	cmd.AddCommand(Version())

	return cmd
}

// addConfigFlag binds --config.
func addConfigFlag(cmd *cobra.Command, opts *handlers.Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: minio-stack.yaml)")
}

// addClusterFlags binds --config and --kubeconfig.
func addClusterFlags(cmd *cobra.Command, opts *handlers.Options) {
	addConfigFlag(cmd, opts)
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to kubeconfig (default: $KUBECONFIG or ~/.kube/config)")
}
