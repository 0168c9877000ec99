// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/imamik/minio-stack/internal/apply"
	"github.com/imamik/minio-stack/internal/config"
	"github.com/imamik/minio-stack/internal/credentials"
	"github.com/imamik/minio-stack/internal/k8sclient"
	"github.com/imamik/minio-stack/internal/minio"
	"github.com/imamik/minio-stack/internal/platform/s3"
)

// Options are the flags shared by the commands that read the configuration
// or talk to the cluster.
type Options struct {
	// ConfigPath is the configuration file. Empty searches for minio-stack.yaml.
	ConfigPath string

	// Kubeconfig is the kubeconfig file. Empty falls back to $KUBECONFIG and
	// ~/.kube/config.
	Kubeconfig string
}

// BucketClient is the subset of the S3 client used by handlers.
type BucketClient interface {
	Endpoint() string
	ListBuckets(ctx context.Context) ([]string, error)
	EnsureBuckets(ctx context.Context, bucketNames []string) ([]string, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile finds the config file when no path is given.
	findConfigFile = config.FindConfigFile

	// loadConfig loads and validates the config file.
	loadConfig = config.Load

	// readKubeconfig reads the kubeconfig file.
	readKubeconfig = k8sclient.ReadKubeconfig

	// newClusterClient creates the client used to apply and delete objects.
	newClusterClient = k8sclient.NewFromKubeconfig

	// newControllerClient creates the client backing the cluster credential store.
	newControllerClient = func(kubeconfig []byte) (ctrlclient.Client, error) {
		return k8sclient.NewControllerClient(kubeconfig)
	}

	// newBucketClient creates an S3 client for the deployed endpoint.
	newBucketClient = func(ctx context.Context, endpoint, accessKey, secretKey string) (BucketClient, error) {
		return s3.NewClient(ctx, endpoint, accessKey, secretKey)
	}

	// newApplier creates the graph applier.
	newApplier = func(c k8sclient.Client, m *apply.Metrics) *apply.Applier {
		return apply.New(c, apply.WithMetrics(m))
	}

	// buildDeployment builds the deployment plan.
	buildDeployment = minio.Build

	// readFile reads a file (for testing injection).
	readFile = os.ReadFile

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// loadParameters loads the configuration, searching for the default file
// when no path is given.
func loadParameters(opts Options) (*config.Parameters, error) {
	path := opts.ConfigPath
	if path == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'minio-stack init' to create one", err)
		}
		path = found
	}

	p, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	log.Printf("Using config: %s", path)
	return p, nil
}

// clusterClient connects to the cluster named by the kubeconfig.
func clusterClient(opts Options) (k8sclient.Client, error) {
	kubeconfig, err := readKubeconfig(opts.Kubeconfig)
	if err != nil {
		return nil, err
	}

	c, err := newClusterClient(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	return c, nil
}

// openStore returns the credential store selected by the configuration.
func openStore(p *config.Parameters, opts Options) (credentials.Store, error) {
	switch p.CredentialStore {
	case config.CredentialStoreFile:
		return credentials.NewFileStore(p.CredentialFile), nil
	case config.CredentialStoreCluster:
		kubeconfig, err := readKubeconfig(opts.Kubeconfig)
		if err != nil {
			return nil, err
		}
		c, err := newControllerClient(kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create credential store client: %w", err)
		}
		return credentials.NewSecretStore(c), nil
	default:
		return nil, config.Invalid("credentialStore", "unknown store %q", p.CredentialStore)
	}
}

// issueDeployment builds the deployment with the configured credential store.
// The cluster store keeps its Secret in the deployment namespace, so the
// namespace is created first.
func issueDeployment(ctx context.Context, p *config.Parameters, opts Options, cluster k8sclient.Client) (*minio.Deployment, error) {
	store, err := openStore(p, opts)
	if err != nil {
		return nil, err
	}

	if p.CredentialStore == config.CredentialStoreCluster {
		if cluster == nil {
			if cluster, err = clusterClient(opts); err != nil {
				return nil, err
			}
		}
		if err := cluster.EnsureNamespace(ctx, p.Namespace); err != nil {
			return nil, err
		}
	}

	return buildDeployment(ctx, p, store)
}
