package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/imamik/minio-stack/internal/apply"
	"github.com/imamik/minio-stack/internal/graph"
	"github.com/imamik/minio-stack/internal/k8sclient"
	"github.com/imamik/minio-stack/internal/minio"
)

// ApplyOptions control the apply command.
type ApplyOptions struct {
	// PlanPath applies a plan written by 'minio-stack plan' instead of
	// building one from the configuration.
	PlanPath string

	// Wait blocks until the workload and certificate are ready and then
	// creates the configured buckets.
	Wait bool

	// Timeout bounds each readiness wait.
	Timeout time.Duration

	// ExtraManifests is a multi-document YAML file applied after the
	// deployment, e.g. NetworkPolicies or ServiceMonitors.
	ExtraManifests string

	// MetricsFile receives apply metrics in the node-exporter textfile format.
	MetricsFile string
}

// Apply creates or updates the deployment on the cluster.
//
// The workflow is:
//  1. Load the configuration (or a saved plan)
//  2. Issue or reuse the root credential
//  3. Apply the resource graph wave by wave
//  4. Optionally wait for readiness and create the configured buckets
func Apply(ctx context.Context, opts Options, applyOpts ApplyOptions) (err error) {
	metrics := apply.NewMetrics()
	if applyOpts.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(applyOpts.MetricsFile); werr != nil && err == nil {
				err = fmt.Errorf("failed to write metrics: %w", werr)
			}
		}()
	}

	cluster, err := clusterClient(opts)
	if err != nil {
		return err
	}
	applier := newApplier(cluster, metrics)

	if applyOpts.PlanPath != "" {
		return applyPlan(ctx, applier, cluster, applyOpts)
	}

	p, err := loadParameters(opts)
	if err != nil {
		return err
	}

	log.Printf("Applying MinIO instance %s/%s", p.Namespace, p.Name)

	d, err := issueDeployment(ctx, p, opts, cluster)
	if err != nil {
		return err
	}

	if err := applier.Apply(ctx, d.Graph); err != nil {
		return err
	}
	if err := applyExtraManifests(ctx, cluster, applyOpts.ExtraManifests); err != nil {
		return err
	}

	if applyOpts.Wait {
		if err := applier.Wait(ctx, d.Graph, applyOpts.Timeout); err != nil {
			return err
		}
		if err := ensureBuckets(ctx, d); err != nil {
			return err
		}
	} else if len(p.Buckets) > 0 {
		log.Printf("Skipping bucket creation; rerun with --wait once the endpoint is reachable")
	}

	printApplySuccess(d)
	return nil
}

func applyPlan(ctx context.Context, applier *apply.Applier, cluster k8sclient.Client, applyOpts ApplyOptions) error {
	data, err := readFile(applyOpts.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	g, err := minio.ParsePlan(data)
	if err != nil {
		return fmt.Errorf("invalid plan %s: %w", applyOpts.PlanPath, err)
	}

	log.Printf("Applying plan %s", applyOpts.PlanPath)
	if err := applier.Apply(ctx, g); err != nil {
		return err
	}
	if err := applyExtraManifests(ctx, cluster, applyOpts.ExtraManifests); err != nil {
		return err
	}

	if applyOpts.Wait {
		return applier.Wait(ctx, g, applyOpts.Timeout)
	}
	return nil
}

func applyExtraManifests(ctx context.Context, cluster k8sclient.Client, path string) error {
	if path == "" {
		return nil
	}

	data, err := readFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifests: %w", err)
	}

	log.Printf("Applying extra manifests from %s", path)
	if err := cluster.ApplyManifests(ctx, data, apply.DefaultFieldManager); err != nil {
		return fmt.Errorf("failed to apply extra manifests: %w", err)
	}
	return nil
}

func ensureBuckets(ctx context.Context, d *minio.Deployment) error {
	if len(d.Params.Buckets) == 0 {
		return nil
	}

	client, err := newBucketClient(ctx, d.Endpoint(), d.Credential.AccessKeyID, d.Credential.SecretAccessKey)
	if err != nil {
		return err
	}

	created, err := client.EnsureBuckets(ctx, d.Params.Buckets)
	if err != nil {
		return err
	}
	for _, name := range created {
		log.Printf("Created bucket %s", name)
	}
	return nil
}

func printApplySuccess(d *minio.Deployment) {
	workload, _ := d.Graph.Node(graph.IDFor(graph.KindWorkload))

	out := newPrinter()
	out.title(fmt.Sprintf("MinIO %s applied", d.Identity()))
	out.field("S3 endpoint", d.Endpoint())
	out.field("Console", d.ConsoleURL())
	if workload != nil {
		out.field("StatefulSet", workload.Ref())
	}
	out.field("Certificate", strings.Join(d.Resolution.DNSNames, ", "))
	out.hint("Run 'minio-stack credentials' to show the access keys.")
}
