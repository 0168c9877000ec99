package apply

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/minio-stack/internal/graph"
	"github.com/imamik/minio-stack/internal/k8sclient"
	"github.com/imamik/minio-stack/internal/util/async"
	"github.com/imamik/minio-stack/internal/util/labels"
	"github.com/imamik/minio-stack/internal/util/retry"
)

// DefaultFieldManager identifies minio-stack in Server-Side Apply.
const DefaultFieldManager = "minio-stack"

// Applier applies and destroys deployment graphs.
type Applier struct {
	client       k8sclient.Client
	fieldManager string
	retryOpts    []retry.Option
	metrics      *Metrics
	pollInterval time.Duration
	collectAll   bool
}

// Option configures an Applier.
type Option func(*Applier)

// WithFieldManager overrides DefaultFieldManager.
func WithFieldManager(name string) Option {
	return func(a *Applier) {
		a.fieldManager = name
	}
}

// WithRetryOptions sets the backoff used for every cluster call.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(a *Applier) {
		a.retryOpts = opts
	}
}

// WithMetrics records node operations into m.
func WithMetrics(m *Metrics) Option {
	return func(a *Applier) {
		a.metrics = m
	}
}

// WithPollInterval sets the readiness polling interval used by Wait.
func WithPollInterval(d time.Duration) Option {
	return func(a *Applier) {
		a.pollInterval = d
	}
}

// WithCollectAllErrors reports every failure of a wave instead of the first.
func WithCollectAllErrors() Option {
	return func(a *Applier) {
		a.collectAll = true
	}
}

// New creates an Applier for client.
func New(client k8sclient.Client, opts ...Option) *Applier {
	a := &Applier{
		client:       client,
		fieldManager: DefaultFieldManager,
		pollInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply creates or updates every node of g. A node is applied only after
// every node it depends on was applied successfully; the first failing wave
// stops the run.
func (a *Applier) Apply(ctx context.Context, g *graph.Graph) error {
	waves, err := g.ApplyWaves()
	if err != nil {
		return err
	}

	if err := a.preflight(ctx, g); err != nil {
		return err
	}

	for _, ns := range namespaces(g) {
		if err := a.withRetry(ctx, OperationApply, "Namespace", func() error {
			return a.client.EnsureNamespace(ctx, ns)
		}); err != nil {
			return fmt.Errorf("failed to ensure namespace %s: %w", ns, err)
		}
	}

	for i, wave := range waves {
		log.Printf("Applying wave %d/%d: %s", i+1, len(waves), describe(wave))
		if err := a.runWave(ctx, wave, OperationApply, a.applyNode); err != nil {
			return fmt.Errorf("failed to apply wave %d: %w", i+1, err)
		}
	}

	log.Printf("Applied %d resources", g.Len())
	return nil
}

// Destroy deletes every node of g, dependents first. It refuses to delete
// anything when a node is protected, either in g or on the live object.
func (a *Applier) Destroy(ctx context.Context, g *graph.Graph) error {
	if protected := g.Protected(); len(protected) > 0 {
		refs := make([]string, 0, len(protected))
		for _, n := range protected {
			refs = append(refs, n.Ref())
		}
		return &ProtectedError{Nodes: refs}
	}

	refs, err := a.liveProtected(ctx, g)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ProtectedError{Nodes: refs}
	}

	waves, err := g.DestroyWaves()
	if err != nil {
		return err
	}

	for i, wave := range waves {
		log.Printf("Destroying wave %d/%d: %s", i+1, len(waves), describe(wave))
		if err := a.runWave(ctx, wave, OperationDestroy, a.deleteNode); err != nil {
			return fmt.Errorf("failed to destroy wave %d: %w", i+1, err)
		}
	}

	log.Printf("Destroyed %d resources", g.Len())
	return nil
}

// Wait polls until the workload, its service endpoints and the certificate
// are ready, or timeout elapses.
func (a *Applier) Wait(ctx context.Context, g *graph.Graph, timeout time.Duration) error {
	logger := ctrllog.FromContext(ctx)

	checks := []struct {
		kind  graph.Kind
		ready func(ctx context.Context, namespace, name string) (bool, error)
	}{
		{graph.KindWorkload, a.client.IsStatefulSetReady},
		{graph.KindService, a.client.HasReadyEndpoints},
		{graph.KindCertificate, a.client.IsCertificateReady},
	}

	for _, check := range checks {
		n, ok := g.Node(graph.IDFor(check.kind))
		if !ok {
			continue
		}

		log.Printf("Waiting for %s to become ready...", n.Ref())
		err := wait.PollUntilContextTimeout(ctx, a.pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
			ready, err := check.ready(ctx, n.Namespace, n.Name)
			if err != nil {
				logger.V(1).Info("readiness check failed", "node", n.Ref(), "error", err.Error())
				return false, nil
			}
			return ready, nil
		})
		if err != nil {
			return fmt.Errorf("timed out waiting for %s: %w", n.Ref(), err)
		}
	}
	return nil
}

// liveProtected returns the nodes whose live object carries the protect
// annotation. Kinds the cluster does not serve have no live objects.
func (a *Applier) liveProtected(ctx context.Context, g *graph.Graph) ([]string, error) {
	var refs []string
	for _, n := range g.Nodes() {
		annotations, found, err := a.client.GetAnnotations(ctx, n.Object)
		if k8sclient.IsMappingError(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check protection of %s: %w", n.Ref(), err)
		}
		if found && annotations[labels.AnnotationProtect] == "true" {
			refs = append(refs, n.Ref())
		}
	}
	return refs, nil
}

func (a *Applier) preflight(ctx context.Context, g *graph.Graph) error {
	if err := a.client.RefreshDiscovery(ctx); err != nil {
		return fmt.Errorf("failed to refresh API discovery: %w", err)
	}

	seen := make(map[string]bool)
	for _, n := range g.Nodes() {
		gv, kind := n.Object.GetAPIVersion(), n.Object.GetKind()
		key := gv + "/" + kind
		if seen[key] {
			continue
		}
		seen[key] = true

		ok, err := a.client.HasAPIResource(ctx, gv, kind)
		if err != nil {
			return fmt.Errorf("failed to check API resource %s: %w", key, err)
		}
		if !ok {
			return &MissingAPIError{GroupVersion: gv, Kind: kind}
		}
	}
	return nil
}

func (a *Applier) runWave(ctx context.Context, wave []*graph.Node, operation string, fn func(context.Context, *graph.Node) error) error {
	tasks := make([]async.Task, 0, len(wave))
	for _, n := range wave {
		tasks = append(tasks, async.Task{
			Name: n.Ref(),
			Func: func(ctx context.Context) error {
				start := time.Now()
				err := fn(ctx, n)
				a.metrics.recordOperation(operation, n.Kind, err, time.Since(start))
				return err
			},
		})
	}
	return async.RunParallel(ctx, tasks, a.collectAll)
}

func (a *Applier) applyNode(ctx context.Context, n *graph.Node) error {
	nodeLogger(ctx, n).V(1).Info("applying node", "dependsOn", n.DependsOn)
	return a.withRetry(ctx, OperationApply, n.Kind, func() error {
		return a.client.ApplyObject(ctx, n.Object, a.fieldManager)
	})
}

func (a *Applier) deleteNode(ctx context.Context, n *graph.Node) error {
	nodeLogger(ctx, n).V(1).Info("deleting node")
	return a.withRetry(ctx, OperationDestroy, n.Kind, func() error {
		return a.client.DeleteObject(ctx, n.Object)
	})
}

// withRetry retries op. REST mapping failures are fatal.
func (a *Applier) withRetry(ctx context.Context, operation string, kind graph.Kind, op func() error) error {
	opts := slices.Clone(a.retryOpts)
	opts = append(opts, retry.WithOnRetry(func(attempt int, err error) {
		a.metrics.recordRetry(operation, kind)
		ctrllog.FromContext(ctx).Info("retrying", "operation", operation, "kind", kind, "attempt", attempt, "error", err.Error())
	}))

	return retry.WithExponentialBackoff(ctx, func() error {
		err := op()
		if k8sclient.IsMappingError(err) {
			return retry.Fatal(err)
		}
		return err
	}, opts...)
}

func nodeLogger(ctx context.Context, n *graph.Node) logr.Logger {
	return ctrllog.FromContext(ctx).WithValues("node", n.Ref())
}

func namespaces(g *graph.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		if n.Namespace != "" && !slices.Contains(out, n.Namespace) {
			out = append(out, n.Namespace)
		}
	}
	return out
}

func describe(wave []*graph.Node) string {
	refs := make([]string, 0, len(wave))
	for _, n := range wave {
		refs = append(refs, n.Ref())
	}
	return strings.Join(refs, ", ")
}
