package k8sclient

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// Client provides the cluster operations used to apply and tear down a
// deployment.
type Client interface {
	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	// The fieldManager identifies the actor applying the configuration.
	ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error

	// ApplyObject applies a single object using Server-Side Apply.
	ApplyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error

	// DeleteObject deletes an object, returning nil if not found.
	DeleteObject(ctx context.Context, obj *unstructured.Unstructured) error

	// GetAnnotations returns the annotations of the live object. found is
	// false when the object does not exist.
	GetAnnotations(ctx context.Context, obj *unstructured.Unstructured) (annotations map[string]string, found bool, err error)

	// EnsureNamespace creates the namespace unless it already exists.
	EnsureNamespace(ctx context.Context, name string) error

	// RefreshDiscovery refreshes the API discovery to pick up newly installed CRDs.
	RefreshDiscovery(ctx context.Context) error

	// HasAPIResource reports whether the cluster serves kind in groupVersion,
	// e.g. ("cert-manager.io/v1", "Certificate").
	HasAPIResource(ctx context.Context, groupVersion, kind string) (bool, error)

	// IsStatefulSetReady reports whether all replicas of the StatefulSet are ready.
	IsStatefulSetReady(ctx context.Context, namespace, name string) (bool, error)

	// IsCertificateReady reports whether the cert-manager Certificate has a
	// Ready=True condition.
	IsCertificateReady(ctx context.Context, namespace, name string) (bool, error)

	// HasReadyEndpoints checks if a service has at least one ready endpoint.
	HasReadyEndpoints(ctx context.Context, namespace, serviceName string) (bool, error)
}

// client implements the Client interface using k8s.io/client-go.
type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	kubeconfig    []byte

	mu     sync.RWMutex
	mapper meta.RESTMapper
}

// NewFromKubeconfig creates a Client from kubeconfig bytes.
func NewFromKubeconfig(kubeconfig []byte) (Client, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	mapper, err := discoverMapper(kubeconfig)
	if err != nil {
		return nil, err
	}

	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
		kubeconfig:    kubeconfig,
	}, nil
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
) Client {
	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

func discoverMapper(kubeconfig []byte) (meta.RESTMapper, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}
	return restmapper.NewDiscoveryRESTMapper(groupResources), nil
}

// RefreshDiscovery refreshes the API discovery to pick up newly installed CRDs.
func (c *client) RefreshDiscovery(_ context.Context) error {
	if len(c.kubeconfig) == 0 {
		// Test clients keep the mapper they were built with.
		return nil
	}

	mapper, err := discoverMapper(c.kubeconfig)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.mapper = mapper
	c.mu.Unlock()
	return nil
}

func (c *client) restMapper() meta.RESTMapper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapper
}
