package k8sclient

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// CertificateGVR is the cert-manager Certificate resource.
var CertificateGVR = schema.GroupVersionResource{Group: "cert-manager.io", Version: "v1", Resource: "certificates"}

// EnsureNamespace creates the namespace unless it already exists.
func (c *client) EnsureNamespace(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("namespace is required")
	}

	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}

// HasAPIResource checks the REST mapping for groupVersion and kind. Call
// RefreshDiscovery first when the CRD may have been installed recently.
func (c *client) HasAPIResource(_ context.Context, groupVersion, kind string) (bool, error) {
	gv, err := schema.ParseGroupVersion(groupVersion)
	if err != nil {
		return false, fmt.Errorf("invalid group version %q: %w", groupVersion, err)
	}

	_, err = c.restMapper().RESTMapping(schema.GroupKind{Group: gv.Group, Kind: kind}, gv.Version)
	if err != nil {
		if meta.IsNoMatchError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up %s %s: %w", groupVersion, kind, err)
	}
	return true, nil
}

// IsStatefulSetReady reports whether the controller observed the latest spec
// and every desired replica is ready. A missing StatefulSet is not ready.
func (c *client) IsStatefulSetReady(ctx context.Context, namespace, name string) (bool, error) {
	sts, err := c.clientset.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get statefulset %s/%s: %w", namespace, name, err)
	}

	desired := int32(1)
	if sts.Spec.Replicas != nil {
		desired = *sts.Spec.Replicas
	}

	return sts.Status.ObservedGeneration >= sts.Generation &&
		sts.Status.ReadyReplicas >= desired, nil
}

// IsCertificateReady reports whether the Certificate has a Ready=True
// condition. A missing Certificate is not ready.
func (c *client) IsCertificateReady(ctx context.Context, namespace, name string) (bool, error) {
	cert, err := c.dynamicClient.Resource(CertificateGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get certificate %s/%s: %w", namespace, name, err)
	}

	conditions, _, err := unstructured.NestedSlice(cert.Object, "status", "conditions")
	if err != nil {
		return false, fmt.Errorf("malformed conditions on certificate %s/%s: %w", namespace, name, err)
	}

	for _, raw := range conditions {
		cond, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if cond["type"] == "Ready" {
			return cond["status"] == string(metav1.ConditionTrue), nil
		}
	}
	return false, nil
}

// HasReadyEndpoints checks if a service has at least one ready endpoint.
func (c *client) HasReadyEndpoints(ctx context.Context, namespace, serviceName string) (bool, error) {
	//nolint:staticcheck // SA1019: Endpoints is still served and sufficient for a readiness probe
	endpoints, err := c.clientset.CoreV1().Endpoints(namespace).Get(ctx, serviceName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get endpoints %s/%s: %w", namespace, serviceName, err)
	}

	for _, subset := range endpoints.Subsets {
		if len(subset.Addresses) > 0 {
			return true, nil
		}
	}
	return false, nil
}
