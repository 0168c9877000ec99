package k8sclient

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
)

var configMapGVR = schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}

func testMapper() meta.RESTMapper {
	return restmapper.NewDiscoveryRESTMapper([]*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: "v1", Version: "v1"}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "configmaps", Namespaced: true, Kind: "ConfigMap"},
					{Name: "secrets", Namespaced: true, Kind: "Secret"},
					{Name: "services", Namespaced: true, Kind: "Service"},
					{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
				},
			},
		},
		{
			Group: metav1.APIGroup{
				Name:             "cert-manager.io",
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: "cert-manager.io/v1", Version: "v1"}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "cert-manager.io/v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {{Name: "certificates", Namespaced: true, Kind: "Certificate"}},
			},
		},
	})
}

func newTestClient(t *testing.T, clientset *fake.Clientset, objects ...runtime.Object) Client {
	t.Helper()
	if clientset == nil {
		//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
		clientset = fake.NewSimpleClientset()
	}

	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme,
		map[schema.GroupVersionResource]string{CertificateGVR: "CertificateList"},
		objects...)

	return NewFromClients(clientset, dynamicClient, testMapper())
}

func configMap(namespace, name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]any{"name": name, "namespace": namespace},
	}}
}

func certificate(namespace, name string, conditions ...map[string]any) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "cert-manager.io/v1",
		"kind":       "Certificate",
		"metadata":   map[string]any{"name": name, "namespace": namespace},
	}}
	if len(conditions) > 0 {
		raw := make([]any, 0, len(conditions))
		for _, c := range conditions {
			raw = append(raw, c)
		}
		obj.Object["status"] = map[string]any{"conditions": raw}
	}
	return obj
}

func TestClient_Interface(t *testing.T) {
	t.Parallel()
	var _ Client = &client{}
}

func TestDecodeManifests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		manifests string
		wantKinds []string
		wantErr   string
	}{
		{name: "empty", manifests: ``},
		{name: "only separators", manifests: "---\n---\n---\n"},
		{
			name:      "two documents",
			manifests: "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: a\n---\napiVersion: v1\nkind: Secret\nmetadata:\n  name: b\n",
			wantKinds: []string{"ConfigMap", "Secret"},
		},
		{name: "invalid yaml", manifests: `{invalid yaml: [`, wantErr: "failed to decode manifest"},
		{name: "missing kind", manifests: "apiVersion: v1\nmetadata:\n  name: test\n", wantErr: "Kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			objects, err := DecodeManifests([]byte(tt.manifests))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var kinds []string
			for _, obj := range objects {
				kinds = append(kinds, obj.GetKind())
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestApplyObject_Validation(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, nil)

	tests := []struct {
		name    string
		obj     *unstructured.Unstructured
		wantErr string
	}{
		{name: "nil", obj: nil, wantErr: "object is nil"},
		{
			name:    "no kind",
			obj:     &unstructured.Unstructured{Object: map[string]any{"apiVersion": "v1", "metadata": map[string]any{"name": "x"}}},
			wantErr: "no kind set",
		},
		{name: "no name", obj: configMap("default", ""), wantErr: "has no name"},
		{
			name: "unknown kind",
			obj: &unstructured.Unstructured{Object: map[string]any{
				"apiVersion": "unknown.io/v1",
				"kind":       "UnknownResource",
				"metadata":   map[string]any{"name": "x"},
			}},
			wantErr: "failed to get REST mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := c.ApplyObject(context.Background(), tt.obj, "test-manager")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyObject_UnknownKindIsMappingError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, nil)

	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("example.io/v1")
	obj.SetKind("Widget")
	obj.SetName("w")

	err := c.ApplyObject(context.Background(), obj, "test-manager")
	require.Error(t, err)
	assert.True(t, IsMappingError(err))
	assert.True(t, meta.IsNoMatchError(err))
}

func TestApplyManifests_Errors(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, nil)

	require.NoError(t, c.ApplyManifests(context.Background(), []byte("---\n"), "test-manager"))

	err := c.ApplyManifests(context.Background(), []byte("apiVersion: example.io/v1\nkind: Widget\nmetadata:\n  name: w\n"), "test-manager")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply Widget /w")
}

func TestDeleteObject(t *testing.T) {
	t.Parallel()
	existing := configMap("storage", "minio")
	c := newTestClient(t, nil, existing)
	fc := c.(*client)

	require.NoError(t, c.DeleteObject(context.Background(), existing))

	_, err := fc.dynamicClient.Resource(configMapGVR).Namespace("storage").Get(context.Background(), "minio", metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))

	// Deleting again is not an error.
	require.NoError(t, c.DeleteObject(context.Background(), existing))
}

func TestGetAnnotations(t *testing.T) {
	t.Parallel()
	existing := configMap("storage", "minio")
	existing.SetAnnotations(map[string]string{"minio-stack.io/protect": "true"})
	c := newTestClient(t, nil, existing)

	annotations, found, err := c.GetAnnotations(context.Background(), configMap("storage", "minio"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", annotations["minio-stack.io/protect"])

	_, found, err = c.GetAnnotations(context.Background(), configMap("storage", "missing"))
	require.NoError(t, err)
	assert.False(t, found)

	unknown := &unstructured.Unstructured{}
	unknown.SetAPIVersion("example.com/v1")
	unknown.SetKind("Widget")
	unknown.SetName("minio")
	_, _, err = c.GetAnnotations(context.Background(), unknown)
	assert.True(t, IsMappingError(err))
}

func TestDeleteObject_DefaultsNamespace(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, nil, configMap("default", "minio"))

	require.NoError(t, c.DeleteObject(context.Background(), configMap("", "minio")))

	fc := c.(*client)
	_, err := fc.dynamicClient.Resource(configMapGVR).Namespace("default").Get(context.Background(), "minio", metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))
}

func TestEnsureNamespace(t *testing.T) {
	t.Parallel()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset(&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "existing"}})
	c := newTestClient(t, clientset)

	require.NoError(t, c.EnsureNamespace(context.Background(), "existing"))
	require.NoError(t, c.EnsureNamespace(context.Background(), "storage"))

	_, err := clientset.CoreV1().Namespaces().Get(context.Background(), "storage", metav1.GetOptions{})
	require.NoError(t, err)

	require.Error(t, c.EnsureNamespace(context.Background(), ""))
}

func TestHasAPIResource(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, nil)

	tests := []struct {
		groupVersion string
		kind         string
		want         bool
	}{
		{"cert-manager.io/v1", "Certificate", true},
		{"cert-manager.io/v1", "ClusterIssuer", false},
		{"v1", "ConfigMap", true},
		{"networking.k8s.io/v1", "Ingress", false},
	}

	for _, tt := range tests {
		t.Run(tt.groupVersion+"/"+tt.kind, func(t *testing.T) {
			t.Parallel()
			got, err := c.HasAPIResource(context.Background(), tt.groupVersion, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.HasAPIResource(context.Background(), "a/b/c", "Thing")
	require.Error(t, err)
}

func TestIsStatefulSetReady(t *testing.T) {
	t.Parallel()

	replicas := int32(1)
	tests := []struct {
		name   string
		status appsv1.StatefulSetStatus
		gen    int64
		want   bool
	}{
		{name: "ready", gen: 1, status: appsv1.StatefulSetStatus{ObservedGeneration: 1, ReadyReplicas: 1}, want: true},
		{name: "no ready replicas", gen: 1, status: appsv1.StatefulSetStatus{ObservedGeneration: 1}},
		{name: "stale generation", gen: 2, status: appsv1.StatefulSetStatus{ObservedGeneration: 1, ReadyReplicas: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sts := &appsv1.StatefulSet{
				ObjectMeta: metav1.ObjectMeta{Name: "minio", Namespace: "storage", Generation: tt.gen},
				Spec:       appsv1.StatefulSetSpec{Replicas: &replicas},
				Status:     tt.status,
			}
			//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
			c := newTestClient(t, fake.NewSimpleClientset(sts))

			got, err := c.IsStatefulSetReady(context.Background(), "storage", "minio")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, nil)
		got, err := c.IsStatefulSetReady(context.Background(), "storage", "minio")
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestIsCertificateReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cert *unstructured.Unstructured
		want bool
	}{
		{name: "ready", cert: certificate("storage", "minio", map[string]any{"type": "Ready", "status": "True"}), want: true},
		{name: "not ready", cert: certificate("storage", "minio", map[string]any{"type": "Ready", "status": "False"})},
		{name: "issuing only", cert: certificate("storage", "minio", map[string]any{"type": "Issuing", "status": "True"})},
		{name: "no status", cert: certificate("storage", "minio")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, nil, tt.cert)
			got, err := c.IsCertificateReady(context.Background(), "storage", "minio")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, nil)
		got, err := c.IsCertificateReady(context.Background(), "storage", "minio")
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestHasReadyEndpoints(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // SA1019: Endpoints is still served and sufficient for a readiness probe
	endpoints := &corev1.Endpoints{
		ObjectMeta: metav1.ObjectMeta{Name: "minio", Namespace: "storage"},
		Subsets: []corev1.EndpointSubset{{
			Addresses: []corev1.EndpointAddress{{IP: "10.0.0.1"}},
		}},
	}
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	c := newTestClient(t, fake.NewSimpleClientset(endpoints))

	ready, err := c.HasReadyEndpoints(context.Background(), "storage", "minio")
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = c.HasReadyEndpoints(context.Background(), "storage", "other")
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestRefreshDiscovery_TestClient(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, nil)
	require.NoError(t, c.RefreshDiscovery(context.Background()))
}

func TestNewFromKubeconfig_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewFromKubeconfig([]byte(`invalid kubeconfig content`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create REST config")

	_, err = NewFromKubeconfig([]byte{})
	require.Error(t, err)
}

func TestNewControllerClient_Invalid(t *testing.T) {
	t.Parallel()
	_, err := NewControllerClient([]byte(`invalid kubeconfig content`))
	require.Error(t, err)
}

func TestReadKubeconfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, os.WriteFile(path, []byte("apiVersion: v1\nkind: Config\n"), 0o600))

	data, err := ReadKubeconfig(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Config")

	_, err = ReadKubeconfig(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read kubeconfig")
}
