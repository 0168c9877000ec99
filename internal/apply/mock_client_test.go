package apply

import (
	"context"

	"github.com/stretchr/testify/mock"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// mockK8sClient is a testify mock of k8sclient.Client.
type mockK8sClient struct {
	mock.Mock
}

func (m *mockK8sClient) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error {
	args := m.Called(ctx, manifests, fieldManager)
	return args.Error(0)
}

func (m *mockK8sClient) ApplyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error {
	args := m.Called(ctx, obj, fieldManager)
	return args.Error(0)
}

func (m *mockK8sClient) DeleteObject(ctx context.Context, obj *unstructured.Unstructured) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockK8sClient) GetAnnotations(ctx context.Context, obj *unstructured.Unstructured) (map[string]string, bool, error) {
	args := m.Called(ctx, obj)
	annotations, _ := args.Get(0).(map[string]string)
	return annotations, args.Bool(1), args.Error(2)
}

func (m *mockK8sClient) EnsureNamespace(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockK8sClient) RefreshDiscovery(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockK8sClient) HasAPIResource(ctx context.Context, groupVersion, kind string) (bool, error) {
	args := m.Called(ctx, groupVersion, kind)
	return args.Bool(0), args.Error(1)
}

func (m *mockK8sClient) IsStatefulSetReady(ctx context.Context, namespace, name string) (bool, error) {
	args := m.Called(ctx, namespace, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockK8sClient) IsCertificateReady(ctx context.Context, namespace, name string) (bool, error) {
	args := m.Called(ctx, namespace, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockK8sClient) HasReadyEndpoints(ctx context.Context, namespace, serviceName string) (bool, error) {
	args := m.Called(ctx, namespace, serviceName)
	return args.Bool(0), args.Error(1)
}
