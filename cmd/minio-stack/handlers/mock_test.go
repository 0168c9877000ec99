package handlers

import (
	"context"
	"sync"

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

// healthyCluster returns a mock on which every call succeeds.
func healthyCluster() *mockK8sClient {
	m := new(mockK8sClient)
	m.On("RefreshDiscovery", mock.Anything).Return(nil)
	m.On("HasAPIResource", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	m.On("EnsureNamespace", mock.Anything, mock.Anything).Return(nil)
	m.On("ApplyObject", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	m.On("GetAnnotations", mock.Anything, mock.Anything).Return(nil, true, nil)
	m.On("IsStatefulSetReady", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	m.On("HasReadyEndpoints", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	m.On("IsCertificateReady", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	return m
}

// fakeBuckets is an in-memory BucketClient.
type fakeBuckets struct {
	mu       sync.Mutex
	endpoint string
	buckets  []string
	err      error
}

func (f *fakeBuckets) Endpoint() string { return f.endpoint }

func (f *fakeBuckets) ListBuckets(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.buckets...), nil
}

func (f *fakeBuckets) EnsureBuckets(_ context.Context, names []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var created []string
	for _, n := range names {
		found := false
		for _, b := range f.buckets {
			if b == n {
				found = true
				break
			}
		}
		if !found {
			f.buckets = append(f.buckets, n)
			created = append(created, n)
		}
	}
	return created, nil
}
