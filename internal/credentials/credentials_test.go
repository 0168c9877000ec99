package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessKeyPattern = regexp.MustCompile(`^[A-Z0-9]{20}$`)
	secretKeyPattern = regexp.MustCompile(`^[A-Za-z0-9+/]{40}$`)
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	first, err := Generate()
	require.NoError(t, err)
	second, err := Generate()
	require.NoError(t, err)

	assert.Regexp(t, accessKeyPattern, first.AccessKeyID)
	assert.Regexp(t, secretKeyPattern, first.SecretAccessKey)
	assert.NotEqual(t, first, second)
	require.NoError(t, first.Validate())
}

func TestCredential_StringRedactsSecret(t *testing.T) {
	t.Parallel()
	c := Credential{AccessKeyID: "AKIAEXAMPLE", SecretAccessKey: "super-secret"}
	assert.Contains(t, c.String(), "AKIAEXAMPLE")
	assert.NotContains(t, c.String(), "super-secret")
}

func TestCredential_Validate(t *testing.T) {
	t.Parallel()
	assert.Error(t, Credential{SecretAccessKey: "s"}.Validate())
	assert.Error(t, Credential{AccessKeyID: "a"}.Validate())
}

func TestSplitIdentity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		identity  string
		namespace string
		name      string
		wantErr   bool
	}{
		{identity: "default/minio", namespace: "default", name: "minio"},
		{identity: "minio", wantErr: true},
		{identity: "/minio", wantErr: true},
		{identity: "default/", wantErr: true},
		{identity: "a/b/c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			t.Parallel()
			ns, name, err := SplitIdentity(tt.identity)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.namespace, ns)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestProviderFunc(t *testing.T) {
	t.Parallel()
	p := ProviderFunc(func(_ context.Context, identity string) (Credential, error) {
		return Credential{AccessKeyID: identity, SecretAccessKey: "x"}, nil
	})
	cred, err := p.Issue(context.Background(), "default/minio")
	require.NoError(t, err)
	assert.Equal(t, "default/minio", cred.AccessKeyID)
}

func TestFileStore_IssueIsStable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	store := NewFileStore(path)

	first, err := store.Issue(context.Background(), "default/minio")
	require.NoError(t, err)

	// A fresh store reads the persisted value.
	second, err := NewFileStore(path).Issue(context.Background(), "default/minio")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := store.Issue(context.Background(), "storage/minio")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_ConcurrentIssue(t *testing.T) {
	t.Parallel()
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))

	var wg sync.WaitGroup
	results := make([]Credential, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cred, err := store.Issue(context.Background(), "default/minio")
			assert.NoError(t, err)
			results[i] = cred
		}()
	}
	wg.Wait()

	for _, cred := range results[1:] {
		assert.Equal(t, results[0], cred)
	}
}

func TestFileStore_GeneratorError(t *testing.T) {
	t.Parallel()
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))
	boom := errors.New("entropy exhausted")
	store.generate = func() (Credential, error) { return Credential{}, boom }

	_, err := store.Issue(context.Background(), "default/minio")
	assert.ErrorIs(t, err, boom)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("credentials: [not, a, map"), 0600))

	_, err := NewFileStore(path).Issue(context.Background(), "default/minio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse credential file")
}

func TestFileStore_IncompleteEntry(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("credentials:\n  default/minio:\n    accessKeyId: ABC\n"), 0600))

	_, err := NewFileStore(path).Issue(context.Background(), "default/minio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestFileStore_InvalidIdentity(t *testing.T) {
	t.Parallel()
	_, err := NewFileStore(filepath.Join(t.TempDir(), "c.yaml")).Issue(context.Background(), "minio")
	assert.Error(t, err)
}

func TestFileStore_LookupAndDelete(t *testing.T) {
	t.Parallel()
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))
	ctx := context.Background()

	_, found, err := store.Lookup(ctx, "default/minio")
	require.NoError(t, err)
	assert.False(t, found)

	issued, err := store.Issue(ctx, "default/minio")
	require.NoError(t, err)

	got, found, err := store.Lookup(ctx, "default/minio")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, issued, got)

	require.NoError(t, store.Delete(ctx, "default/minio"))
	require.NoError(t, store.Delete(ctx, "default/minio"))

	_, found, err = store.Lookup(ctx, "default/minio")
	require.NoError(t, err)
	assert.False(t, found)

	// A credential issued after deletion is new.
	reissued, err := store.Issue(ctx, "default/minio")
	require.NoError(t, err)
	assert.NotEqual(t, issued, reissued)
}
