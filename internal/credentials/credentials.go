package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Credential is an S3 access key pair.
type Credential struct {
	AccessKeyID     string `yaml:"accessKeyId" json:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey" json:"secretAccessKey"`
}

// String never includes the secret key.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{AccessKeyID: %s, SecretAccessKey: <redacted>}", c.AccessKeyID)
}

// Validate reports an incomplete credential.
func (c Credential) Validate() error {
	if c.AccessKeyID == "" {
		return errors.New("access key id is empty")
	}
	if c.SecretAccessKey == "" {
		return errors.New("secret access key is empty")
	}
	return nil
}

// Provider issues credentials. Issue is idempotent per identity.
type Provider interface {
	Issue(ctx context.Context, identity string) (Credential, error)
}

// Store is a Provider that can also read and forget credentials.
type Store interface {
	Provider
	// Lookup returns the stored credential without creating one.
	Lookup(ctx context.Context, identity string) (Credential, bool, error)
	// Delete removes the stored credential. A missing credential is not an error.
	Delete(ctx context.Context, identity string) error
}

var (
	_ Store = (*SecretStore)(nil)
	_ Store = (*FileStore)(nil)
)

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, identity string) (Credential, error)

// Issue calls f.
func (f ProviderFunc) Issue(ctx context.Context, identity string) (Credential, error) {
	return f(ctx, identity)
}

// SplitIdentity splits "<namespace>/<name>".
func SplitIdentity(identity string) (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(identity, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid credential identity %q: expected <namespace>/<name>", identity)
	}
	return namespace, name, nil
}
