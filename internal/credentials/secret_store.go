package credentials

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/minio-stack/internal/util/labels"
	"github.com/imamik/minio-stack/internal/util/naming"
)

// Keys of the stored credential secret.
const (
	SecretKeyAccessKeyID     = "accessKeyId"
	SecretKeySecretAccessKey = "secretAccessKey" //nolint:gosec // This is a key name, not a credential
)

// SecretStore persists credentials in a Kubernetes Secret named
// "<name>.credentials" in the deployment namespace. A secret is only read or
// deleted when its identity annotation matches.
type SecretStore struct {
	client   client.Client
	generate func() (Credential, error)
}

// NewSecretStore returns a SecretStore using c.
func NewSecretStore(c client.Client) *SecretStore {
	return &SecretStore{client: c, generate: Generate}
}

// Issue returns the stored credential for identity, creating it if absent.
// An existing secret is never modified.
func (s *SecretStore) Issue(ctx context.Context, identity string) (Credential, error) {
	namespace, name, err := SplitIdentity(identity)
	if err != nil {
		return Credential{}, err
	}
	logger := log.FromContext(ctx).WithValues("identity", identity)
	key := client.ObjectKey{Namespace: namespace, Name: naming.CredentialsSecret(name)}

	cred, found, err := s.lookup(ctx, key, identity)
	if err != nil {
		return Credential{}, err
	}
	if found {
		logger.V(1).Info("reusing stored credential", "secret", key.String())
		return cred, nil
	}

	cred, err = s.generate()
	if err != nil {
		return Credential{}, err
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:        key.Name,
			Namespace:   key.Namespace,
			Labels:      labels.NewLabelBuilder(name).WithComponent("credentials").Build(),
			Annotations: map[string]string{labels.AnnotationIdentity: identity},
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			SecretKeyAccessKeyID:     []byte(cred.AccessKeyID),
			SecretKeySecretAccessKey: []byte(cred.SecretAccessKey),
		},
	}

	if err := s.client.Create(ctx, secret); err != nil {
		if !apierrors.IsAlreadyExists(err) {
			return Credential{}, fmt.Errorf("failed to store credential in secret %s: %w", key, err)
		}
		// Another run created it first; its value wins.
		stored, found, err := s.lookup(ctx, key, identity)
		if err != nil {
			return Credential{}, err
		}
		if !found {
			return Credential{}, fmt.Errorf("credential secret %s vanished after create conflict", key)
		}
		return stored, nil
	}

	logger.Info("stored new credential", "secret", key.String())
	return cred, nil
}

// Lookup returns the stored credential without creating one.
func (s *SecretStore) Lookup(ctx context.Context, identity string) (Credential, bool, error) {
	namespace, name, err := SplitIdentity(identity)
	if err != nil {
		return Credential{}, false, err
	}
	return s.lookup(ctx, client.ObjectKey{Namespace: namespace, Name: naming.CredentialsSecret(name)}, identity)
}

// Delete removes the stored credential. A missing secret is not an error.
func (s *SecretStore) Delete(ctx context.Context, identity string) error {
	namespace, name, err := SplitIdentity(identity)
	if err != nil {
		return err
	}

	key := client.ObjectKey{Namespace: namespace, Name: naming.CredentialsSecret(name)}
	secret := &corev1.Secret{}
	if err := s.client.Get(ctx, key, secret); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to read credential secret %s: %w", key, err)
	}
	if err := checkOwner(secret, identity); err != nil {
		return err
	}

	if err := s.client.Delete(ctx, secret); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete credential secret %s: %w", key, err)
	}
	return nil
}

func (s *SecretStore) lookup(ctx context.Context, key client.ObjectKey, identity string) (Credential, bool, error) {
	secret := &corev1.Secret{}
	if err := s.client.Get(ctx, key, secret); err != nil {
		if apierrors.IsNotFound(err) {
			return Credential{}, false, nil
		}
		return Credential{}, false, fmt.Errorf("failed to read credential secret %s: %w", key, err)
	}
	if err := checkOwner(secret, identity); err != nil {
		return Credential{}, false, err
	}

	cred := Credential{
		AccessKeyID:     string(secret.Data[SecretKeyAccessKeyID]),
		SecretAccessKey: string(secret.Data[SecretKeySecretAccessKey]),
	}
	if err := cred.Validate(); err != nil {
		return Credential{}, false, fmt.Errorf("credential secret %s is corrupt: %w", key, err)
	}
	return cred, true, nil
}

// checkOwner fails unless secret was stored for identity.
func checkOwner(secret *corev1.Secret, identity string) error {
	if owner := secret.Annotations[labels.AnnotationIdentity]; owner != identity {
		return fmt.Errorf("secret %s/%s is not a credential of %s (identity annotation %q)",
			secret.Namespace, secret.Name, identity, owner)
	}
	return nil
}
