package handlers

import (
	"context"
	"log"

	"github.com/imamik/minio-stack/internal/credentials"
)

// DestroyOptions control the destroy command.
type DestroyOptions struct {
	// PurgeCredentials also deletes the stored root credential. Without it a
	// later apply reuses the same keys.
	PurgeCredentials bool
}

// placeholderProvider satisfies Build for destroy, which only needs object
// identities and must not create a credential.
var placeholderProvider = credentials.ProviderFunc(func(_ context.Context, _ string) (credentials.Credential, error) {
	return credentials.Credential{AccessKeyID: "destroy", SecretAccessKey: "destroy"}, nil
})

// Destroy deletes every object of the deployment, dependents first. Protected
// deployments are refused.
func Destroy(ctx context.Context, opts Options, destroyOpts DestroyOptions) error {
	p, err := loadParameters(opts)
	if err != nil {
		return err
	}

	d, err := buildDeployment(ctx, p, placeholderProvider)
	if err != nil {
		return err
	}

	cluster, err := clusterClient(opts)
	if err != nil {
		return err
	}

	log.Printf("Destroying MinIO instance %s", d.Identity())
	if err := newApplier(cluster, nil).Destroy(ctx, d.Graph); err != nil {
		return err
	}

	if destroyOpts.PurgeCredentials {
		store, err := openStore(p, opts)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, d.Identity()); err != nil {
			return err
		}
		log.Printf("Deleted stored credential for %s", d.Identity())
	}
	return nil
}
