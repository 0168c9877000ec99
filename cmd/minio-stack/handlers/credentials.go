package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/minio-stack/internal/config"
	"github.com/imamik/minio-stack/internal/credentials"
	"github.com/imamik/minio-stack/internal/minio"
	"github.com/imamik/minio-stack/internal/util/naming"
)

// Credentials prints the stored root credential of the deployment.
func Credentials(ctx context.Context, opts Options, jsonOutput bool) error {
	p, err := loadParameters(opts)
	if err != nil {
		return err
	}

	cred, err := storedCredential(ctx, p, opts)
	if err != nil {
		return err
	}

	outputs := minio.Outputs{AccessKeyID: cred.AccessKeyID, SecretAccessKey: cred.SecretAccessKey}
	if jsonOutput {
		b, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(b))
		return err
	}

	out := newPrinter()
	out.title("MinIO credentials: " + naming.Identity(p.Namespace, p.Name))
	out.field("S3 endpoint", "https://"+p.BaseDomain)
	out.field("Console", "https://"+p.DashboardDomain)
	out.field("accessKeyId", outputs.AccessKeyID)
	out.field("secretAccessKey", outputs.SecretAccessKey)
	return nil
}

// storedCredential looks up the credential without issuing a new one.
func storedCredential(ctx context.Context, p *config.Parameters, opts Options) (credentials.Credential, error) {
	store, err := openStore(p, opts)
	if err != nil {
		return credentials.Credential{}, err
	}

	identity := naming.Identity(p.Namespace, p.Name)
	cred, found, err := store.Lookup(ctx, identity)
	if err != nil {
		return credentials.Credential{}, err
	}
	if !found {
		return credentials.Credential{}, fmt.Errorf("no credential stored for %s; run 'minio-stack apply' first", identity)
	}
	return cred, nil
}
