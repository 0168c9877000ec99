package handlers

import (
	"context"
	"fmt"
	"slices"
)

// Check verifies that the deployed endpoint accepts the stored credential and
// that every configured bucket exists.
func Check(ctx context.Context, opts Options) error {
	p, err := loadParameters(opts)
	if err != nil {
		return err
	}

	cred, err := storedCredential(ctx, p, opts)
	if err != nil {
		return err
	}

	client, err := newBucketClient(ctx, "https://"+p.BaseDomain, cred.AccessKeyID, cred.SecretAccessKey)
	if err != nil {
		return err
	}

	buckets, err := client.ListBuckets(ctx)
	if err != nil {
		return err
	}

	var missing []string
	for _, want := range p.Buckets {
		if !slices.Contains(buckets, want) {
			missing = append(missing, want)
		}
	}

	out := newPrinter()
	out.title("MinIO check: " + client.Endpoint())
	out.status("S3 API reachable", true, fmt.Sprintf("%d buckets", len(buckets)))
	for _, want := range p.Buckets {
		out.status("bucket "+want, !slices.Contains(missing, want), "")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d configured buckets missing: %v", len(missing), missing)
	}
	return nil
}
