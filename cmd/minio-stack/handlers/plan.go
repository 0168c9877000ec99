package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/minio-stack/internal/minio"
)

// Plan renders the deployment as multi-document YAML in apply order. The
// output contains the root credential, so files are written with mode 0600.
// An empty outputPath writes to stdout.
func Plan(ctx context.Context, opts Options, outputPath string) error {
	p, err := loadParameters(opts)
	if err != nil {
		return err
	}

	d, err := issueDeployment(ctx, p, opts, nil)
	if err != nil {
		return err
	}

	out, err := minio.Render(d)
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if outputPath == "" {
		_, err := stdout.Write(out)
		return err
	}

	if err := writeFile(outputPath, out, 0600); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	log.Printf("Plan with %d resources written to %s", d.Graph.Len(), outputPath)
	return nil
}
