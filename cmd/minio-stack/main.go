// Package main is the entry point for the minio-stack CLI.
//
// minio-stack provisions a self-hosted MinIO object store on a Kubernetes
// cluster: root credential, persistent storage, ingress, and a cert-manager
// certificate, applied in dependency order.
//
// Commands: init, plan, apply, destroy, credentials, check, version.
//
// For detailed usage information, run:
//
//	minio-stack --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/minio-stack/cmd/minio-stack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
