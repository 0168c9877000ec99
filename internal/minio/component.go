package minio

import (
	"context"
	"errors"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/minio-stack/internal/config"
	"github.com/imamik/minio-stack/internal/credentials"
	"github.com/imamik/minio-stack/internal/domains"
	"github.com/imamik/minio-stack/internal/graph"
	"github.com/imamik/minio-stack/internal/util/naming"
)

// Deployment is a complete, internally consistent plan for one instance.
type Deployment struct {
	Params     config.Parameters
	Credential credentials.Credential
	Resolution *domains.Resolution
	Graph      *graph.Graph
}

// Outputs are the only values exposed to callers of a deployment.
type Outputs struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
}

// Build validates params, resolves domains, issues the credential and
// assembles the resource graph. It returns either a complete plan or an
// error; no partial plan is ever produced.
//
// Validation errors are *config.ConfigurationError, conflicting routes are
// *domains.AmbiguousRouteError, and credential provider failures are
// returned wrapped so errors.Is and errors.As still match them.
func Build(ctx context.Context, params *config.Parameters, provider credentials.Provider) (*Deployment, error) {
	if params == nil {
		return nil, errors.New("deployment parameters are required")
	}
	if provider == nil {
		return nil, errors.New("credential provider is required")
	}

	p := *params
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res, err := domains.Resolve(p.BaseDomain, p.DashboardDomain, config.ConsolePort)
	if err != nil {
		return nil, err
	}

	identity := naming.Identity(p.Namespace, p.Name)
	cred, err := provider.Issue(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential for %s: %w", identity, err)
	}
	if err := cred.Validate(); err != nil {
		return nil, fmt.Errorf("credential provider returned an invalid credential for %s: %w", identity, err)
	}

	resources, err := buildResources(&p, res, cred)
	if err != nil {
		return nil, err
	}

	g, err := graph.Assemble(resources, p.Protect)
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).V(1).Info("built deployment plan",
		"identity", identity,
		"nodes", g.Len(),
		"dnsNames", res.DNSNames,
		"protect", p.Protect)

	return &Deployment{
		Params:     p,
		Credential: cred,
		Resolution: res,
		Graph:      g,
	}, nil
}

// Outputs returns the credential fields.
func (d *Deployment) Outputs() Outputs {
	return Outputs{
		AccessKeyID:     d.Credential.AccessKeyID,
		SecretAccessKey: d.Credential.SecretAccessKey,
	}
}

// Identity is the credential identity of the deployment.
func (d *Deployment) Identity() string {
	return naming.Identity(d.Params.Namespace, d.Params.Name)
}

// Endpoint is the public S3 endpoint of the deployment.
func (d *Deployment) Endpoint() string {
	return "https://" + d.Params.BaseDomain
}

// ConsoleURL is the public console endpoint of the deployment.
func (d *Deployment) ConsoleURL() string {
	return "https://" + d.Params.DashboardDomain
}
