package config

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// RunWizard prompts for deployment parameters interactively.
// Defaults are pre-filled so an operator only has to enter the two domains.
func RunWizard(ctx context.Context) (*Parameters, error) {
	p := &Parameters{
		Name:            DefaultName,
		Namespace:       DefaultNamespace,
		CredentialStore: DefaultCredentialStore,
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Instance Name").
				Description("Shared name of every generated object").
				Placeholder(DefaultName).
				Value(&p.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Namespace").
				Placeholder(DefaultNamespace).
				Value(&p.Namespace).
				Validate(validateNamespace),
		).Title("Instance"),
		huh.NewGroup(
			huh.NewInput().
				Title("Base Domain").
				Description("S3 API endpoint; buckets are served from *.<base domain>").
				Placeholder("store.example.com").
				Value(&p.BaseDomain).
				Validate(func(s string) error { return ValidateDomain("baseDomain", s) }),
			huh.NewInput().
				Title("Dashboard Domain").
				Description("MinIO console endpoint").
				Placeholder("console.example.com").
				Value(&p.DashboardDomain).
				Validate(func(s string) error { return ValidateDomain("dashboardDomain", s) }),
		).Title("Domains"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Credential Store").
				Options(
					huh.NewOption("Kubernetes Secret", CredentialStoreCluster),
					huh.NewOption("Local file", CredentialStoreFile),
				).
				Value(&p.CredentialStore),
			huh.NewConfirm().
				Title("Protect objects from deletion?").
				Value(&p.Protect),
		).Title("Lifecycle"),
	).RunWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("wizard cancelled: %w", err)
	}

	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func validateName(s string) error {
	candidate := Parameters{Name: s, Namespace: DefaultNamespace, BaseDomain: "example.com", DashboardDomain: "example.org"}
	return candidate.Validate()
}

func validateNamespace(s string) error {
	candidate := Parameters{Name: DefaultName, Namespace: s, BaseDomain: "example.com", DashboardDomain: "example.org"}
	return candidate.Validate()
}
