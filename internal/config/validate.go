package config

import (
	"errors"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
)

// domainRegex is compiled once at package init for domain validation.
var domainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*\.[a-z]{2,}$`)

// Validate checks the parameters and returns every problem found, each as a
// *ConfigurationError joined with errors.Join.
func (p *Parameters) Validate() error {
	var errs []error

	if err := ValidateDomain("baseDomain", p.BaseDomain); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateDomain("dashboardDomain", p.DashboardDomain); err != nil {
		errs = append(errs, err)
	}

	if p.Name == "" {
		errs = append(errs, Required("name"))
	} else if msgs := validation.IsDNS1035Label(p.Name); len(msgs) > 0 {
		errs = append(errs, Invalid("name", "must be a DNS-1035 label: %s", strings.Join(msgs, "; ")))
	}

	if p.Namespace == "" {
		errs = append(errs, Required("namespaceName"))
	} else if msgs := validation.IsDNS1123Label(p.Namespace); len(msgs) > 0 {
		errs = append(errs, Invalid("namespaceName", "must be a DNS-1123 label: %s", strings.Join(msgs, "; ")))
	}

	if p.StorageSize != "" {
		if _, err := resource.ParseQuantity(p.StorageSize); err != nil {
			errs = append(errs, Invalid("storageSize", "must be a resource quantity: %v", err))
		}
	}

	switch p.CredentialStore {
	case "", CredentialStoreCluster, CredentialStoreFile:
	default:
		errs = append(errs, Invalid("credentialStore", "must be %q or %q, got %q",
			CredentialStoreCluster, CredentialStoreFile, p.CredentialStore))
	}

	for _, bucket := range p.Buckets {
		if msgs := validation.IsDNS1123Subdomain(bucket); len(msgs) > 0 || len(bucket) < 3 || len(bucket) > 63 {
			errs = append(errs, Invalid("buckets", "%q is not a valid bucket name", bucket))
		}
	}

	return errors.Join(errs...)
}

// ValidateDomain checks that value is a non-empty, non-wildcard, lowercase
// RFC 1123 DNS name, as required for Ingress hosts.
func ValidateDomain(field, value string) error {
	if value == "" {
		return Required(field)
	}
	if strings.HasPrefix(value, "*.") {
		return Invalid(field, "must not be a wildcard, got %q", value)
	}
	if msgs := validation.IsDNS1123Subdomain(value); len(msgs) > 0 {
		return Invalid(field, "must be a lowercase RFC 1123 domain name, got %q: %s", value, strings.Join(msgs, "; "))
	}
	if !domainRegex.MatchString(value) {
		return Invalid(field, "must be a valid domain name, got %q", value)
	}
	return nil
}
