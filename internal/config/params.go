package config

import (
	"os"
	"strconv"
)

// Parameters are the inputs of one MinIO deployment instance.
type Parameters struct {
	// Name is the instance name shared by every generated object.
	Name string `yaml:"name,omitempty"`

	// Namespace is the Kubernetes namespace the objects are created in.
	Namespace string `yaml:"namespaceName,omitempty"`

	// BaseDomain serves the S3 API, including virtual-host style buckets
	// under *.BaseDomain.
	BaseDomain string `yaml:"baseDomain"`

	// DashboardDomain serves the MinIO console.
	DashboardDomain string `yaml:"dashboardDomain"`

	// Protect marks every object as protected against deletion.
	Protect bool `yaml:"protect,omitempty"`

	Image         string `yaml:"image,omitempty"`
	StorageSize   string `yaml:"storageSize,omitempty"`
	StorageClass  string `yaml:"storageClass,omitempty"`
	ClusterIssuer string `yaml:"clusterIssuer,omitempty"`
	IngressClass  string `yaml:"ingressClass,omitempty"`

	// CredentialStore selects where the root credential is persisted:
	// "cluster" (a Kubernetes Secret) or "file" (a local state file).
	CredentialStore string `yaml:"credentialStore,omitempty"`

	// CredentialFile is the state file used by the "file" credential store.
	CredentialFile string `yaml:"credentialFile,omitempty"`

	// Buckets are created through the S3 API after a successful apply.
	Buckets []string `yaml:"buckets,omitempty"`
}

// ApplyDefaults fills unset optional fields.
func (p *Parameters) ApplyDefaults() {
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Namespace == "" {
		p.Namespace = DefaultNamespace
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	if p.StorageSize == "" {
		p.StorageSize = DefaultStorageSize
	}
	if p.ClusterIssuer == "" {
		p.ClusterIssuer = DefaultClusterIssuer
	}
	if p.CredentialStore == "" {
		p.CredentialStore = DefaultCredentialStore
	}
	if p.CredentialStore == CredentialStoreFile && p.CredentialFile == "" {
		p.CredentialFile = "." + p.Name + "-credentials.yaml"
	}
}

// withoutDefaults returns a copy with optional fields cleared where they
// hold the value ApplyDefaults would set.
func (p *Parameters) withoutDefaults() *Parameters {
	out := *p
	if out.Image == DefaultImage {
		out.Image = ""
	}
	if out.StorageSize == DefaultStorageSize {
		out.StorageSize = ""
	}
	if out.ClusterIssuer == DefaultClusterIssuer {
		out.ClusterIssuer = ""
	}
	if out.CredentialFile == "."+out.Name+"-credentials.yaml" {
		out.CredentialFile = ""
	}
	return &out
}

// ApplyEnv overrides fields from MINIO_STACK_* environment variables.
// Unparseable booleans are reported by Validate through the raw value.
func (p *Parameters) ApplyEnv() error {
	overrides := map[string]*string{
		EnvName:            &p.Name,
		EnvNamespace:       &p.Namespace,
		EnvBaseDomain:      &p.BaseDomain,
		EnvDashboardDomain: &p.DashboardDomain,
		EnvImage:           &p.Image,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*target = v
		}
	}

	if v, ok := os.LookupEnv(EnvProtect); ok && v != "" {
		protect, err := strconv.ParseBool(v)
		if err != nil {
			return Invalid("protect", "must be a boolean, got %q from %s", v, EnvProtect)
		}
		p.Protect = protect
	}

	return nil
}
