package config

// Defaults applied by [Parameters.ApplyDefaults].
const (
	DefaultName            = "minio"
	DefaultNamespace       = "default"
	DefaultImage           = "minio/minio:latest"
	DefaultStorageSize     = "1G"
	DefaultClusterIssuer   = "acme-letsencrypt"
	DefaultCredentialStore = CredentialStoreCluster
)

// Ports exposed by the MinIO workload.
const (
	HTTPPort    int32 = 80
	ConsolePort int32 = 9001

	HTTPPortName    = "http"
	ConsolePortName = "console"
)

// Credential store backends.
const (
	CredentialStoreCluster = "cluster"
	CredentialStoreFile    = "file"
)

// Environment variables that override file values.
const (
	EnvName            = "MINIO_STACK_NAME"
	EnvNamespace       = "MINIO_STACK_NAMESPACE"
	EnvBaseDomain      = "MINIO_STACK_BASE_DOMAIN"
	EnvDashboardDomain = "MINIO_STACK_DASHBOARD_DOMAIN"
	EnvProtect         = "MINIO_STACK_PROTECT"
	EnvImage           = "MINIO_STACK_IMAGE"
)
