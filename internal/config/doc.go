// Package config defines the deployment parameters of a MinIO instance.
//
// [Parameters] is loaded from a YAML file (minio-stack.yaml by default),
// optionally overridden from MINIO_STACK_* environment variables, filled
// with defaults and validated. Validation failures are reported as
// [ConfigurationError] values that name the offending field, so an operator
// can fix the input without reading code.
package config
