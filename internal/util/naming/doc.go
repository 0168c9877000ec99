// Package naming provides consistent naming functions for the objects of a
// MinIO deployment.
//
// Every primary object shares the instance name. Derived names are computed
// here rather than read back from created objects, so the ingress can refer
// to the TLS secret before the certificate exists.
package naming
