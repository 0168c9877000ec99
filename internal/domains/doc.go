// Package domains resolves the host routing table and the certificate DNS
// names of a MinIO deployment.
//
// The base domain serves the S3 API on port 80, the wildcard *.<base> serves
// virtual-host style buckets on the same port, and the dashboard domain
// serves the console. Every host gets an ingress rule, but the certificate
// only lists names not already covered by a wildcard one level up.
package domains
