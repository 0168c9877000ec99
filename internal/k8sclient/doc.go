// Package k8sclient wraps k8s.io/client-go for the operations the applier
// needs: Server-Side Apply of objects and multi-document manifests, deletion,
// API discovery, and readiness checks for the MinIO workload and its
// certificate.
package k8sclient
