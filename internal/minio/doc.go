// Package minio composes a MinIO deployment into a resource graph.
//
// [Build] works in two phases. The first computes plain data: validated
// parameters, the routing table and certificate names, and the root
// credential, which is issued exactly once per call. The second builds the
// Kubernetes objects from those values only and assembles them into a
// [graph.Graph]. Cross-object references such as the TLS secret name are
// derived from the instance name, never read back from created objects.
//
// Secret material flows only into the Secret object. The ConfigMap carries
// non-sensitive environment.
package minio
