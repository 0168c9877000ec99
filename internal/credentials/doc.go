// Package credentials issues the root credential of a MinIO deployment.
//
// A [Provider] returns the same [Credential] for the same identity on every
// call: the first call generates and persists it, later calls read it back.
// Stored credentials are never overwritten. Two stores are provided:
// [SecretStore] keeps the credential in a Kubernetes Secret next to the
// deployment, [FileStore] keeps it in a local YAML state file.
package credentials
