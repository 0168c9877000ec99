// Package labels provides consistent labeling for the Kubernetes objects of a
// MinIO deployment.
//
// Every object carries the well-known app.kubernetes.io labels. The pod
// selector is the single "app" key and must stay stable across releases,
// since a StatefulSet selector is immutable.
package labels
