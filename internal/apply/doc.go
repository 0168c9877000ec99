// Package apply drives a deployment graph against a cluster. Nodes are
// applied wave by wave, with the nodes of one wave applied concurrently, and
// destroyed in the reverse order. Every cluster call is retried with
// exponential backoff.
package apply
