// Package graph assembles the resource graph of a MinIO deployment.
//
// A [Graph] holds one [Node] per Kubernetes object together with its
// DependsOn edges. The edges are structural and never computed from object
// content:
//
//	Workload -> Config, Secret
//	Routing  -> Service, Certificate
//
// Nodes whose dependencies are satisfied form a wave; all nodes of a wave may
// be applied concurrently. Teardown walks the waves in reverse.
//
// The ordering itself is delegated to [DirectedAcyclicGraph], a small generic
// DAG with deterministic, insertion-ordered topological sorting.
package graph
