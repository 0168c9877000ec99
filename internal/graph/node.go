package graph

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Kind identifies the role of a node in a deployment.
type Kind string

const (
	KindConfig      Kind = "Config"
	KindSecret      Kind = "Secret"
	KindWorkload    Kind = "Workload"
	KindService     Kind = "Service"
	KindCertificate Kind = "Certificate"
	KindRouting     Kind = "Routing"
)

// Kinds lists every kind in declaration order. The order is also the tie
// breaker inside a wave, so the rendered plan is stable.
var Kinds = []Kind{KindConfig, KindSecret, KindWorkload, KindService, KindCertificate, KindRouting}

// ID uniquely identifies a node inside a Graph.
type ID string

// IDFor returns the node id of a kind. A deployment holds one node per kind.
func IDFor(kind Kind) ID {
	return ID(kind)
}

// dependencies are the fixed "must exist before" edges.
var dependencies = map[Kind][]Kind{
	KindWorkload: {KindConfig, KindSecret},
	KindRouting:  {KindService, KindCertificate},
}

// DependenciesOf returns the kinds a kind must wait for.
func DependenciesOf(kind Kind) []Kind {
	deps := dependencies[kind]
	out := make([]Kind, len(deps))
	copy(out, deps)
	return out
}

// Node is one Kubernetes object of the deployment.
type Node struct {
	ID        ID
	Kind      Kind
	Name      string
	Namespace string
	DependsOn []ID
	// Protect forbids deleting the object on destroy.
	Protect bool
	Object  *unstructured.Unstructured
}

// Ref returns "<Kubernetes kind>/<namespace>/<name>" for logs and errors.
func (n *Node) Ref() string {
	k := string(n.Kind)
	if n.Object != nil && n.Object.GetKind() != "" {
		k = n.Object.GetKind()
	}
	return k + "/" + n.Namespace + "/" + n.Name
}

func kindOrder(kind Kind) int {
	for i, k := range Kinds {
		if k == kind {
			return i
		}
	}
	return len(Kinds)
}
