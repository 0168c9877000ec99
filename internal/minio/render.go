package minio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/imamik/minio-stack/internal/graph"
	"github.com/imamik/minio-stack/internal/k8sclient"
	"github.com/imamik/minio-stack/internal/util/labels"
)

const documentSeparator = "---\n"

// Render writes the deployment objects as a multi-document YAML manifest in
// apply order. Each object carries its node id and depends-on annotations so
// ParsePlan can rebuild the graph from a saved plan.
func Render(d *Deployment) ([]byte, error) {
	if d == nil || d.Graph == nil {
		return nil, errors.New("deployment has no graph")
	}

	nodes, err := d.Graph.ApplyOrder()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, n := range nodes {
		obj := n.Object.DeepCopy()
		annotations := obj.GetAnnotations()
		if annotations == nil {
			annotations = make(map[string]string, 2)
		}
		annotations[labels.AnnotationNode] = string(n.ID)
		if len(n.DependsOn) > 0 {
			deps := make([]string, 0, len(n.DependsOn))
			for _, dep := range n.DependsOn {
				deps = append(deps, string(dep))
			}
			annotations[labels.AnnotationDependsOn] = strings.Join(deps, ",")
		}
		obj.SetAnnotations(annotations)

		out, err := yaml.Marshal(obj.Object)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", n.Ref(), err)
		}
		if i > 0 {
			buf.WriteString(documentSeparator)
		}
		buf.Write(out)
	}

	return buf.Bytes(), nil
}

// ParsePlan rebuilds the graph of a plan written by Render. The result is
// validated, so a hand-edited plan with a dangling or cyclic dependency fails
// with a *graph.GraphIntegrityError.
func ParsePlan(data []byte) (*graph.Graph, error) {
	objects, err := k8sclient.DecodeManifests(data)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, errors.New("plan contains no objects")
	}

	g := graph.New()
	for _, obj := range objects {
		annotations := obj.GetAnnotations()
		id := annotations[labels.AnnotationNode]
		if id == "" {
			return nil, fmt.Errorf("%s %s/%s has no %s annotation", obj.GetKind(), obj.GetNamespace(), obj.GetName(), labels.AnnotationNode)
		}

		var dependsOn []graph.ID
		if deps := annotations[labels.AnnotationDependsOn]; deps != "" {
			for _, dep := range strings.Split(deps, ",") {
				dependsOn = append(dependsOn, graph.ID(strings.TrimSpace(dep)))
			}
		}

		n := &graph.Node{
			ID:        graph.ID(id),
			Kind:      graph.Kind(id),
			Name:      obj.GetName(),
			Namespace: obj.GetNamespace(),
			DependsOn: dependsOn,
			Protect:   annotations[labels.AnnotationProtect] == "true",
			Object:    obj,
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
