package k8sclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
)

// ApplyManifests applies multi-document YAML using Server-Side Apply.
// Documents are applied in order and empty documents are skipped.
func (c *client) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error {
	objects, err := DecodeManifests(manifests)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		if err := c.ApplyObject(ctx, obj, fieldManager); err != nil {
			return fmt.Errorf("failed to apply %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
	}
	return nil
}

// DecodeManifests splits multi-document YAML into objects, skipping empty
// documents.
func DecodeManifests(manifests []byte) ([]*unstructured.Unstructured, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var objects []*unstructured.Unstructured
	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			continue
		}
		objects = append(objects, &obj)
	}
	return objects, nil
}

// ApplyObject applies a single unstructured object using Server-Side Apply.
func (c *client) ApplyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error {
	resource, err := c.resourceFor(obj)
	if err != nil {
		return err
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	force := true
	_, err = resource.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: fieldManager,
		Force:        &force,
	})
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}

// DeleteObject deletes an object with background propagation, returning nil
// if it does not exist.
func (c *client) DeleteObject(ctx context.Context, obj *unstructured.Unstructured) error {
	resource, err := c.resourceFor(obj)
	if err != nil {
		return err
	}

	propagation := metav1.DeletePropagationBackground
	err = resource.Delete(ctx, obj.GetName(), metav1.DeleteOptions{PropagationPolicy: &propagation})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
	}
	return nil
}

// GetAnnotations reads the live object and returns its annotations.
func (c *client) GetAnnotations(ctx context.Context, obj *unstructured.Unstructured) (map[string]string, bool, error) {
	resource, err := c.resourceFor(obj)
	if err != nil {
		return nil, false, err
	}

	live, err := resource.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
	}
	return live.GetAnnotations(), true, nil
}

// resourceFor resolves the dynamic resource interface for obj, scoped to its
// namespace when the resource is namespaced.
func (c *client) resourceFor(obj *unstructured.Unstructured) (dynamic.ResourceInterface, error) {
	if obj == nil {
		return nil, errors.New("object is nil")
	}

	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return nil, errors.New("object has no kind set")
	}
	if obj.GetName() == "" {
		return nil, fmt.Errorf("%s has no name set", gvk.Kind)
	}

	mapping, err := c.restMapper().RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, &MappingError{GVK: gvk.String(), Err: err}
	}

	resource := c.dynamicClient.Resource(mapping.Resource)
	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return resource, nil
	}

	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}
	return resource.Namespace(namespace), nil
}
