package labels

// Standard label and annotation keys.
const (
	// KeyApp is the pod selector key.
	KeyApp = "app"

	KeyName      = "app.kubernetes.io/name"
	KeyInstance  = "app.kubernetes.io/instance"
	KeyComponent = "app.kubernetes.io/component"
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// AnnotationProtect marks objects that must not be deleted by destroy.
	AnnotationProtect = "minio-stack.io/protect"

	// AnnotationDependsOn lists the kinds an object waits for, in rendered plans.
	AnnotationDependsOn = "minio-stack.io/depends-on"

	// AnnotationNode records the graph node an object belongs to, in rendered plans.
	AnnotationNode = "minio-stack.io/node"

	// AnnotationIdentity records the credential identity on stored credentials.
	AnnotationIdentity = "minio-stack.io/identity"
)

// ManagedBy values
const (
	AppName          = "minio"
	ManagedByMinio   = "minio-stack"
	ComponentStorage = "object-storage"
)

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the instance name pre-set.
func NewLabelBuilder(instance string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyApp:       instance,
			KeyName:      AppName,
			KeyInstance:  instance,
			KeyManagedBy: ManagedByMinio,
		},
	}
}

// WithComponent adds a component label (e.g., "object-storage").
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = component
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector returns the immutable pod selector for an instance.
func Selector(instance string) map[string]string {
	return map[string]string{KeyApp: instance}
}
