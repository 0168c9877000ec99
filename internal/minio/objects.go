package minio

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/imamik/minio-stack/internal/config"
	"github.com/imamik/minio-stack/internal/credentials"
	"github.com/imamik/minio-stack/internal/domains"
	"github.com/imamik/minio-stack/internal/graph"
	"github.com/imamik/minio-stack/internal/util/labels"
	"github.com/imamik/minio-stack/internal/util/naming"
	"github.com/imamik/minio-stack/internal/util/ptr"
)

// Environment keys consumed by the MinIO server.
const (
	EnvDomain       = "MINIO_DOMAIN"
	EnvHTTPTrace    = "MINIO_HTTP_TRACE"
	EnvRootUser     = "MINIO_ROOT_USER"
	EnvRootPassword = "MINIO_ROOT_PASSWORD" //nolint:gosec // This is an env var name, not a credential
	EnvPodIP        = "POD_IP"

	dataMountPath = "/data"
	dataSubPath   = "data"
)

// CertificateGVK is the cert-manager Certificate kind.
var CertificateGVK = schema.GroupVersionKind{Group: "cert-manager.io", Version: "v1", Kind: "Certificate"}

func buildResources(p *config.Parameters, res *domains.Resolution, cred credentials.Credential) ([]graph.Resource, error) {
	sts, err := buildStatefulSet(p)
	if err != nil {
		return nil, err
	}

	typed := []struct {
		kind graph.Kind
		obj  runtime.Object
		gvk  schema.GroupVersionKind
	}{
		{graph.KindConfig, buildConfigMap(p), corev1.SchemeGroupVersion.WithKind("ConfigMap")},
		{graph.KindSecret, buildSecret(p, cred), corev1.SchemeGroupVersion.WithKind("Secret")},
		{graph.KindWorkload, sts, appsv1.SchemeGroupVersion.WithKind("StatefulSet")},
		{graph.KindService, buildService(p), corev1.SchemeGroupVersion.WithKind("Service")},
		{graph.KindRouting, buildIngress(p, res), networkingv1.SchemeGroupVersion.WithKind("Ingress")},
	}

	resources := make([]graph.Resource, 0, len(typed)+1)
	for _, t := range typed {
		u, err := toUnstructured(t.obj, t.gvk)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", t.gvk.Kind, err)
		}
		resources = append(resources, graph.Resource{Kind: t.kind, Object: u})
	}

	cert, err := buildCertificate(p, res)
	if err != nil {
		return nil, err
	}
	resources = append(resources, graph.Resource{Kind: graph.KindCertificate, Object: cert})

	return resources, nil
}

func objectMeta(p *config.Parameters, name string) metav1.ObjectMeta {
	meta := metav1.ObjectMeta{
		Name:      name,
		Namespace: p.Namespace,
		Labels:    labels.NewLabelBuilder(p.Name).WithComponent(labels.ComponentStorage).Build(),
	}
	if p.Protect {
		meta.Annotations = map[string]string{labels.AnnotationProtect: "true"}
	}
	return meta
}

func buildConfigMap(p *config.Parameters) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: objectMeta(p, naming.ConfigMap(p.Name)),
		Data: map[string]string{
			EnvDomain:    p.BaseDomain,
			EnvHTTPTrace: "/dev/stdout",
		},
	}
}

func buildSecret(p *config.Parameters, cred credentials.Credential) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: objectMeta(p, naming.Secret(p.Name)),
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{
			EnvRootUser:     cred.AccessKeyID,
			EnvRootPassword: cred.SecretAccessKey,
		},
	}
}

// startScript pins the base domain to the pod IP so MinIO can bind its API
// address to the domain it serves virtual-host buckets from.
func startScript(p *config.Parameters) string {
	return fmt.Sprintf("echo \"$%s\t%s\" >> /etc/hosts\nexec minio server %s --address '%s:%d' --console-address :%d\n",
		EnvPodIP, p.BaseDomain, dataMountPath, p.BaseDomain, config.HTTPPort, config.ConsolePort)
}

func containerPorts() []corev1.ContainerPort {
	return []corev1.ContainerPort{
		{Name: config.HTTPPortName, ContainerPort: config.HTTPPort},
		{Name: config.ConsolePortName, ContainerPort: config.ConsolePort},
	}
}

func buildStatefulSet(p *config.Parameters) (*appsv1.StatefulSet, error) {
	storage, err := resource.ParseQuantity(p.StorageSize)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "storageSize", Reason: err.Error()}
	}

	name := naming.StatefulSet(p.Name)
	podLabels := labels.NewLabelBuilder(p.Name).WithComponent(labels.ComponentStorage).Build()

	claim := corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: storage},
			},
		},
	}
	if p.StorageClass != "" {
		claim.Spec.StorageClassName = ptr.String(p.StorageClass)
	}

	return &appsv1.StatefulSet{
		ObjectMeta: objectMeta(p, name),
		Spec: appsv1.StatefulSetSpec{
			PodManagementPolicy: appsv1.ParallelPodManagement,
			ServiceName:         naming.Service(p.Name),
			Selector:            &metav1.LabelSelector{MatchLabels: labels.Selector(p.Name)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: podLabels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  name,
						Image: p.Image,
						Env: []corev1.EnvVar{{
							Name: EnvPodIP,
							ValueFrom: &corev1.EnvVarSource{
								FieldRef: &corev1.ObjectFieldSelector{FieldPath: "status.podIP"},
							},
						}},
						EnvFrom: []corev1.EnvFromSource{
							{ConfigMapRef: &corev1.ConfigMapEnvSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: naming.ConfigMap(p.Name)},
							}},
							{SecretRef: &corev1.SecretEnvSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: naming.Secret(p.Name)},
							}},
						},
						Ports: containerPorts(),
						VolumeMounts: []corev1.VolumeMount{{
							Name:      name,
							MountPath: dataMountPath,
							SubPath:   dataSubPath,
						}},
						Command: []string{"sh", "-exc"},
						Args:    []string{startScript(p)},
					}},
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{claim},
		},
	}, nil
}

func buildService(p *config.Parameters) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: objectMeta(p, naming.Service(p.Name)),
		Spec: corev1.ServiceSpec{
			Selector: labels.Selector(p.Name),
			Ports: []corev1.ServicePort{
				{Name: config.HTTPPortName, Port: config.HTTPPort},
				{Name: config.ConsolePortName, Port: config.ConsolePort},
			},
		},
	}
}

func buildCertificate(p *config.Parameters, res *domains.Resolution) (*unstructured.Unstructured, error) {
	meta := objectMeta(p, naming.Certificate(p.Name))

	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(CertificateGVK)
	u.SetName(meta.Name)
	u.SetNamespace(meta.Namespace)
	u.SetLabels(meta.Labels)
	if len(meta.Annotations) > 0 {
		u.SetAnnotations(meta.Annotations)
	}

	fields := []struct {
		value any
		path  []string
	}{
		{naming.TLSSecret(p.Name), []string{"spec", "secretName"}},
		{"ClusterIssuer", []string{"spec", "issuerRef", "kind"}},
		{p.ClusterIssuer, []string{"spec", "issuerRef", "name"}},
	}
	for _, f := range fields {
		if err := unstructured.SetNestedField(u.Object, f.value, f.path...); err != nil {
			return nil, fmt.Errorf("failed to set certificate field %v: %w", f.path, err)
		}
	}
	if err := unstructured.SetNestedStringSlice(u.Object, res.DNSNames, "spec", "dnsNames"); err != nil {
		return nil, fmt.Errorf("failed to set certificate dnsNames: %w", err)
	}

	return u, nil
}

func buildIngress(p *config.Parameters, res *domains.Resolution) *networkingv1.Ingress {
	pathType := networkingv1.PathTypePrefix

	rules := make([]networkingv1.IngressRule, 0, len(res.Routes))
	for _, route := range res.Routes {
		rules = append(rules, networkingv1.IngressRule{
			Host: route.Host,
			IngressRuleValue: networkingv1.IngressRuleValue{
				HTTP: &networkingv1.HTTPIngressRuleValue{
					Paths: []networkingv1.HTTPIngressPath{{
						Path:     "/",
						PathType: &pathType,
						Backend: networkingv1.IngressBackend{
							Service: &networkingv1.IngressServiceBackend{
								Name: naming.Service(p.Name),
								Port: networkingv1.ServiceBackendPort{Number: route.Port},
							},
						},
					}},
				},
			},
		})
	}

	ing := &networkingv1.Ingress{
		ObjectMeta: objectMeta(p, naming.Ingress(p.Name)),
		Spec: networkingv1.IngressSpec{
			TLS: []networkingv1.IngressTLS{{
				SecretName: naming.TLSSecret(p.Name),
				Hosts:      res.Hosts(),
			}},
			Rules: rules,
		},
	}
	if p.IngressClass != "" {
		ing.Spec.IngressClassName = ptr.String(p.IngressClass)
	}
	return ing
}

// toUnstructured converts a typed object, setting its GVK and dropping the
// empty status and creationTimestamp the converter emits.
func toUnstructured(obj runtime.Object, gvk schema.GroupVersionKind) (*unstructured.Unstructured, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, err
	}

	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(gvk)
	unstructured.RemoveNestedField(u.Object, "status")
	unstructured.RemoveNestedField(u.Object, "metadata", "creationTimestamp")
	return u, nil
}
