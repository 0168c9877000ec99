package naming

import "fmt"

func ConfigMap(instance string) string {
	return instance
}

func Secret(instance string) string {
	return instance
}

func StatefulSet(instance string) string {
	return instance
}

func Service(instance string) string {
	return instance
}

func Certificate(instance string) string {
	return instance
}

func Ingress(instance string) string {
	return instance
}

// TLSSecret is the secret cert-manager writes the issued certificate to.
func TLSSecret(instance string) string {
	return fmt.Sprintf("%s-tls", instance)
}

// CredentialsSecret stores the issued root credential between runs. Instance
// names are DNS-1035 labels, so the dotted name never matches an object name
// of another instance.
func CredentialsSecret(instance string) string {
	return fmt.Sprintf("%s.credentials", instance)
}

// Identity is the credential identity of a deployment instance.
func Identity(namespace, instance string) string {
	return fmt.Sprintf("%s/%s", namespace, instance)
}
