package credentials

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	"github.com/imamik/minio-stack/internal/util/labels"
)

var _ = Describe("SecretStore", func() {
	const identity = "storage/minio"

	var (
		ctx context.Context
		key client.ObjectKey
	)

	BeforeEach(func() {
		ctx = context.Background()
		key = client.ObjectKey{Namespace: "storage", Name: "minio.credentials"}
	})

	Context("when no credential is stored", func() {
		It("generates one and stores it in a secret", func() {
			k8sClient := fake.NewClientBuilder().Build()
			store := NewSecretStore(k8sClient)

			cred, err := store.Issue(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.Validate()).To(Succeed())

			secret := &corev1.Secret{}
			Expect(k8sClient.Get(ctx, key, secret)).To(Succeed())
			Expect(string(secret.Data[SecretKeyAccessKeyID])).To(Equal(cred.AccessKeyID))
			Expect(string(secret.Data[SecretKeySecretAccessKey])).To(Equal(cred.SecretAccessKey))
			Expect(secret.Annotations).To(HaveKeyWithValue(labels.AnnotationIdentity, identity))
			Expect(secret.Labels).To(HaveKeyWithValue(labels.KeyInstance, "minio"))
		})

		It("returns the same credential on every call", func() {
			store := NewSecretStore(fake.NewClientBuilder().Build())

			first, err := store.Issue(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			second, err := store.Issue(ctx, identity)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
		})

		It("reports nothing from Lookup", func() {
			store := NewSecretStore(fake.NewClientBuilder().Build())

			_, found, err := store.Lookup(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
		})
	})

	Context("when a credential is already stored", func() {
		var existing *corev1.Secret

		BeforeEach(func() {
			existing = &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{
					Namespace:   key.Namespace,
					Name:        key.Name,
					Annotations: map[string]string{labels.AnnotationIdentity: identity},
				},
				Data: map[string][]byte{
					SecretKeyAccessKeyID:     []byte("EXISTINGACCESSKEY000"),
					SecretKeySecretAccessKey: []byte("existing-secret"),
				},
			}
		})

		It("reuses it and never regenerates", func() {
			store := NewSecretStore(fake.NewClientBuilder().WithObjects(existing).Build())
			store.generate = func() (Credential, error) {
				Fail("generator must not be called")
				return Credential{}, nil
			}

			cred, err := store.Issue(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(cred).To(Equal(Credential{AccessKeyID: "EXISTINGACCESSKEY000", SecretAccessKey: "existing-secret"}))
		})

		It("refuses a corrupt secret instead of overwriting it", func() {
			delete(existing.Data, SecretKeySecretAccessKey)
			k8sClient := fake.NewClientBuilder().WithObjects(existing).Build()

			_, err := NewSecretStore(k8sClient).Issue(ctx, identity)
			Expect(err).To(MatchError(ContainSubstring("corrupt")))

			secret := &corev1.Secret{}
			Expect(k8sClient.Get(ctx, key, secret)).To(Succeed())
			Expect(secret.Data).NotTo(HaveKey(SecretKeySecretAccessKey))
		})

		It("can be deleted", func() {
			k8sClient := fake.NewClientBuilder().WithObjects(existing).Build()
			store := NewSecretStore(k8sClient)

			Expect(store.Delete(ctx, identity)).To(Succeed())
			Expect(store.Delete(ctx, identity)).To(Succeed())

			err := k8sClient.Get(ctx, key, &corev1.Secret{})
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
		})
	})

	Context("when the secret belongs to another identity", func() {
		var foreign *corev1.Secret

		BeforeEach(func() {
			foreign = &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{
					Namespace:   key.Namespace,
					Name:        key.Name,
					Annotations: map[string]string{labels.AnnotationIdentity: "storage/other"},
				},
				Data: map[string][]byte{
					SecretKeyAccessKeyID:     []byte("FOREIGNACCESSKEY0000"),
					SecretKeySecretAccessKey: []byte("foreign-secret"),
				},
			}
		})

		It("refuses to reuse it", func() {
			store := NewSecretStore(fake.NewClientBuilder().WithObjects(foreign).Build())

			_, err := store.Issue(ctx, identity)
			Expect(err).To(MatchError(ContainSubstring("is not a credential of storage/minio")))

			_, _, err = store.Lookup(ctx, identity)
			Expect(err).To(HaveOccurred())
		})

		It("refuses to delete it", func() {
			k8sClient := fake.NewClientBuilder().WithObjects(foreign).Build()

			Expect(NewSecretStore(k8sClient).Delete(ctx, identity)).NotTo(Succeed())
			Expect(k8sClient.Get(ctx, key, &corev1.Secret{})).To(Succeed())
		})
	})

	Context("when another run creates the secret concurrently", func() {
		It("returns the winner's credential", func() {
			winner := &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{
					Namespace:   key.Namespace,
					Name:        key.Name,
					Annotations: map[string]string{labels.AnnotationIdentity: identity},
				},
				Data: map[string][]byte{
					SecretKeyAccessKeyID:     []byte("WINNERACCESSKEY00000"),
					SecretKeySecretAccessKey: []byte("winner-secret"),
				},
			}

			k8sClient := fake.NewClientBuilder().WithInterceptorFuncs(interceptor.Funcs{
				Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
					Expect(c.Create(ctx, winner.DeepCopy())).To(Succeed())
					return apierrors.NewAlreadyExists(schema.GroupResource{Resource: "secrets"}, obj.GetName())
				},
			}).Build()

			cred, err := NewSecretStore(k8sClient).Issue(ctx, identity)
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.AccessKeyID).To(Equal("WINNERACCESSKEY00000"))
		})
	})

	Context("when the API fails", func() {
		It("propagates the error unchanged in identity", func() {
			boom := errors.New("apiserver unavailable")
			k8sClient := fake.NewClientBuilder().WithInterceptorFuncs(interceptor.Funcs{
				Get: func(context.Context, client.WithWatch, client.ObjectKey, client.Object, ...client.GetOption) error {
					return boom
				},
			}).Build()

			_, err := NewSecretStore(k8sClient).Issue(ctx, identity)
			Expect(err).To(MatchError(boom))
		})

		It("rejects malformed identities", func() {
			_, err := NewSecretStore(fake.NewClientBuilder().Build()).Issue(ctx, "minio")
			Expect(err).To(MatchError(ContainSubstring("invalid credential identity")))
		})
	})
})
