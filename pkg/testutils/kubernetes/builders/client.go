package builders

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stest "k8s.io/client-go/testing"
)

// ClientBuilder defines a fluent API for configuring a fake client for testing
type ClientBuilder interface {
	// returns an instance of a fake.Clientset.
	Build() (*fake.Clientset, error)
	// WithObjects initializes the client with the given runtime.Objects
	WithObjects(objs ...runtime.Object) ClientBuilder
	// WithNamespaces initializes the client with the given namespaces
	WithNamespaces(namespaces ...string) ClientBuilder
	// WithPods initializes the client with the given Pods
	WithPods(pods ...corev1.Pod) ClientBuilder
	// WithError makes every request with the given verb on the given resource fail with err
	WithError(verb string, resource string, err error) ClientBuilder
}

// clientBuilder builds fake instances of Kubernetes.Interface
type clientBuilder struct {
	client *fake.Clientset
	errors []error
}

// NewClientBuilder returns a ClientBuilder
func NewClientBuilder() ClientBuilder {
	return &clientBuilder{
		client: fake.NewSimpleClientset(),
	}
}

func (b *clientBuilder) WithObjects(objs ...runtime.Object) ClientBuilder {
	for _, o := range objs {
		err := b.client.Tracker().Add(o)
		if err != nil {
			b.errors = append(b.errors, err)
			break
		}
	}
	return b
}

func (b *clientBuilder) WithPods(pods ...corev1.Pod) ClientBuilder {
	for p := range pods {
		_, err := b.client.CoreV1().
			Pods(pods[p].Namespace).
			Create(
				context.TODO(),
				&pods[p],
				metav1.CreateOptions{},
			)
		if err != nil {
			b.errors = append(b.errors, err)
		}
	}
	return b
}

func (b *clientBuilder) WithNamespaces(namespaces ...string) ClientBuilder {
	for _, namespace := range namespaces {
		ns := NewNamespaceBuilder(namespace).Build()
		_, err := b.client.CoreV1().Namespaces().Create(context.TODO(), &ns, metav1.CreateOptions{})
		if err != nil {
			b.errors = append(b.errors, err)
		}
	}

	return b
}

func (b *clientBuilder) WithError(verb string, resource string, err error) ClientBuilder {
	b.client.PrependReactor(verb, resource, func(k8stest.Action) (bool, runtime.Object, error) {
		return true, nil, err
	})
	return b
}

func (b *clientBuilder) Build() (*fake.Clientset, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("errors building client %v", b.errors)
	}

	return b.client, nil
}
