package builders

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NamespaceBuilder defines the methods for building a Namespace
type NamespaceBuilder interface {
	// Build returns a Namespace with the attributes defined in the NamespaceBuilder
	Build() corev1.Namespace
	// WithLabels sets the labels for the namespace to be built
	WithLabels(labels map[string]string) NamespaceBuilder
}

type namespaceBuilder struct {
	name   string
	labels map[string]string
}

// NewNamespaceBuilder creates a NamespaceBuilder for the given namespace name
func NewNamespaceBuilder(name string) NamespaceBuilder {
	return &namespaceBuilder{
		name: name,
	}
}

func (b *namespaceBuilder) WithLabels(labels map[string]string) NamespaceBuilder {
	b.labels = labels
	return b
}

func (b *namespaceBuilder) Build() corev1.Namespace {
	return corev1.Namespace{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Namespace",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:   b.name,
			Labels: b.labels,
		},
		Status: corev1.NamespaceStatus{
			Phase: corev1.NamespaceActive,
		},
	}
}
