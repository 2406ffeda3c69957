// Package builders offers functions for building test objects
package builders

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodBuilder defines the methods for building a Pod
type PodBuilder interface {
	// Build returns a Pod with the attributes defined in the PodBuilder
	Build() corev1.Pod
	// WithNamespace sets namespace for the pod to be built
	WithNamespace(namespace string) PodBuilder
	// WithoutNamespace builds a pod with an empty namespace
	WithoutNamespace() PodBuilder
	// WithLabels sets the labels for the pod to be built
	WithLabels(labels map[string]string) PodBuilder
	// WithLabel adds a label to the pod to be built
	WithLabel(key string, value string) PodBuilder
	// WithStatus sets the PodPhase for the pod  to be built
	WithStatus(status corev1.PodPhase) PodBuilder
}

// podBuilder defines the attributes for building a pod
type podBuilder struct {
	name       string
	namespace  string
	labels     map[string]string
	status     corev1.PodPhase
	containers []corev1.Container
}

// NewPodBuilder creates a new instance of PodBuilder with the given pod name
// and default attributes such as containers and namespace
func NewPodBuilder(name string) PodBuilder {
	return &podBuilder{
		name:      name,
		namespace: metav1.NamespaceDefault,
		labels:    map[string]string{},
		status:    corev1.PodRunning,
		containers: []corev1.Container{
			{
				Name:    "busybox",
				Image:   "busybox",
				Command: []string{"sh", "-c", "sleep 300"},
			},
		},
	}
}

func (b *podBuilder) WithNamespace(namespace string) PodBuilder {
	b.namespace = namespace
	return b
}

func (b *podBuilder) WithoutNamespace() PodBuilder {
	b.namespace = ""
	return b
}

func (b *podBuilder) WithStatus(phase corev1.PodPhase) PodBuilder {
	b.status = phase
	return b
}

func (b *podBuilder) WithLabels(labels map[string]string) PodBuilder {
	for k, v := range labels {
		b.labels[k] = v
	}
	return b
}

func (b *podBuilder) WithLabel(key string, value string) PodBuilder {
	b.labels[key] = value
	return b
}

func (b *podBuilder) Build() corev1.Pod {
	labels := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		labels[k] = v
	}

	return corev1.Pod{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Pod",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      b.name,
			Namespace: b.namespace,
			Labels:    labels,
		},
		Spec: corev1.PodSpec{
			Containers: b.containers,
		},
		Status: corev1.PodStatus{
			Phase: b.status,
		},
	}
}
