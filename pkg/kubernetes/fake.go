package kubernetes

import (
	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes/helpers"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
)

// FakeKubernetes is a fake implementation of the Kubernetes interface
type FakeKubernetes struct {
	*fake.Clientset
}

// NewFakeKubernetes returns a new fake implementation of Kubernetes from fake Clientset
func NewFakeKubernetes(clientset *fake.Clientset) (*FakeKubernetes, error) {
	return &FakeKubernetes{
		Clientset: clientset,
	}, nil
}

// Client returns the fake clientset
func (f *FakeKubernetes) Client() kubernetes.Interface {
	return f.Clientset
}

// NamespaceHelper returns a NamespaceHelper backed by the fake clientset
func (f *FakeKubernetes) NamespaceHelper() helpers.NamespaceHelper {
	return helpers.NewNamespaceHelper(f.Clientset)
}

// PodHelper returns a PodHelper backed by the fake clientset
func (f *FakeKubernetes) PodHelper(options helpers.PodHelperOptions) helpers.PodHelper {
	return helpers.NewPodHelper(f.Clientset, options)
}
