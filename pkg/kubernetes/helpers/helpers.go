// Package helpers offers functions to simplify dealing with kubernetes resources.
package helpers

import (
	"k8s.io/client-go/kubernetes"
)

// Helpers offers Helper functions grouped by the objects they handle
type Helpers interface {
	NamespaceHelper
	PodHelper
}

// helpers struct holds the data required by the helpers
type helpers struct {
	*nsHelper
	*podHelper
}

// NewHelper creates a set of helpers sharing the given client
func NewHelper(client kubernetes.Interface, options PodHelperOptions) Helpers {
	return &helpers{
		nsHelper:  &nsHelper{client: client},
		podHelper: &podHelper{client: client, options: options},
	}
}
