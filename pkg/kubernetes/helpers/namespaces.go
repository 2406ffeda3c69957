package helpers

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NamespaceHelper defines helper methods for handling namespaces
type NamespaceHelper interface {
	// ListNamespaces returns the names of the namespaces that exist in the cluster
	ListNamespaces(ctx context.Context) ([]string, error)
}

type nsHelper struct {
	client kubernetes.Interface
}

// NewNamespaceHelper creates a namespace helper
func NewNamespaceHelper(client kubernetes.Interface) NamespaceHelper {
	return &nsHelper{
		client: client,
	}
}

func (h *nsHelper) ListNamespaces(ctx context.Context) ([]string, error) {
	list, err := h.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.GetName())
	}

	return names, nil
}
