// Package khaos implements the attack cycle of the khaos monkey: it resolves the target namespaces,
// groups the eligible pods, selects victims in each group and deletes them on a jittered schedule.
package khaos

import (
	"context"
	"errors"

	corev1 "k8s.io/api/core/v1"
)

// ErrNamespaceConflict is returned when a namespace is both a target and blacklisted
var ErrNamespaceConflict = errors.New("a namespace can't be both in target namespaces and blacklisted namespaces")

// ErrInvalidConfig is returned when the configuration of the monkey is not valid
var ErrInvalidConfig = errors.New("invalid configuration")

// Labels that control how the monkey treats a pod
const (
	// EnabledLabel opts a pod in ("true") or out ("false") of the attacks
	EnabledLabel = "khaos-enabled"
	// GroupLabel explicitly assigns a pod to a khaos group
	GroupLabel = "khaos-group"
	// TemplateHashLabel identifies pods created from the same replica set template
	TemplateHashLabel = "pod-template-hash"
	// JobNameLabel identifies pods created by the same job
	JobNameLabel = "job-name"
)

// Cluster defines the operations the monkey requires from the cluster
type Cluster interface {
	// ListNamespaces returns the names of the namespaces in the cluster
	ListNamespaces(ctx context.Context) ([]string, error)
	// ListPods returns the pods in all namespaces
	ListPods(ctx context.Context) ([]corev1.Pod, error)
	// DeletePod deletes a pod. The error wraps helpers.ErrPodNotFound if the pod is already gone
	DeletePod(ctx context.Context, namespace string, name string) error
}
