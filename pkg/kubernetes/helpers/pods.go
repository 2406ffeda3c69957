package helpers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ErrPodNotFound is returned by DeletePod when the pod no longer exists
var ErrPodNotFound = errors.New("pod not found")

// DefaultPageSize is the number of pods requested per page when listing pods
const DefaultPageSize = 500

// PodHelperOptions defines options that control the PodHelper's behavior
type PodHelperOptions struct {
	// PageSize limits the number of pods returned by each list request. Zero uses DefaultPageSize.
	PageSize int64
	// GracePeriod overrides the termination grace period of deleted pods. Nil uses the pod's own setting.
	GracePeriod *time.Duration
}

// PodHelper defines helper methods for listing and deleting pods
type PodHelper interface {
	// ListPods returns the pods in all namespaces
	ListPods(ctx context.Context) ([]corev1.Pod, error)
	// DeletePod deletes a pod. If the pod does not exist the returned error wraps ErrPodNotFound
	DeletePod(ctx context.Context, namespace string, name string) error
}

type podHelper struct {
	client  kubernetes.Interface
	options PodHelperOptions
}

// NewPodHelper returns a PodHelper
func NewPodHelper(client kubernetes.Interface, options PodHelperOptions) PodHelper {
	return &podHelper{
		client:  client,
		options: options,
	}
}

func (h *podHelper) ListPods(ctx context.Context) ([]corev1.Pod, error) {
	limit := h.options.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}

	pods := []corev1.Pod{}
	opts := metav1.ListOptions{Limit: limit}
	for {
		list, err := h.client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, opts)
		if err != nil {
			return nil, err
		}

		pods = append(pods, list.Items...)

		if list.Continue == "" {
			return pods, nil
		}
		opts.Continue = list.Continue
	}
}

func (h *podHelper) DeletePod(ctx context.Context, namespace string, name string) error {
	opts := metav1.DeleteOptions{}
	if h.options.GracePeriod != nil {
		// partial seconds round up, zero seconds is an immediate deletion
		seconds := int64(math.Ceil(h.options.GracePeriod.Seconds()))
		opts.GracePeriodSeconds = &seconds
	}

	err := h.client.CoreV1().Pods(namespace).Delete(ctx, name, opts)
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting pod %s/%s: %w", namespace, name, ErrPodNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting pod %s/%s: %w", namespace, name, err)
	}

	return nil
}
