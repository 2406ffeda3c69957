package builders

import (
	"context"
	"errors"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func Test_ClientBuilder(t *testing.T) {
	t.Parallel()

	client, err := NewClientBuilder().
		WithNamespaces("default", "apps").
		WithPods(
			NewPodBuilder("pod-1").WithNamespace("apps").WithLabel("app", "web").Build(),
			NewPodBuilder("pod-2").Build(),
		).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	namespaces, err := client.CoreV1().Namespaces().List(context.TODO(), metav1.ListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(namespaces.Items) != 2 {
		t.Errorf("expected 2 namespaces got %d", len(namespaces.Items))
	}

	pod, err := client.CoreV1().Pods("apps").Get(context.TODO(), "pod-1", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pod.Labels["app"] != "web" {
		t.Errorf("expected label app=web got %v", pod.Labels)
	}
}

func Test_ClientBuilderDuplicatedPod(t *testing.T) {
	t.Parallel()

	pod := NewPodBuilder("pod-1").Build()
	_, err := NewClientBuilder().WithPods(pod, pod).Build()
	if err == nil {
		t.Errorf("expected an error building a client with duplicated pods")
	}
}

func Test_ClientBuilderWithError(t *testing.T) {
	t.Parallel()

	expected := errors.New("forbidden")
	client, err := NewClientBuilder().WithError("list", "pods", expected).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.CoreV1().Pods("").List(context.TODO(), metav1.ListOptions{})
	if !errors.Is(err, expected) {
		t.Errorf("expected %v got %v", expected, err)
	}
}
