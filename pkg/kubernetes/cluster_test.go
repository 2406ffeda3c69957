package kubernetes

import (
	"context"
	"errors"
	"testing"

	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes/helpers"
	"github.com/khaosmonkey/khaos-monkey/pkg/testutils/assertions"
	"github.com/khaosmonkey/khaos-monkey/pkg/testutils/kubernetes/builders"
)

func Test_Cluster(t *testing.T) {
	t.Parallel()

	client, err := builders.NewClientBuilder().
		WithNamespaces("default", "apps").
		WithPods(
			builders.NewPodBuilder("web-1").WithNamespace("apps").Build(),
			builders.NewPodBuilder("web-2").WithNamespace("apps").Build(),
			builders.NewPodBuilder("job-1").Build(),
		).
		Build()
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	k, err := NewFakeKubernetes(client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cluster := NewCluster(k, helpers.PodHelperOptions{})

	namespaces, err := cluster.ListNamespaces(context.TODO())
	if err != nil {
		t.Fatalf("listing namespaces: %v", err)
	}
	if !assertions.CompareStringArrays(namespaces, []string{"apps", "default"}) {
		t.Errorf("unexpected namespaces: %v", namespaces)
	}

	pods, err := cluster.ListPods(context.TODO())
	if err != nil {
		t.Fatalf("listing pods: %v", err)
	}
	if len(pods) != 3 {
		t.Errorf("expected 3 pods got %d", len(pods))
	}

	if err = cluster.DeletePod(context.TODO(), "apps", "web-1"); err != nil {
		t.Fatalf("deleting pod: %v", err)
	}

	err = cluster.DeletePod(context.TODO(), "apps", "web-1")
	if !errors.Is(err, helpers.ErrPodNotFound) {
		t.Errorf("expected %v got %v", helpers.ErrPodNotFound, err)
	}

	pods, err = cluster.ListPods(context.TODO())
	if err != nil {
		t.Fatalf("listing pods: %v", err)
	}
	if len(pods) != 2 {
		t.Errorf("expected 2 pods after deletion got %d", len(pods))
	}
}
