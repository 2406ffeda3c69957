//go:build integration
// +build integration

package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/khaosmonkey/khaos-monkey/pkg/khaos"
	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes/helpers"
	"github.com/khaosmonkey/khaos-monkey/pkg/testutils/k3sutils"
	"github.com/khaosmonkey/khaos-monkey/pkg/testutils/kubernetes/builders"

	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func createRandomTestNamespace(k8s Kubernetes) (string, error) {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: "test-",
		},
	}

	ns, err := k8s.Client().CoreV1().Namespaces().Create(context.TODO(), ns, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create test namespace %w", err)
	}

	return ns.Name, nil
}

func createPods(k8s Kubernetes, namespace string, pods ...corev1.Pod) error {
	for _, pod := range pods {
		pod := pod
		pod.Namespace = namespace
		_, err := k8s.Client().CoreV1().Pods(namespace).Create(context.TODO(), &pod, metav1.CreateOptions{})
		if err != nil {
			return fmt.Errorf("failed to create pod %s: %w", pod.Name, err)
		}
	}
	return nil
}

func Test_Kubernetes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	container, restcfg, err := k3sutils.StartCluster(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Clean up the container after the test is complete
	t.Cleanup(func() {
		if err = container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	k8s, err := NewFromConfig(restcfg)
	if err != nil {
		t.Fatalf("error creating kubernetes client: %v", err)
	}

	t.Run("List namespaces", func(t *testing.T) {
		t.Parallel()

		namespace, err := createRandomTestNamespace(k8s)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			_ = k8s.Client().CoreV1().Namespaces().Delete(context.TODO(), namespace, metav1.DeleteOptions{})
		})

		namespaces, err := k8s.NamespaceHelper().ListNamespaces(context.TODO())
		if err != nil {
			t.Fatalf("failed listing namespaces: %v", err)
		}

		found := false
		for _, n := range namespaces {
			found = found || n == namespace
		}
		if !found {
			t.Errorf("namespace %s not listed in %v", namespace, namespaces)
		}
	})

	t.Run("List pods in pages", func(t *testing.T) {
		t.Parallel()

		namespace, err := createRandomTestNamespace(k8s)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			_ = k8s.Client().CoreV1().Namespaces().Delete(context.TODO(), namespace, metav1.DeleteOptions{})
		})

		pods := []corev1.Pod{}
		for i := 0; i < 5; i++ {
			pods = append(pods, builders.NewPodBuilder(fmt.Sprintf("pod-%d", i)).Build())
		}
		if err := createPods(k8s, namespace, pods...); err != nil {
			t.Fatal(err)
		}

		listed, err := k8s.PodHelper(helpers.PodHelperOptions{PageSize: 2}).ListPods(context.TODO())
		if err != nil {
			t.Fatalf("failed listing pods: %v", err)
		}

		count := 0
		for _, p := range listed {
			if p.Namespace == namespace {
				count++
			}
		}
		if count != len(pods) {
			t.Errorf("expected %d pods in %s got %d", len(pods), namespace, count)
		}
	})

	t.Run("Delete missing pod", func(t *testing.T) {
		t.Parallel()

		err := k8s.PodHelper(helpers.PodHelperOptions{}).DeletePod(context.TODO(), "default", "missing")
		if !errors.Is(err, helpers.ErrPodNotFound) {
			t.Errorf("expected %v got %v", helpers.ErrPodNotFound, err)
		}
	})

	t.Run("Attack cycle", func(t *testing.T) {
		t.Parallel()

		namespace, err := createRandomTestNamespace(k8s)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			_ = k8s.Client().CoreV1().Namespaces().Delete(context.TODO(), namespace, metav1.DeleteOptions{})
		})

		pods := []corev1.Pod{}
		for i := 0; i < 4; i++ {
			pods = append(pods, builders.NewPodBuilder(fmt.Sprintf("web-%d", i)).
				WithLabel(khaos.TemplateHashLabel, "web").
				Build())
		}
		pods = append(pods, builders.NewPodBuilder("protected").
			WithLabel(khaos.TemplateHashLabel, "web").
			WithLabel(khaos.EnabledLabel, "false").
			Build())
		if err := createPods(k8s, namespace, pods...); err != nil {
			t.Fatal(err)
		}

		zero := time.Duration(0)
		cluster := NewCluster(k8s, helpers.PodHelperOptions{GracePeriod: &zero})
		config := khaos.DefaultConfig(khaos.Mode{Kind: khaos.Percentage, Value: 50})
		config.TargetNamespaces = namespace

		log := logrus.New()
		targets, err := khaos.NewNamespaceResolver(cluster, config.TargetNamespaces, config.BlacklistedNamespaces, log).
			Resolve(context.TODO())
		if err != nil {
			t.Fatalf("failed resolving namespaces: %v", err)
		}

		scheduler := khaos.NewScheduler(cluster, config, targets, khaos.SchedulerOptions{
			Rand:   rand.New(rand.NewSource(1)),
			Logger: log,
		})
		report, err := scheduler.RunCycle(context.TODO())
		if err != nil {
			t.Fatalf("failed running cycle: %v", err)
		}
		if report.Deleted != 2 {
			t.Errorf("expected 2 pods deleted got %d", report.Deleted)
		}

		_, err = k8s.Client().CoreV1().Pods(namespace).Get(context.TODO(), "protected", metav1.GetOptions{})
		if err != nil {
			t.Errorf("opted out pod was affected: %v", err)
		}
	})
}
