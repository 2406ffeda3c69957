package khaos

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes/helpers"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	corev1 "k8s.io/api/core/v1"
)

// fakeCluster implements Cluster recording the deleted pods
type fakeCluster struct {
	mutex      sync.Mutex
	namespaces []string
	pods       []corev1.Pod
	nsErr      error
	listErr    error
	deleteErrs map[string]error
	nsCalls    int
	listCalls  int
	deleted    []string
}

func (f *fakeCluster) ListNamespaces(_ context.Context) ([]string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.nsCalls++
	if f.nsErr != nil {
		return nil, f.nsErr
	}
	return f.namespaces, nil
}

func (f *fakeCluster) ListPods(_ context.Context) ([]corev1.Pod, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pods, nil
}

func (f *fakeCluster) DeletePod(_ context.Context, namespace string, name string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err, found := f.deleteErrs[name]; found {
		return fmt.Errorf("deleting pod %s/%s: %w", namespace, name, err)
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeCluster) Deleted() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return append([]string{}, f.deleted...)
}

// notFound returns an error map that makes the deletion of the given pods fail as not found
func notFound(names ...string) map[string]error {
	errs := map[string]error{}
	for _, n := range names {
		errs[n] = helpers.ErrPodNotFound
	}
	return errs
}

// discardLogger returns a logger that discards its output
func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)
	return log
}

// hookedLogger returns a logger that records its entries in a hook
func hookedLogger() (logrus.FieldLogger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

// hasMessage returns true if an entry with the given message was logged
func hasMessage(hook *test.Hook, message string) bool {
	for _, e := range hook.AllEntries() {
		if e.Message == message {
			return true
		}
	}
	return false
}

// waitFor polls the condition until it is true or a timeout expires
func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for !condition() {
		select {
		case <-timeout:
			t.Fatalf("timeout waiting for condition")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
