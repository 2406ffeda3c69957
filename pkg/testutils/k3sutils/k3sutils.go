// Package k3sutils implements helper functions for tests that run a k3s cluster with TestContainer's k3s module
package k3sutils

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/k3s"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ReadyTimeout is the maximum time to wait for the api server of a new cluster
const ReadyTimeout = 30 * time.Second

// regexMatcher process lines from logs and notifies when a match is found
type regexMatcher struct {
	exp   *regexp.Regexp
	found chan (bool)
}

// Accept implements the LogConsumer interface
func (a *regexMatcher) Accept(log testcontainers.Log) {
	if a.exp.MatchString(string(log.Content)) {
		select {
		case a.found <- true:
		default:
		}
	}
}

// WaitForRegex waits until a match for the given regex is found in the log produced by the container
// This utility function is a workaround for https://github.com/testcontainers/testcontainers-go/issues/1541
func WaitForRegex(ctx context.Context, container testcontainers.Container, exp string, timeout time.Duration) error {
	regexp, err := regexp.Compile(exp)
	if err != nil {
		return err
	}

	found := make(chan bool, 1)
	container.FollowOutput(&regexMatcher{
		exp:   regexp,
		found: found,
	})

	err = container.StartLogProducer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = container.StopLogProducer()
	}()

	expired := time.After(timeout)
	select {
	case <-found:
		return nil
	case <-expired:
		return fmt.Errorf("timeout waiting for a match")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartCluster starts a k3s cluster and waits until its api server is ready.
// It returns the container, to be terminated by the caller, and the configuration for accessing the cluster.
func StartCluster(ctx context.Context) (*k3s.K3sContainer, *rest.Config, error) {
	container, err := k3s.RunContainer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("starting k3s: %w", err)
	}

	// see https://github.com/testcontainers/testcontainers-go/issues/1547
	err = WaitForRegex(ctx, container, ".*Node controller sync successful.*", ReadyTimeout)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("waiting for cluster ready: %w", err)
	}

	kubeConfigYaml, err := container.GetKubeConfig(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("getting kubeconfig: %w", err)
	}

	config, err := clientcmd.RESTConfigFromKubeConfig(kubeConfigYaml)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("creating rest config: %w", err)
	}

	return container, config, nil
}
