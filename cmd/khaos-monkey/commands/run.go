package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"syscall"
	"time"

	"github.com/khaosmonkey/khaos-monkey/pkg/khaos"
	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes"
	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes/helpers"
	"github.com/khaosmonkey/khaos-monkey/pkg/metrics"
	"github.com/khaosmonkey/khaos-monkey/pkg/runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// run validates the configuration, connects to the cluster and runs attack cycles until
// the context is cancelled, a signal is received or a cycle fails
func (o *options) run(
	ctx context.Context,
	env runtime.Environment,
	factory ClusterFactory,
	mode khaos.Mode,
	log *logrus.Logger,
) error {
	config := o.config
	config.Mode = mode
	if err := config.Validate(); err != nil {
		return err
	}

	k8s, err := factory(env, o.kubeconfig)
	if err != nil {
		return fmt.Errorf("creating kubernetes client: %w", err)
	}
	cluster := kubernetes.NewCluster(k8s, helpers.PodHelperOptions{GracePeriod: o.gracePeriod.value})

	ctx, stop := runtime.WithSignals(ctx, env.Signal(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("monkey running in mode %s", mode)

	targets, err := khaos.NewNamespaceResolver(cluster, config.TargetNamespaces, config.BlacklistedNamespaces, log).
		Resolve(ctx)
	if err != nil {
		return err
	}

	seed := o.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var m *metrics.Metrics
	if o.metricsAddress != "" {
		m = metrics.New()
	}

	g, gCtx := errgroup.WithContext(ctx)

	if m != nil {
		g.Go(func() error {
			log.Infof("serving metrics at %s", o.metricsAddress)
			if err := m.Serve(gCtx, o.metricsAddress); err != nil {
				return fmt.Errorf("serving metrics: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		scheduler := khaos.NewScheduler(cluster, config, targets, khaos.SchedulerOptions{
			//nolint:gosec // victims are not security sensitive
			Rand:    rand.New(rand.NewSource(seed)),
			Metrics: m,
			Logger:  log,
		})
		return scheduler.Run(gCtx)
	})

	err = g.Wait()

	var signalErr *runtime.SignalError
	if errors.As(context.Cause(ctx), &signalErr) {
		log.Infof("%s, stopping", signalErr)
		return nil
	}

	return err
}
