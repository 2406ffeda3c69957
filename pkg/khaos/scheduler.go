package khaos

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/khaosmonkey/khaos-monkey/pkg/metrics"
	"github.com/khaosmonkey/khaos-monkey/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// State is the phase of the attack cycle the scheduler is in
type State string

// States of the scheduler
const (
	StateIdle      State = "idle"
	StateListing   State = "listing"
	StateAttacking State = "attacking"
	StateWaiting   State = "waiting"
)

// Scheduler runs attack cycles separated by a random wait
type Scheduler struct {
	config   Config
	targets  NamespaceSet
	grouper  *Grouper
	attacker *Attacker
	clock    clock.Clock
	rng      *rand.Rand
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	state    atomic.Value
}

// SchedulerOptions defines the collaborators of a Scheduler
type SchedulerOptions struct {
	// Clock used for waiting between cycles. Defaults to the real clock
	Clock clock.Clock
	// Rand is the random source for the wait time and the victims. Defaults to a time seeded source
	Rand *rand.Rand
	// Metrics records the cycles. Optional
	Metrics *metrics.Metrics
	// Logger for the cycle summaries. Defaults to the standard logrus logger
	Logger logrus.FieldLogger
}

// NewScheduler returns a Scheduler that attacks the pods of the given target namespaces
func NewScheduler(cluster Cluster, config Config, targets NamespaceSet, options SchedulerOptions) *Scheduler {
	if options.Clock == nil {
		options.Clock = clock.RealClock{}
	}
	if options.Rand == nil {
		//nolint:gosec // victims are not security sensitive
		options.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}

	s := &Scheduler{
		config:   config,
		targets:  targets,
		grouper:  NewGrouper(cluster, options.Logger),
		attacker: NewAttacker(cluster, config, options.Rand, options.Metrics, options.Logger),
		clock:    options.Clock,
		rng:      options.Rand,
		metrics:  options.Metrics,
		log:      options.Logger,
	}
	s.state.Store(StateIdle)

	return s
}

// State returns the current state of the scheduler
func (s *Scheduler) State() State {
	return s.state.Load().(State)
}

// NextWait returns the time to wait until the next cycle: the minimum time between chaos
// plus a random fraction of the random extra time
func (s *Scheduler) NextWait() time.Duration {
	extra := time.Duration(s.rng.Float64() * float64(s.config.RandomExtraTimeBetweenChaos))
	return s.config.MinTimeBetweenChaos + extra
}

// RunCycle lists and groups the pods and attacks them once
func (s *Scheduler) RunCycle(ctx context.Context) (CycleReport, error) {
	id := uuid.NewString()
	log := s.log.WithField("cycle", id)

	log.Info("###################")
	log.Info("### Chaos Beginning")

	s.state.Store(StateListing)
	grouping, err := s.grouper.Group(ctx, s.targets)
	if err != nil {
		return CycleReport{ID: id}, fmt.Errorf("listing pods: %w", err)
	}

	s.state.Store(StateAttacking)
	report, err := s.attacker.Attack(ctx, id, grouping)
	s.metrics.ObserveCycle(report.Groups, len(report.Attacks))
	if err != nil {
		return report, err
	}

	log.WithFields(logrus.Fields{
		"groups":    report.Groups,
		"pods":      report.Pods,
		"attacked":  len(report.Attacks),
		"deleted":   report.Deleted,
		"not_found": report.NotFound,
		"failed":    report.Failed,
	}).Info("### Chaos over")

	return report, nil
}

// Run executes attack cycles until the context is cancelled or a cycle fails.
// It returns the error of the failed cycle or the error of the context.
func (s *Scheduler) Run(ctx context.Context) error {
	defer func() {
		s.state.Store(StateIdle)
	}()

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			return err
		}

		wait := s.NextWait()
		s.metrics.ObserveNextWait(wait)
		s.log.Infof("### Time until next Chaos: %s", utils.FormatDuration(wait.Round(time.Millisecond)))
		s.log.Info("###################")

		s.state.Store(StateWaiting)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(wait):
		}
	}
}
