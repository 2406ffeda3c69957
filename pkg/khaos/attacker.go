package khaos

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes/helpers"
	"github.com/khaosmonkey/khaos-monkey/pkg/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// AttackReport is the outcome of the attack on a group
type AttackReport struct {
	Group    string
	Eligible int
	Victims  []string
	Deleted  int
	NotFound int
	Failed   int
}

// CycleReport is the outcome of an attack cycle
type CycleReport struct {
	ID       string
	Groups   int
	Pods     int
	Attacks  []AttackReport
	Deleted  int
	NotFound int
	Failed   int
}

// Attacker deletes the victims of the groups attacked in a cycle
type Attacker struct {
	cluster Cluster
	config  Config
	rng     *rand.Rand
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewAttacker returns an Attacker. The random source is used for selecting the victims.
func NewAttacker(
	cluster Cluster,
	config Config,
	rng *rand.Rand,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) *Attacker {
	limit := rate.Inf
	if config.DeleteRate > 0 {
		limit = rate.Limit(config.DeleteRate)
	}

	return &Attacker{
		cluster: cluster,
		config:  config,
		rng:     rng,
		limiter: rate.NewLimiter(limit, int(math.Max(1, config.DeleteRate))),
		metrics: m,
		log:     log,
	}
}

// Attack attacks the first groups of the grouping, up to the configured number of attacks per interval.
// Victims are deleted one at a time. Failing to delete a pod does not stop the attack.
// An error is returned only if the context is cancelled.
func (a *Attacker) Attack(ctx context.Context, id string, grouping Grouping) (CycleReport, error) {
	log := a.log.WithField("cycle", id)
	report := CycleReport{
		ID:     id,
		Groups: len(grouping),
		Pods:   grouping.Size(),
	}

	if len(grouping) == 0 {
		log.Info("Killed no pods")
		return report, nil
	}

	attacks := a.config.groupsToAttack(len(grouping))
	log.Infof("Attacking %d out of %d pod groups with %d pods", attacks, len(grouping), report.Pods)

	for _, group := range grouping[:attacks] {
		plan := Plan(group, a.config.Mode, a.config.RandomKillCount, a.rng)
		attack, err := a.execute(ctx, log, plan)
		report.Attacks = append(report.Attacks, attack)
		report.Deleted += attack.Deleted
		report.NotFound += attack.NotFound
		report.Failed += attack.Failed
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

func (a *Attacker) execute(ctx context.Context, log logrus.FieldLogger, plan AttackPlan) (AttackReport, error) {
	log = log.WithField("group", plan.Group)
	report := AttackReport{
		Group:    plan.Group,
		Eligible: plan.Eligible,
	}

	log.WithField("victims", len(plan.Victims)).
		Infof("# Deleting: %d/%d running pods in Khaos Group: %s", len(plan.Victims), plan.Eligible, plan.Group)

	for _, pod := range plan.Victims {
		if err := a.limiter.Wait(ctx); err != nil {
			return report, err
		}

		report.Victims = append(report.Victims, pod.Name)
		podLog := log.WithFields(logrus.Fields{"namespace": pod.Namespace, "pod": pod.Name})

		err := a.cluster.DeletePod(ctx, pod.Namespace, pod.Name)
		switch {
		case err == nil:
			report.Deleted++
			a.metrics.ObserveDeletion(metrics.ResultDeleted)
			podLog.Infof("Deleted Pod: %s", pod.Name)
		case errors.Is(err, helpers.ErrPodNotFound):
			report.NotFound++
			a.metrics.ObserveDeletion(metrics.ResultNotFound)
			podLog.Infof("Pod %s was already gone", pod.Name)
		case ctx.Err() != nil:
			return report, ctx.Err()
		default:
			report.Failed++
			a.metrics.ObserveDeletion(metrics.ResultFailed)
			podLog.WithError(err).Warnf("Failed to delete pod %s", pod.Name)
		}
	}

	return report, nil
}
