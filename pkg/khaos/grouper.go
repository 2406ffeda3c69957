package khaos

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	corev1 "k8s.io/api/core/v1"
)

// Group is a set of pods that are attacked as a unit
type Group struct {
	Key  string
	Pods []corev1.Pod
}

// Grouping is the list of groups found in a cycle, in the order they were first seen
type Grouping []Group

// Size returns the total number of pods in the grouping
func (g Grouping) Size() int {
	size := 0
	for _, group := range g {
		size += len(group.Pods)
	}
	return size
}

// Eligible returns true if the pod can be attacked.
// An explicit khaos-enabled=false always excludes the pod. Any other value of the label
// includes the pod even outside the target namespaces. Pods without the label are included
// only if they run in a target namespace.
func Eligible(pod corev1.Pod, targets NamespaceSet) bool {
	enabled, labeled := pod.Labels[EnabledLabel]
	if labeled {
		return enabled != "false"
	}

	return pod.Namespace != "" && targets.Contains(pod.Namespace)
}

// GroupKey returns the key of the group the pod belongs to. The key is, in order of precedence,
// the value of the khaos-group label, the "key=value" of the pod template hash label or the
// "job-name=value" of the job-name label. Pods without any of these labels are not grouped.
func GroupKey(pod corev1.Pod) (string, bool) {
	labels := pod.Labels

	if group, found := labels[GroupLabel]; found {
		return group, true
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, TemplateHashLabel) {
			return fmt.Sprintf("%s=%s", k, labels[k]), true
		}
	}

	if job, found := labels[JobNameLabel]; found {
		return fmt.Sprintf("%s=%s", JobNameLabel, job), true
	}

	return "", false
}

// GroupPods partitions the eligible pods by their group key
func GroupPods(pods []corev1.Pod, targets NamespaceSet) Grouping {
	grouping := Grouping{}
	index := map[string]int{}
	for _, pod := range pods {
		if !Eligible(pod, targets) {
			continue
		}

		key, grouped := GroupKey(pod)
		if !grouped {
			continue
		}

		i, found := index[key]
		if !found {
			i = len(grouping)
			index[key] = i
			grouping = append(grouping, Group{Key: key})
		}
		grouping[i].Pods = append(grouping[i].Pods, pod)
	}

	return grouping
}

// Grouper lists the pods in the cluster and groups the eligible ones
type Grouper struct {
	cluster Cluster
	log     logrus.FieldLogger
}

// NewGrouper returns a Grouper
func NewGrouper(cluster Cluster, log logrus.FieldLogger) *Grouper {
	return &Grouper{
		cluster: cluster,
		log:     log,
	}
}

// Group lists all pods in the cluster and returns the grouping of the eligible ones.
// Errors listing the pods are returned as is.
func (g *Grouper) Group(ctx context.Context, targets NamespaceSet) (Grouping, error) {
	pods, err := g.cluster.ListPods(ctx)
	if err != nil {
		return nil, err
	}

	g.log.Debug("## All pods found:")
	for _, pod := range pods {
		g.log.Debugf("- %s/%s", pod.Namespace, pod.Name)
	}

	grouping := GroupPods(pods, targets)

	g.log.Debug("## All targeted groups:")
	for _, group := range grouping {
		g.log.Debugf("- %s with %d pods:", group.Key, len(group.Pods))
		for _, pod := range group.Pods {
			g.log.Debugf("  - %s/%s", pod.Namespace, pod.Name)
		}
	}

	return grouping, nil
}
