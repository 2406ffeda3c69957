package khaos

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// NamespaceSet is a set of namespace names
type NamespaceSet map[string]struct{}

// NewNamespaceSet returns a NamespaceSet with the given names
func NewNamespaceSet(names ...string) NamespaceSet {
	set := NamespaceSet{}
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// ParseNamespaces parses a comma separated list of namespaces, ignoring blanks around and between them
func ParseNamespaces(csv string) NamespaceSet {
	set := NamespaceSet{}
	for _, n := range strings.Split(csv, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// Contains returns true if the namespace is in the set
func (s NamespaceSet) Contains(namespace string) bool {
	_, found := s[namespace]
	return found
}

// Intersection returns the namespaces present in both sets
func (s NamespaceSet) Intersection(other NamespaceSet) NamespaceSet {
	result := NamespaceSet{}
	for n := range s {
		if other.Contains(n) {
			result[n] = struct{}{}
		}
	}
	return result
}

// Names returns the namespaces in the set sorted by name
func (s NamespaceSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String returns the namespaces as a comma separated list
func (s NamespaceSet) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}

// checkDisjoint returns ErrNamespaceConflict if targets and blacklist share a namespace
func checkDisjoint(targets NamespaceSet, blacklist NamespaceSet) error {
	overlap := targets.Intersection(blacklist)
	if len(overlap) > 0 {
		return fmt.Errorf("%w: %s", ErrNamespaceConflict, overlap)
	}
	return nil
}

// Resolve returns the target namespaces that exist in the cluster.
// Targets that are missing from the cluster are ignored.
func Resolve(targets NamespaceSet, blacklist NamespaceSet, cluster NamespaceSet) (NamespaceSet, error) {
	if err := checkDisjoint(targets, blacklist); err != nil {
		return nil, err
	}

	return targets.Intersection(cluster), nil
}

// NamespaceResolver computes the namespaces targeted by the monkey
type NamespaceResolver struct {
	cluster   Cluster
	targets   string
	blacklist string
	log       logrus.FieldLogger
}

// NewNamespaceResolver returns a NamespaceResolver for the comma separated target and blacklisted namespaces
func NewNamespaceResolver(cluster Cluster, targets string, blacklist string, log logrus.FieldLogger) *NamespaceResolver {
	return &NamespaceResolver{
		cluster:   cluster,
		targets:   targets,
		blacklist: blacklist,
		log:       log,
	}
}

// Resolve returns the target namespaces present in the cluster. The target and blacklisted namespaces
// are checked before the cluster is queried.
func (r *NamespaceResolver) Resolve(ctx context.Context) (NamespaceSet, error) {
	targets := ParseNamespaces(r.targets)
	r.log.Infof("target namespaces from args/env: %s", targets)

	blacklist := ParseNamespaces(r.blacklist)
	r.log.Infof("blacklisted namespaces from args/env: %s", blacklist)

	if err := checkDisjoint(targets, blacklist); err != nil {
		return nil, err
	}

	names, err := r.cluster.ListNamespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	inCluster := NewNamespaceSet(names...)
	r.log.Infof("namespaces found in cluster: %s", inCluster)

	resolved, err := Resolve(targets, blacklist, inCluster)
	if err != nil {
		return nil, err
	}
	r.log.Infof("monkey will target namespaces: %s", resolved)

	return resolved, nil
}
