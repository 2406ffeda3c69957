package khaos

import (
	"fmt"
	"math/rand"

	corev1 "k8s.io/api/core/v1"
)

// ModeKind defines how the number of pods to kill in a group is computed
type ModeKind string

const (
	// Fixed kills a fixed number of pods of each group
	Fixed ModeKind = "fixed"
	// FixedLeft kills pods until a fixed number of pods of each group is left
	FixedLeft ModeKind = "fixed-left"
	// Percentage kills a percentage of the pods of each group, rounded down
	Percentage ModeKind = "percentage"
)

// ParseModeKind returns the ModeKind with the given name
func ParseModeKind(name string) (ModeKind, error) {
	switch kind := ModeKind(name); kind {
	case Fixed, FixedLeft, Percentage:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, name)
	}
}

// Mode is a deletion mode and its parameter
type Mode struct {
	Kind  ModeKind
	Value int
}

// Validate returns an error if the mode is unknown or its parameter is negative
func (m Mode) Validate() error {
	if _, err := ParseModeKind(string(m.Kind)); err != nil {
		return err
	}
	if m.Value < 0 {
		return fmt.Errorf("%w: %s requires a non negative number of pods, got %d", ErrInvalidConfig, m.Kind, m.Value)
	}
	return nil
}

func (m Mode) String() string {
	return fmt.Sprintf("%s(%d)", m.Kind, m.Value)
}

// RawCount returns the number of pods to kill in a group of the given size, before any randomization
// or truncation
func (m Mode) RawCount(groupSize int) float64 {
	switch m.Kind {
	case Fixed:
		return float64(m.Value)
	case Percentage:
		return float64(groupSize) * float64(m.Value) / 100
	case FixedLeft:
		return float64(max(0, groupSize-m.Value))
	default:
		return 0
	}
}

// VictimCount returns the number of pods to kill in a group of the given size. If randomize is
// true the raw count is scaled by a random factor in [0, 1) before being truncated.
// The result is always in [0, groupSize].
func VictimCount(mode Mode, groupSize int, randomize bool, rng *rand.Rand) int {
	raw := mode.RawCount(groupSize)
	if randomize {
		raw *= rng.Float64()
	}

	// clamp before converting so huge values do not overflow int
	if raw >= float64(groupSize) {
		return groupSize
	}
	return max(int(raw), 0)
}

// SelectVictims returns the pods to kill from the group. The victims are drawn uniformly at random
// without replacement. The given slice is not modified.
func SelectVictims(mode Mode, pods []corev1.Pod, randomize bool, rng *rand.Rand) []corev1.Pod {
	count := VictimCount(mode, len(pods), randomize, rng)

	shuffled := make([]corev1.Pod, len(pods))
	copy(shuffled, pods)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:count]
}

// AttackPlan describes the attack on a group in the current cycle
type AttackPlan struct {
	Group    string
	Eligible int
	Victims  []corev1.Pod
}

// Plan builds the AttackPlan for a group
func Plan(group Group, mode Mode, randomize bool, rng *rand.Rand) AttackPlan {
	return AttackPlan{
		Group:    group.Key,
		Eligible: len(group.Pods),
		Victims:  SelectVictims(mode, group.Pods, randomize, rng),
	}
}
