package khaos

import (
	"fmt"
	"time"
)

// Unbounded is the value of AttacksPerInterval that attacks every group in each cycle
const Unbounded = -1

// Config defines the behavior of the monkey
type Config struct {
	// Mode defines how many pods of each group are killed
	Mode Mode
	// TargetNamespaces is a comma separated list of the namespaces whose pods are attacked unless they opt out
	TargetNamespaces string
	// BlacklistedNamespaces is a comma separated list of namespaces that can't be targeted
	BlacklistedNamespaces string
	// AttacksPerInterval is the maximum number of groups attacked in each cycle. Negative values are unbounded
	AttacksPerInterval int
	// RandomKillCount scales the number of pods killed in each group by a random factor in [0, 1)
	RandomKillCount bool
	// MinTimeBetweenChaos is the minimum time between two cycles
	MinTimeBetweenChaos time.Duration
	// RandomExtraTimeBetweenChaos is the maximum random time added to MinTimeBetweenChaos
	RandomExtraTimeBetweenChaos time.Duration
	// DeleteRate limits the deletions per second. Zero means no limit
	DeleteRate float64
}

// DefaultConfig returns the default configuration of the monkey for the given mode
func DefaultConfig(mode Mode) Config {
	return Config{
		Mode:                        mode,
		TargetNamespaces:            "default",
		BlacklistedNamespaces:       "kube-system, kube-public, kube-node-lease",
		AttacksPerInterval:          1,
		MinTimeBetweenChaos:         time.Minute,
		RandomExtraTimeBetweenChaos: time.Minute,
	}
}

// Validate returns an error wrapping ErrInvalidConfig or ErrNamespaceConflict if the configuration is not valid
func (c Config) Validate() error {
	if err := c.Mode.Validate(); err != nil {
		return err
	}

	if c.MinTimeBetweenChaos < 0 {
		return fmt.Errorf("%w: min time between chaos can't be negative", ErrInvalidConfig)
	}

	if c.RandomExtraTimeBetweenChaos < 0 {
		return fmt.Errorf("%w: random extra time between chaos can't be negative", ErrInvalidConfig)
	}

	if c.DeleteRate < 0 {
		return fmt.Errorf("%w: delete rate can't be negative", ErrInvalidConfig)
	}

	return checkDisjoint(ParseNamespaces(c.TargetNamespaces), ParseNamespaces(c.BlacklistedNamespaces))
}

// groupsToAttack returns how many of the available groups are attacked in a cycle
func (c Config) groupsToAttack(available int) int {
	if c.AttacksPerInterval < 0 {
		return available
	}
	return min(c.AttacksPerInterval, available)
}
