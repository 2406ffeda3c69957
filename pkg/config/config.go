// Package config loads the configuration of the monkey from a YAML file
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/khaosmonkey/khaos-monkey/pkg/khaos"
	"github.com/khaosmonkey/khaos-monkey/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Names of the flags that can be set from the configuration file
const (
	FlagTargetNamespaces            = "target-namespaces"
	FlagBlacklistedNamespaces       = "blacklisted-namespaces"
	FlagAttacksPerInterval          = "attacks-per-interval"
	FlagRandomKillCount             = "random-kill-count"
	FlagMinTimeBetweenChaos         = "min-time-between-chaos"
	FlagRandomExtraTimeBetweenChaos = "random-extra-time-between-chaos"
	FlagDeleteRate                  = "delete-rate"
	FlagGracePeriod                 = "grace-period"
	FlagLogLevel                    = "log-level"
)

// FileConfig is the content of a configuration file. Fields not present in the file are nil.
type FileConfig struct {
	Mode                        *string  `yaml:"mode"`
	Value                       *int     `yaml:"value"`
	TargetNamespaces            *string  `yaml:"targetNamespaces"`
	BlacklistedNamespaces       *string  `yaml:"blacklistedNamespaces"`
	AttacksPerInterval          *int     `yaml:"attacksPerInterval"`
	RandomKillCount             *bool    `yaml:"randomKillCount"`
	MinTimeBetweenChaos         *string  `yaml:"minTimeBetweenChaos"`
	RandomExtraTimeBetweenChaos *string  `yaml:"randomExtraTimeBetweenChaos"`
	DeleteRate                  *float64 `yaml:"deleteRate"`
	GracePeriod                 *string  `yaml:"gracePeriod"`
	LogLevel                    *string  `yaml:"logLevel"`
}

// LoadFile reads the configuration from the given file
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return config, nil
}

// Parse decodes a YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*FileConfig, error) {
	config := &FileConfig{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(config)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", khaos.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the values that are not validated by the flags they are applied to
func (f *FileConfig) Validate() error {
	if (f.Mode == nil) != (f.Value == nil) {
		return fmt.Errorf("%w: mode and value must be defined together", khaos.ErrInvalidConfig)
	}

	if _, _, err := f.KhaosMode(); err != nil {
		return err
	}

	durations := map[string]*string{
		"minTimeBetweenChaos":         f.MinTimeBetweenChaos,
		"randomExtraTimeBetweenChaos": f.RandomExtraTimeBetweenChaos,
		"gracePeriod":                 f.GracePeriod,
	}
	for key, value := range durations {
		if value == nil {
			continue
		}
		if _, err := utils.ParseDuration(*value); err != nil {
			return fmt.Errorf("%w: %s: %w", khaos.ErrInvalidConfig, key, err)
		}
	}

	return nil
}

// KhaosMode returns the mode defined in the file, if any
func (f *FileConfig) KhaosMode() (khaos.Mode, bool, error) {
	if f.Mode == nil || f.Value == nil {
		return khaos.Mode{}, false, nil
	}

	kind, err := khaos.ParseModeKind(*f.Mode)
	if err != nil {
		return khaos.Mode{}, false, err
	}

	mode := khaos.Mode{Kind: kind, Value: *f.Value}
	if err := mode.Validate(); err != nil {
		return khaos.Mode{}, false, err
	}

	return mode, true, nil
}

// Flags returns the values defined in the file indexed by the name of the flag they set
func (f *FileConfig) Flags() map[string]string {
	flags := map[string]string{}

	setString := func(name string, value *string) {
		if value != nil {
			flags[name] = *value
		}
	}

	setString(FlagTargetNamespaces, f.TargetNamespaces)
	setString(FlagBlacklistedNamespaces, f.BlacklistedNamespaces)
	setString(FlagMinTimeBetweenChaos, f.MinTimeBetweenChaos)
	setString(FlagRandomExtraTimeBetweenChaos, f.RandomExtraTimeBetweenChaos)
	setString(FlagGracePeriod, f.GracePeriod)
	setString(FlagLogLevel, f.LogLevel)

	if f.AttacksPerInterval != nil {
		flags[FlagAttacksPerInterval] = strconv.Itoa(*f.AttacksPerInterval)
	}
	if f.RandomKillCount != nil {
		flags[FlagRandomKillCount] = strconv.FormatBool(*f.RandomKillCount)
	}
	if f.DeleteRate != nil {
		flags[FlagDeleteRate] = strconv.FormatFloat(*f.DeleteRate, 'f', -1, 64)
	}

	return flags
}
