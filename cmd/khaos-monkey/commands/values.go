package commands

import (
	"time"

	"github.com/khaosmonkey/khaos-monkey/pkg/utils"
)

// durationValue is a pflag.Value for durations that accepts whitespace separated components
type durationValue time.Duration

func newDurationValue(value time.Duration, p *time.Duration) *durationValue {
	*p = value
	return (*durationValue)(p)
}

func (d *durationValue) Set(s string) error {
	v, err := utils.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = durationValue(v)
	return nil
}

func (d *durationValue) Type() string {
	return "duration"
}

func (d *durationValue) String() string {
	return utils.FormatDuration(time.Duration(*d))
}

// optionalDuration is a pflag.Value for a duration that has no value until it is set
type optionalDuration struct {
	value *time.Duration
}

func (o *optionalDuration) Set(s string) error {
	v, err := utils.ParseDuration(s)
	if err != nil {
		return err
	}
	o.value = &v
	return nil
}

func (o *optionalDuration) Type() string {
	return "duration"
}

func (o *optionalDuration) String() string {
	if o.value == nil {
		return ""
	}
	return utils.FormatDuration(*o.value)
}
