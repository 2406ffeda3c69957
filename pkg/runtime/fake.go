package runtime

import (
	"os"
)

// FakeRuntime holds the state of a fake runtime for testing
type FakeRuntime struct {
	FakeArgs   []string
	FakeVars   map[string]string
	FakeSignal *FakeSignal
}

// FakeSignal implements a fake signal handling for testing
type FakeSignal struct {
	channel chan os.Signal
}

// NewFakeSignal returns a FakeSignal
func NewFakeSignal() *FakeSignal {
	return &FakeSignal{
		channel: make(chan os.Signal, 1),
	}
}

// Notify implements Signal's interface Notify method
func (f *FakeSignal) Notify(_ ...os.Signal) <-chan os.Signal {
	return f.channel
}

// Reset implements Signal's interface Reset method. It is noop.
func (f *FakeSignal) Reset(_ ...os.Signal) {
	// noop
}

// Send sends the given signal to the signal notification channel
func (f *FakeSignal) Send(signal os.Signal) {
	f.channel <- signal
}

// NewFakeRuntime creates a default FakeRuntime
func NewFakeRuntime(args []string, vars map[string]string) *FakeRuntime {
	if vars == nil {
		vars = map[string]string{}
	}

	return &FakeRuntime{
		FakeArgs:   args,
		FakeVars:   vars,
		FakeSignal: NewFakeSignal(),
	}
}

// Vars implements Vars method from Environment interface
func (f *FakeRuntime) Vars() map[string]string {
	return f.FakeVars
}

// Args implements Args method from Environment interface
func (f *FakeRuntime) Args() []string {
	return f.FakeArgs
}

// Signal implements Signal method from Environment interface
func (f *FakeRuntime) Signal() Signals {
	return f.FakeSignal
}
