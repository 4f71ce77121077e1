package pipeline

import "fmt"

// Mode selects when the controller recomputes.
type Mode string

const (
	// ModeContinuous recomputes on every filter change and once at start.
	ModeContinuous Mode = "continuous"
	// ModeDeferred recomputes only on submit and publishes a placeholder at start.
	ModeDeferred Mode = "deferred"
)

// TriggerPolicy decides which events fire a recompute.
type TriggerPolicy interface {
	Mode() Mode
	// FireOnChange reports whether a filter mutation triggers a cycle by itself.
	FireOnChange() bool
	// FireOnStart reports whether Run computes immediately instead of
	// publishing the pending placeholder.
	FireOnStart() bool
}

type continuousPolicy struct{}

func (continuousPolicy) Mode() Mode         { return ModeContinuous }
func (continuousPolicy) FireOnChange() bool { return true }
func (continuousPolicy) FireOnStart() bool  { return true }

type deferredPolicy struct{}

func (deferredPolicy) Mode() Mode         { return ModeDeferred }
func (deferredPolicy) FireOnChange() bool { return false }
func (deferredPolicy) FireOnStart() bool  { return false }

// PolicyFor returns the trigger policy for a configured mode.
func PolicyFor(mode Mode) (TriggerPolicy, error) {
	switch mode {
	case ModeContinuous:
		return continuousPolicy{}, nil
	case ModeDeferred:
		return deferredPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown trigger mode %q", mode)
	}
}
