package profiling

import (
	"github.com/sarchlab/rangeprof/acceltimer"
)

// Mode selects how a session records events.
type Mode int

// Available modes.
const (
	// ModeDisabled records nothing.
	ModeDisabled Mode = iota

	// ModeCPU records host timestamps only.
	ModeCPU

	// ModeDeviceSynchronized records host timestamps and requests a device
	// timer snapshot for every event, correlating device clocks with the
	// host clock through anchor marks.
	ModeDeviceSynchronized

	// ModeExternalTrace forwards marks and ranges to the accelerator timer
	// backend's own timeline instead of recording locally.
	ModeExternalTrace
)

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "Disabled"
	case ModeCPU:
		return "CPU"
	case ModeDeviceSynchronized:
		return "DeviceSynchronized"
	case ModeExternalTrace:
		return "ExternalTrace"
	default:
		return "Unknown"
	}
}

// Config is the immutable configuration of one profiling session. It is read
// once at session creation and never mutated afterwards.
type Config struct {
	// Mode selects the recording mode.
	Mode Mode

	// ReportInputShapes requests shape capture for instrumented call-site
	// arguments.
	ReportInputShapes bool

	// Backend is the accelerator timer subsystem. Nil means the disabled
	// no-op backend.
	Backend acceltimer.Backend
}

func (c Config) backendOrNoop() acceltimer.Backend {
	if c.Backend == nil {
		return acceltimer.NewNoopBackend()
	}

	return c.Backend
}
