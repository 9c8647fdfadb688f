package player

import "github.com/depeter/couchbreak/internal/device"

// Op is a control request a session can make of its driver.
type Op int

const (
	OpPrepare Op = iota
	OpPlay
	OpPause
	OpStop
	OpSeek
	OpSuspend
	OpRestore
)

func (o Op) String() string {
	switch o {
	case OpPrepare:
		return "prepare"
	case OpPlay:
		return "play"
	case OpPause:
		return "pause"
	case OpStop:
		return "stop"
	case OpSeek:
		return "seek"
	case OpSuspend:
		return "suspend"
	case OpRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of a legality check.
type Verdict int

const (
	Illegal Verdict = iota
	Allowed
	// PrepareFirst means the request is legal once the stream is prepared.
	PrepareFirst
)

// Check reports whether op may be issued while the driver is in st.
func Check(op Op, st device.State) Verdict {
	switch op {
	case OpPrepare, OpSeek:
		return Allowed
	case OpPlay:
		switch st {
		case device.StateIdle:
			return PrepareFirst
		case device.StateReady, device.StatePaused:
			return Allowed
		}
	case OpPause:
		if st == device.StatePlaying || st == device.StateReady {
			return Allowed
		}
	case OpStop:
		if st == device.StatePlaying || st == device.StatePaused {
			return Allowed
		}
	case OpSuspend:
		switch st {
		case device.StateReady, device.StatePlaying, device.StatePaused:
			return Allowed
		}
	case OpRestore:
		switch st {
		case device.StateNone, device.StatePlaying, device.StatePaused:
			return Allowed
		}
	}
	return Illegal
}
