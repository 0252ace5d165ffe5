package library

import "sync/atomic"

// ConnState is the lifecycle state of an observer connection.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosedClean
	StateClosedError
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosedClean:
		return "closed-clean"
	case StateClosedError:
		return "closed-error"
	default:
		return "unknown"
	}
}

// Closed reports whether s is terminal.
func (s ConnState) Closed() bool {
	return s == StateClosedClean || s == StateClosedError
}

// Lifecycle tracks a connection through
// connecting -> open -> closed-clean | closed-error. Closed states are
// terminal and a connection may close before it opens. The zero value is
// connecting and safe for concurrent use.
type Lifecycle struct {
	state atomic.Int32
}

// State returns the current state.
func (l *Lifecycle) State() ConnState {
	return ConnState(l.state.Load())
}

// Open reports whether the connection is open.
func (l *Lifecycle) Open() bool {
	return l.State() == StateOpen
}

// MarkOpen moves connecting to open. It reports false in any other state.
func (l *Lifecycle) MarkOpen() bool {
	return l.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen))
}

// Close moves a live connection to closed-clean, or to closed-error when
// failed is true. It reports false if the connection was already closed, so
// only the first caller performs teardown.
func (l *Lifecycle) Close(failed bool) bool {
	to := StateClosedClean
	if failed {
		to = StateClosedError
	}
	for {
		cur := l.state.Load()
		if ConnState(cur).Closed() {
			return false
		}
		if l.state.CompareAndSwap(cur, int32(to)) {
			return true
		}
	}
}
