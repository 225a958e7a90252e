package supervisor

// State is the lifecycle position of a supervised server.
type State int32

const (
	NotStarted State = iota
	Starting
	Probing
	Alive
	Stopping
	Stopped
	// BindingFailed, TimedOut and ProcessExited are absorbing until Stop.
	BindingFailed
	TimedOut
	ProcessExited
)

var stateNames = map[State]string{
	NotStarted:    "not_started",
	Starting:      "starting",
	Probing:       "probing",
	Alive:         "alive",
	Stopping:      "stopping",
	Stopped:       "stopped",
	BindingFailed: "binding_failed",
	TimedOut:      "timed_out",
	ProcessExited: "process_exited",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Failed reports whether s is one of the terminal failure states.
func (s State) Failed() bool {
	return s == BindingFailed || s == TimedOut || s == ProcessExited
}
