package models

import "strings"

// StartMode controls whether the client launches its own server.
type StartMode string

const (
	// StartModeDontStart only attaches to a server someone else runs.
	StartModeDontStart StartMode = "dont_start"
	// StartModeForceStart launches a server and fails if the port is taken.
	StartModeForceStart StartMode = "force_start"
	// StartModeTryStart launches a server unless the port is taken, in which
	// case it polls whatever is listening there.
	StartModeTryStart StartMode = "try_start"
)

const DefaultStartMode = StartModeTryStart

func (m StartMode) String() string {
	return string(m)
}

// CanStart reports whether the mode allows spawning a server process.
func (m StartMode) CanStart() bool {
	return m == StartModeForceStart || m == StartModeTryStart
}

// Tolerant reports whether port conflicts and early process exits are tolerated.
func (m StartMode) Tolerant() bool {
	return m == StartModeTryStart
}

// ParseStartMode accepts the canonical names as well as the dash and
// camel-case spellings used on command lines.
func ParseStartMode(s string) (StartMode, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s)))
	switch norm {
	case "", "try_start", "trystart":
		return StartModeTryStart, nil
	case "force_start", "forcestart":
		return StartModeForceStart, nil
	case "dont_start", "dontstart", "none":
		return StartModeDontStart, nil
	}
	return "", NewConfigError("unknown start mode %q", s)
}
