package agentdock

import (
	"errors"
	"fmt"
)

// Standard errors returned by the core.
var (
	// ErrAgentNotFound is returned when no agent has the given ID.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrAgentExists is returned when an agent ID is already registered.
	ErrAgentExists = errors.New("agent already exists")

	// ErrTemplateNotFound is returned for an unknown template name.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrBackendNotConfigured is returned by Create when the upstream
	// AI backend endpoint or credential is missing from configuration.
	ErrBackendNotConfigured = errors.New("ai backend not configured")

	// ErrStartupTimeout is returned when a freshly started container
	// never passes its health check within the startup budget.
	ErrStartupTimeout = errors.New("agent never became healthy")

	// ErrNoHostPort is returned when the container runtime never
	// exposes a bound host port for the agent's service port.
	ErrNoHostPort = errors.New("no host port bound to container")

	// ErrDockerUnavailable is returned when the container runtime
	// cannot be reached.
	ErrDockerUnavailable = errors.New("docker not available")
)

// StartupError wraps a failure to bring a new agent to a healthy state.
// No registry record exists for the agent when this is returned.
type StartupError struct {
	AgentName string
	Err       error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("start agent %s: %v", e.AgentName, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// ChatFailure classifies how a proxied chat call failed.
type ChatFailure int

const (
	// ChatUnreachable means the agent's HTTP service could not be
	// reached at all (connection refused, resolution failure).
	ChatUnreachable ChatFailure = iota

	// ChatTimedOut means the agent did not answer within the chat
	// deadline.
	ChatTimedOut

	// ChatUpstream means the agent answered but reported an error,
	// typically from the AI backend behind it.
	ChatUpstream
)

func (f ChatFailure) String() string {
	switch f {
	case ChatUnreachable:
		return "unreachable"
	case ChatTimedOut:
		return "timeout"
	case ChatUpstream:
		return "upstream error"
	default:
		return "unknown"
	}
}

// ChatError is a classified chat proxy failure. The classification is
// preserved so callers can distinguish a dead container from a live
// container whose backend rejected the call.
type ChatError struct {
	Kind ChatFailure
	Err  error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("chat %s: %v", e.Kind, e.Err)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}
