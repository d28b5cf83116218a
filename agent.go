package agentdock

import "time"

// Agent is a registered, independently addressable chat-serving container.
// Records are created by the Manager and removed only by Manager.Delete;
// everything except Status is immutable after creation.
type Agent struct {
	// ID is the globally unique identifier, generated at creation.
	ID string `json:"agent_id"`

	// Name is the display label, derived from the ID prefix.
	Name string `json:"agent_name"`

	// Type selects the default system prompt when none is supplied
	// (e.g. "coder", "general", "analyzer", "creative").
	Type string `json:"agent_type"`

	// Model is the backing model identifier.
	Model string `json:"model_name"`

	// Deployment is the backend deployment name.
	Deployment string `json:"deployment_name"`

	// SystemPrompt is the instruction text resolved at creation time.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Template is the template name the prompt came from, if any.
	Template string `json:"template_used,omitempty"`

	// ContainerID is the handle to the backing container process.
	ContainerID string `json:"container_id"`

	// Endpoint is the base URL of the container's HTTP service.
	Endpoint string `json:"endpoint"`

	// Port is the host port bound to the container's service port.
	Port int `json:"port"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is when the agent was registered.
	CreatedAt time.Time `json:"created_at"`
}

// Status is an agent's lifecycle state.
type Status string

const (
	StatusStarting  Status = "starting"
	StatusRunning   Status = "running"
	StatusUnhealthy Status = "unhealthy"
	StatusStopped   Status = "stopped"
)

// AgentSpec describes the agent to create. Zero values select defaults.
type AgentSpec struct {
	// Type of agent; defaults to "coder".
	Type string

	// Model identifier; defaults to DefaultModel.
	Model string

	// Deployment name; defaults to the configured default deployment.
	Deployment string

	// SystemPrompt is an explicit instruction text. Ignored when
	// Template is set.
	SystemPrompt string

	// Template names a predefined system prompt. Takes precedence
	// over SystemPrompt.
	Template string
}

// DefaultModel is the model used when a spec does not name one.
const DefaultModel = "gpt-4o-mini"

// defaultPrompts maps agent types to their built-in system prompts.
// Unknown types fall back to the general prompt.
var defaultPrompts = map[string]string{
	"general":  "You are a helpful AI assistant. Provide clear, accurate, and helpful responses.",
	"coder":    "You are an expert software developer. Help with coding questions, debugging, and best practices. Always provide working code examples.",
	"analyzer": "You are a data analyst. Help analyze information, create summaries, and extract actionable insights.",
	"creative": "You are a creative writer. Help with storytelling, creative writing, and imaginative content creation.",
}

// DefaultPrompt returns the built-in system prompt for an agent type.
func DefaultPrompt(agentType string) string {
	if p, ok := defaultPrompts[agentType]; ok {
		return p
	}
	return defaultPrompts["general"]
}
