package serve

import (
	"time"

	"github.com/agentdock/agentdock"
)

// CreateAgentRequest is the agent creation payload. The original
// frontend sent both long and short field names; both are accepted.
type CreateAgentRequest struct {
	AgentType      string `json:"agent_type"`
	Type           string `json:"type"`
	ModelName      string `json:"model_name"`
	Model          string `json:"model"`
	DeploymentName string `json:"deployment_name"`
	SystemPrompt   string `json:"system_prompt"`
	Template       string `json:"template"`
}

// Spec resolves the aliased fields into an AgentSpec.
func (r CreateAgentRequest) Spec() agentdock.AgentSpec {
	agentType := r.AgentType
	if agentType == "" {
		agentType = r.Type
	}
	model := r.ModelName
	if model == "" {
		model = r.Model
	}
	return agentdock.AgentSpec{
		Type:         agentType,
		Model:        model,
		Deployment:   r.DeploymentName,
		SystemPrompt: r.SystemPrompt,
		Template:     r.Template,
	}
}

// ChatRequest is the chat payload.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CreateAgentResponse wraps a newly created agent.
type CreateAgentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Agent   agentdock.Agent `json:"agent"`
}

// AgentResponse wraps a single agent.
type AgentResponse struct {
	Success bool            `json:"success"`
	Agent   agentdock.Agent `json:"agent"`
}

// AgentListResponse wraps the agent list.
type AgentListResponse struct {
	Success bool              `json:"success"`
	Agents  []agentdock.Agent `json:"agents"`
	Count   int               `json:"count"`
}

// ChatResponse wraps a proxied chat reply.
type ChatResponse struct {
	Success      bool                 `json:"success"`
	AgentID      string               `json:"agent_id"`
	ChatResponse *agentdock.ChatReply `json:"chat_response"`
}

// AgentHealthResponse reports an on-demand health check.
type AgentHealthResponse struct {
	Success         bool             `json:"success"`
	AgentID         string           `json:"agent_id"`
	ContainerStatus agentdock.Status `json:"container_status"`
	AgentHealth     string           `json:"agent_health"`
}

// ServiceHealthResponse reports the manager's own health.
type ServiceHealthResponse struct {
	Status            string    `json:"status"`
	Service           string    `json:"service"`
	Timestamp         time.Time `json:"timestamp"`
	BackendConfigured bool      `json:"backend_configured"`
	AgentCount        int       `json:"agent_count"`
}

// TemplateListResponse lists template names by category.
type TemplateListResponse struct {
	Success   bool                `json:"success"`
	Templates map[string][]string `json:"templates"`
	All       []string            `json:"all_templates"`
}

// TemplateDetailResponse carries one template's prompt text.
type TemplateDetailResponse struct {
	Success      bool   `json:"success"`
	TemplateName string `json:"template_name"`
	SystemPrompt string `json:"system_prompt"`
}

// TranscriptResponse carries an agent's stored chat history.
type TranscriptResponse struct {
	Success  bool          `json:"success"`
	AgentID  string        `json:"agent_id"`
	Messages []ChatMessage `json:"messages"`
}
