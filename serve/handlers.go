package serve

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentdock/agentdock"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ServiceHealthResponse{
		Status:            "healthy",
		Service:           "Agent Management API",
		Timestamp:         time.Now().UTC(),
		BackendConfigured: s.mgr.BackendConfigured(),
		AgentCount:        len(s.mgr.List()),
	})
}

// --- Template Handlers ---

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TemplateListResponse{
		Success:   true,
		Templates: agentdock.TemplatesByCategory(),
		All:       agentdock.TemplateNames(),
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	prompt, ok := agentdock.TemplatePrompt(name)
	if !ok {
		writeError(w, http.StatusNotFound, "template '"+name+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, TemplateDetailResponse{
		Success:      true,
		TemplateName: name,
		SystemPrompt: prompt,
	})
}

// --- Agent Handlers ---

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	agent, err := s.mgr.Create(r.Context(), req.Spec())
	if err != nil {
		slog.Error("create agent failed", "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, CreateAgentResponse{
		Success: true,
		Message: "Agent created successfully",
		Agent:   agent,
	})
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents := s.mgr.List()
	writeJSON(w, http.StatusOK, AgentListResponse{
		Success: true,
		Agents:  agents,
		Count:   len(agents),
	})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.mgr.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AgentResponse{Success: true, Agent: agent})
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.mgr.Delete(r.Context(), id); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	if err := s.store.DeleteChatMessages(id); err != nil {
		slog.Warn("delete transcript failed", "id", id, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Agent " + id + " deleted successfully",
	})
}

// --- Chat Handlers ---

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.mgr.Chat(r.Context(), id, req.Message, req.UserID)
	if err != nil {
		slog.Error("chat failed", "id", id, "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}

	// Transcript is an audit log; a failed insert never fails the chat.
	if err := s.store.InsertChatMessage(id, "user", req.Message); err != nil {
		slog.Warn("store chat message failed", "id", id, "error", err)
	}
	if err := s.store.InsertChatMessage(id, "assistant", reply.Response); err != nil {
		slog.Warn("store chat message failed", "id", id, "error", err)
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Success:      true,
		AgentID:      id,
		ChatResponse: reply,
	})
}

func (s *Server) handleAgentHealth(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	health, err := s.mgr.CheckHealth(r.Context(), id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	agent, err := s.mgr.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AgentHealthResponse{
		Success:         true,
		AgentID:         id,
		ContainerStatus: agent.Status,
		AgentHealth:     health.String(),
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.mgr.Get(id); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	msgs, err := s.store.ListChatMessages(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{
		Success:  true,
		AgentID:  id,
		Messages: msgs,
	})
}

// --- Helpers ---

// errorStatus maps core error classifications to stable status codes
// without inspecting message text.
func errorStatus(err error) int {
	var ce *agentdock.ChatError
	if errors.As(err, &ce) {
		if ce.Kind == agentdock.ChatTimedOut {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, agentdock.ErrAgentNotFound):
		return http.StatusNotFound
	case errors.Is(err, agentdock.ErrTemplateNotFound):
		return http.StatusBadRequest
	case errors.Is(err, agentdock.ErrBackendNotConfigured),
		errors.Is(err, agentdock.ErrDockerUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, agentdock.ErrStartupTimeout),
		errors.Is(err, agentdock.ErrNoHostPort):
		return http.StatusBadGateway
	}

	var se *agentdock.StartupError
	if errors.As(err, &se) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}
