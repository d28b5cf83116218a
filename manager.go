package agentdock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/agentdock/agentdock/container"
)

// Runtime is the narrow container-runtime surface the Manager depends
// on, so tests can substitute a fake without touching real processes.
type Runtime interface {
	// Start launches one agent container and returns its handle.
	Start(ctx context.Context, spec container.StartSpec) (string, error)

	// AwaitHostPort returns the host port the runtime bound to the
	// container's service port.
	AwaitHostPort(ctx context.Context, containerID string) (int, error)

	// Stop terminates and removes the container. Idempotent.
	Stop(ctx context.Context, containerID string) error
}

// Default lifecycle parameters.
const (
	// DefaultStartupBudget bounds the total wait for a new agent to
	// pass its first health check.
	DefaultStartupBudget = 30 * time.Second

	// startupProbeInterval is the initial health-poll delay after a
	// container starts.
	startupProbeInterval = 500 * time.Millisecond

	// DefaultType is the agent type used when a spec omits one.
	DefaultType = "coder"

	// DefaultUserID attributes chat turns with no caller identity.
	DefaultUserID = "api_user"
)

// Manager owns agent existence: it is the only component that creates
// or removes registry records, and composes the launcher, prober, and
// chat proxy into the lifecycle operations exposed to the boundary
// layer.
type Manager struct {
	cfg      Config
	registry *Registry
	runtime  Runtime
	prober   *Prober
	chat     *ChatClient

	image         string
	startupBudget time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithRuntime substitutes the container runtime.
func WithRuntime(rt Runtime) Option {
	return func(m *Manager) {
		m.runtime = rt
	}
}

// WithImage sets the agent container image.
func WithImage(img string) Option {
	return func(m *Manager) {
		m.image = img
	}
}

// WithStartupBudget bounds the post-launch health-poll wait.
func WithStartupBudget(d time.Duration) Option {
	return func(m *Manager) {
		m.startupBudget = d
	}
}

// New creates a Manager. Without WithRuntime it connects to the local
// Docker daemon; if none is reachable the Manager still works for
// inspection, but Create fails with ErrDockerUnavailable.
func New(cfg Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:           cfg,
		registry:      NewRegistry(),
		prober:        NewProber(),
		chat:          NewChatClient(),
		startupBudget: DefaultStartupBudget,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.runtime == nil {
		dm, err := container.NewManager()
		if err != nil {
			return nil, err
		}
		if !dm.IsAvailable() {
			slog.Warn("docker daemon not reachable, agent creation disabled")
		}
		m.runtime = dockerRuntime{dm}
	}

	return m, nil
}

// dockerRuntime adapts container.Manager to the Runtime interface and
// surfaces daemon absence as a typed error.
type dockerRuntime struct {
	*container.Manager
}

func (d dockerRuntime) Start(ctx context.Context, spec container.StartSpec) (string, error) {
	if !d.IsAvailable() {
		return "", ErrDockerUnavailable
	}
	return d.Manager.Start(ctx, spec)
}

// Create resolves the agent's system prompt, launches its container,
// waits for the bound host port and a passing health check, and only
// then registers the record with status running. If the agent never
// becomes healthy the container is torn down and nothing is
// registered, so callers never learn the ID of an unobservable agent.
func (m *Manager) Create(ctx context.Context, spec AgentSpec) (Agent, error) {
	if !m.cfg.BackendConfigured() {
		return Agent{}, fmt.Errorf("%w: set AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY", ErrBackendNotConfigured)
	}

	agentType := spec.Type
	if agentType == "" {
		agentType = DefaultType
	}
	model := spec.Model
	if model == "" {
		model = DefaultModel
	}
	deployment := spec.Deployment
	if deployment == "" {
		deployment = m.cfg.DefaultDeployment
	}

	prompt, templateUsed, err := resolvePrompt(spec, agentType)
	if err != nil {
		return Agent{}, err
	}

	id := uuid.NewString()
	name := "agent-" + id[:8]

	slog.Info("creating agent",
		"id", id, "type", agentType, "model", model,
		"deployment", deployment, "template", templateUsed)

	env := []string{
		"AGENT_ID=" + id,
		"AGENT_TYPE=" + agentType,
		"MODEL_NAME=" + model,
		"AZURE_DEPLOYMENT_NAME=" + deployment,
		"AZURE_OPENAI_ENDPOINT=" + m.cfg.BackendEndpoint,
		"AZURE_OPENAI_API_KEY=" + m.cfg.BackendKey,
		"AZURE_OPENAI_API_VERSION=" + m.cfg.APIVersion,
		"CUSTOM_SYSTEM_PROMPT=" + prompt,
	}

	ref, err := m.runtime.Start(ctx, container.StartSpec{
		Name:    name,
		Image:   m.image,
		AgentID: id,
		Env:     env,
	})
	if err != nil {
		return Agent{}, &StartupError{AgentName: name, Err: err}
	}

	port, err := m.runtime.AwaitHostPort(ctx, ref)
	if err != nil {
		m.teardown(ref, name)
		return Agent{}, &StartupError{AgentName: name, Err: fmt.Errorf("%w: %v", ErrNoHostPort, err)}
	}

	endpoint := fmt.Sprintf("http://%s:%d", m.cfg.Host, port)

	agent := Agent{
		ID:           id,
		Name:         name,
		Type:         agentType,
		Model:        model,
		Deployment:   deployment,
		SystemPrompt: prompt,
		Template:     templateUsed,
		ContainerID:  ref,
		Endpoint:     endpoint,
		Port:         port,
		Status:       StatusStarting,
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.awaitHealthy(ctx, endpoint); err != nil {
		m.teardown(ref, name)
		return Agent{}, &StartupError{AgentName: name, Err: ErrStartupTimeout}
	}

	agent.Status = StatusRunning
	if err := m.registry.Put(&agent); err != nil {
		// Unreachable with UUID ids, but never leak the container.
		m.teardown(ref, name)
		return Agent{}, err
	}

	slog.Info("agent running", "id", id, "endpoint", endpoint, "container", shortID(ref))
	return agent, nil
}

// resolvePrompt applies the creation-time priority: named template,
// then explicit custom prompt, then the type default.
func resolvePrompt(spec AgentSpec, agentType string) (prompt, templateUsed string, err error) {
	if spec.Template != "" {
		p, ok := TemplatePrompt(spec.Template)
		if !ok {
			return "", "", fmt.Errorf("%w: %q (available: %s)",
				ErrTemplateNotFound, spec.Template, strings.Join(TemplateNames(), ", "))
		}
		return p, spec.Template, nil
	}
	if spec.SystemPrompt != "" {
		return spec.SystemPrompt, "", nil
	}
	return DefaultPrompt(agentType), "", nil
}

// awaitHealthy polls the health endpoint with exponential backoff
// until it passes or the startup budget runs out.
func (m *Manager) awaitHealthy(ctx context.Context, endpoint string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = startupProbeInterval
	b.MaxElapsedTime = m.startupBudget

	op := func() error {
		if h := m.prober.Probe(ctx, endpoint); h != Healthy {
			return fmt.Errorf("agent %s", h)
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

// teardown is the best-effort rollback for a container that never made
// it into the registry.
func (m *Manager) teardown(ref, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.runtime.Stop(ctx, ref); err != nil {
		slog.Warn("rollback stop failed", "agent", name, "container", shortID(ref), "error", err)
	}
}

// Delete stops an agent's container and removes its record. Stop runs
// before removal so the registry never references a container the
// runtime has already been told to discard.
func (m *Manager) Delete(ctx context.Context, id string) error {
	a, err := m.registry.Get(id)
	if err != nil {
		return err
	}

	if err := m.runtime.Stop(ctx, a.ContainerID); err != nil {
		// The record still goes away; a stuck container is logged,
		// not leaked into the registry.
		slog.Warn("container stop failed", "id", id, "container", shortID(a.ContainerID), "error", err)
	}

	if err := m.registry.Remove(id); err != nil {
		return err
	}

	slog.Info("agent deleted", "id", id)
	return nil
}

// Get returns the agent record for an ID.
func (m *Manager) Get(id string) (Agent, error) {
	return m.registry.Get(id)
}

// List returns a snapshot of all registered agents.
func (m *Manager) List() []Agent {
	return m.registry.List()
}

// Chat forwards one message to a running agent. When the agent is
// unreachable its status is demoted to unhealthy before the error is
// surfaced, so list and inspect reflect the failure without a separate
// probe.
func (m *Manager) Chat(ctx context.Context, id, message, userID string) (*ChatReply, error) {
	a, err := m.registry.Get(id)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		userID = DefaultUserID
	}

	reply, err := m.chat.Send(ctx, a.Endpoint, message, userID)
	if err != nil {
		var ce *ChatError
		if errors.As(err, &ce) && ce.Kind == ChatUnreachable {
			m.registry.SetStatus(id, StatusUnhealthy)
		}
		return nil, err
	}

	return reply, nil
}

// CheckHealth probes an agent on demand and updates its status from
// the result: healthy restores running, anything else demotes to
// unhealthy.
func (m *Manager) CheckHealth(ctx context.Context, id string) (Health, error) {
	a, err := m.registry.Get(id)
	if err != nil {
		return 0, err
	}

	h := m.prober.Probe(ctx, a.Endpoint)
	if h == Healthy {
		m.registry.SetStatus(id, StatusRunning)
	} else {
		m.registry.SetStatus(id, StatusUnhealthy)
	}
	return h, nil
}

// BackendConfigured reports whether the upstream AI backend is usable.
func (m *Manager) BackendConfigured() bool {
	return m.cfg.BackendConfigured()
}

// Close releases the underlying container runtime, if it owns one.
func (m *Manager) Close() error {
	if dr, ok := m.runtime.(dockerRuntime); ok {
		return dr.Manager.Close()
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
