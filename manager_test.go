package agentdock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/agentdock/agentdock/container"
)

// fakeRuntime substitutes the Docker launcher with an in-memory one.
// Each Start hands out the next port from the configured list, which
// tests point at httptest servers standing in for agent containers.
type fakeRuntime struct {
	mu         sync.Mutex
	ports      []int
	portsByRef map[string]int
	startErr   error
	portErr    error
	starts     int
	stopped    []string
}

func (f *fakeRuntime) Start(ctx context.Context, spec container.StartSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.startErr != nil {
		return "", f.startErr
	}
	ref := fmt.Sprintf("ctr-%d", f.starts)
	f.starts++
	if f.portsByRef == nil {
		f.portsByRef = make(map[string]int)
	}
	if len(f.ports) > 0 {
		f.portsByRef[ref] = f.ports[0]
		f.ports = f.ports[1:]
	}
	return ref, nil
}

func (f *fakeRuntime) AwaitHostPort(ctx context.Context, ref string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.portErr != nil {
		return 0, f.portErr
	}
	p, ok := f.portsByRef[ref]
	if !ok {
		return 0, errors.New("no port recorded for container")
	}
	return p, nil
}

func (f *fakeRuntime) Stop(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, ref)
	return nil
}

func (f *fakeRuntime) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *fakeRuntime) stoppedRefs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stopped...)
}

func testConfig() Config {
	return Config{
		BackendEndpoint:   "https://example.openai.azure.com",
		BackendKey:        "test-key",
		DefaultDeployment: "gpt-4o-mini",
		APIVersion:        "2024-02-15-preview",
		Host:              "127.0.0.1",
	}
}

// healthyAgentServer is an httptest double for an agent container.
func healthyAgentServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
			UserID  string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(ChatReply{
			Response: "echo: " + req.Message,
			UserID:   req.UserID,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func serverPort(t *testing.T, srv *httptest.Server) int {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func newTestManager(t *testing.T, rt Runtime) *Manager {
	t.Helper()
	m, err := New(testConfig(), WithRuntime(rt), WithStartupBudget(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreateDefaults(t *testing.T) {
	srv := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{Type: "coder"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if agent.ID == "" {
		t.Error("agent.ID is empty")
	}
	if want := "agent-" + agent.ID[:8]; agent.Name != want {
		t.Errorf("Name = %q, want %q", agent.Name, want)
	}
	if agent.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", agent.Model, DefaultModel)
	}
	if agent.Deployment != "gpt-4o-mini" {
		t.Errorf("Deployment = %q, want %q", agent.Deployment, "gpt-4o-mini")
	}
	if agent.SystemPrompt != DefaultPrompt("coder") {
		t.Errorf("SystemPrompt = %q, want coder default", agent.SystemPrompt)
	}
	if agent.Status != StatusRunning {
		t.Errorf("Status = %q, want %q", agent.Status, StatusRunning)
	}
	if agent.Port != serverPort(t, srv) {
		t.Errorf("Port = %d, want %d", agent.Port, serverPort(t, srv))
	}

	// The record is visible with status running.
	got, err := m.Get(agent.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusRunning {
		t.Errorf("Get().Status = %q, want %q", got.Status, StatusRunning)
	}
}

func TestCreateTemplatePriority(t *testing.T) {
	srv := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{
		Template:     "senior_fullstack",
		SystemPrompt: "X",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want, _ := TemplatePrompt("senior_fullstack")
	if agent.SystemPrompt != want {
		t.Error("SystemPrompt should be the template text, not the custom prompt")
	}
	if agent.Template != "senior_fullstack" {
		t.Errorf("Template = %q, want %q", agent.Template, "senior_fullstack")
	}
}

func TestCreateCustomPrompt(t *testing.T) {
	srv := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{SystemPrompt: "You are a pirate."})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if agent.SystemPrompt != "You are a pirate." {
		t.Errorf("SystemPrompt = %q", agent.SystemPrompt)
	}
	if agent.Template != "" {
		t.Errorf("Template = %q, want empty", agent.Template)
	}
}

func TestCreateUnknownTemplate(t *testing.T) {
	rt := &fakeRuntime{}
	m := newTestManager(t, rt)

	_, err := m.Create(context.Background(), AgentSpec{Template: "no_such_template"})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("Create() error = %v, want ErrTemplateNotFound", err)
	}
	if rt.startCount() != 0 {
		t.Error("no container should be started for an unknown template")
	}
}

func TestCreateBackendNotConfigured(t *testing.T) {
	rt := &fakeRuntime{}
	m, err := New(Config{Host: "127.0.0.1"}, WithRuntime(rt))
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Create(context.Background(), AgentSpec{})
	if !errors.Is(err, ErrBackendNotConfigured) {
		t.Fatalf("Create() error = %v, want ErrBackendNotConfigured", err)
	}
	if rt.startCount() != 0 {
		t.Error("no container should be started without backend config")
	}
}

func TestCreateTwoAgentsDistinct(t *testing.T) {
	srv1 := healthyAgentServer(t)
	srv2 := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv1), serverPort(t, srv2)}}
	m := newTestManager(t, rt)

	a1, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	a2, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	if a1.ID == a2.ID {
		t.Error("two agents share an ID")
	}
	if a1.Port == a2.Port {
		t.Error("two running agents share a port")
	}
	for _, a := range m.List() {
		if a.Status != StatusRunning {
			t.Errorf("agent %s status = %q, want running", a.ID, a.Status)
		}
	}
}

func TestCreateStartupTimeoutRollsBack(t *testing.T) {
	// An agent that never reports healthy.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "still booting", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m, err := New(testConfig(), WithRuntime(rt), WithStartupBudget(600*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Create(context.Background(), AgentSpec{})
	if !errors.Is(err, ErrStartupTimeout) {
		t.Fatalf("Create() error = %v, want ErrStartupTimeout", err)
	}

	var se *StartupError
	if !errors.As(err, &se) {
		t.Fatalf("Create() error = %T, want *StartupError", err)
	}

	// All-or-nothing: the container is gone and nothing is registered.
	if got := rt.stoppedRefs(); len(got) != 1 {
		t.Errorf("stopped containers = %v, want exactly the rolled-back one", got)
	}
	if n := len(m.List()); n != 0 {
		t.Errorf("List() len = %d, want 0 after rollback", n)
	}
}

func TestCreatePortAllocationFailure(t *testing.T) {
	rt := &fakeRuntime{portErr: errors.New("inspect failed")}
	m := newTestManager(t, rt)

	_, err := m.Create(context.Background(), AgentSpec{})
	if !errors.Is(err, ErrNoHostPort) {
		t.Fatalf("Create() error = %v, want ErrNoHostPort", err)
	}
	if got := rt.stoppedRefs(); len(got) != 1 {
		t.Errorf("stopped containers = %v, want the launched one torn down", got)
	}
}

func TestCreateLaunchFailure(t *testing.T) {
	rt := &fakeRuntime{startErr: errors.New("image missing")}
	m := newTestManager(t, rt)

	_, err := m.Create(context.Background(), AgentSpec{})
	var se *StartupError
	if !errors.As(err, &se) {
		t.Fatalf("Create() error = %v, want *StartupError", err)
	}
	if n := len(m.List()); n != 0 {
		t.Errorf("List() len = %d, want 0", n)
	}
}

func TestDeleteAgent(t *testing.T) {
	srv := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(context.Background(), agent.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := m.Get(agent.ID); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrAgentNotFound", err)
	}
	if got := rt.stoppedRefs(); len(got) != 1 || got[0] != agent.ContainerID {
		t.Errorf("stopped = %v, want [%s]", got, agent.ContainerID)
	}

	// Second delete reports not found, and never errors on the stop path.
	if err := m.Delete(context.Background(), agent.ID); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("second Delete() error = %v, want ErrAgentNotFound", err)
	}
}

func TestChatEcho(t *testing.T) {
	srv := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatal(err)
	}

	reply, err := m.Chat(context.Background(), agent.ID, "hi there", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Response != "echo: hi there" {
		t.Errorf("Response = %q", reply.Response)
	}
	if reply.UserID != DefaultUserID {
		t.Errorf("UserID = %q, want default %q", reply.UserID, DefaultUserID)
	}
}

func TestChatUnknownAgent(t *testing.T) {
	rt := &fakeRuntime{}
	m := newTestManager(t, rt)

	_, err := m.Chat(context.Background(), "no-such-id", "hi", "u1")
	if !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("Chat() error = %v, want ErrAgentNotFound", err)
	}
	if rt.startCount() != 0 {
		t.Error("chat against an unknown id must have no container side effects")
	}
}

func TestChatUnreachableDemotesStatus(t *testing.T) {
	srv := healthyAgentServer(t)
	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatal(err)
	}

	// Kill the container out-of-band.
	srv.Close()

	_, err = m.Chat(context.Background(), agent.ID, "anyone home?", "u1")
	var ce *ChatError
	if !errors.As(err, &ce) || ce.Kind != ChatUnreachable {
		t.Fatalf("Chat() error = %v, want unreachable ChatError", err)
	}

	// The failure is observable via List without a separate probe.
	for _, a := range m.List() {
		if a.ID == agent.ID && a.Status != StatusUnhealthy {
			t.Errorf("status = %q, want %q", a.Status, StatusUnhealthy)
		}
	}
}

func TestChatUpstreamErrorKeepsStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"backend rejected the call"}`, http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Chat(context.Background(), agent.ID, "hi", "u1")
	var ce *ChatError
	if !errors.As(err, &ce) || ce.Kind != ChatUpstream {
		t.Fatalf("Chat() error = %v, want upstream ChatError", err)
	}

	// The container is up; its record stays running.
	got, _ := m.Get(agent.ID)
	if got.Status != StatusRunning {
		t.Errorf("status = %q, want %q", got.Status, StatusRunning)
	}
}

func TestCheckHealthDemotesAndRestores(t *testing.T) {
	var healthy bool
	var mu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ok := healthy
		mu.Unlock()
		if !ok {
			http.Error(w, "unwell", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mu.Lock()
	healthy = true
	mu.Unlock()

	rt := &fakeRuntime{ports: []int{serverPort(t, srv)}}
	m := newTestManager(t, rt)

	agent, err := m.Create(context.Background(), AgentSpec{})
	if err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	healthy = false
	mu.Unlock()

	h, err := m.CheckHealth(context.Background(), agent.ID)
	if err != nil {
		t.Fatalf("CheckHealth() error = %v", err)
	}
	if h != Degraded {
		t.Errorf("CheckHealth() = %v, want Degraded", h)
	}
	got, _ := m.Get(agent.ID)
	if got.Status != StatusUnhealthy {
		t.Errorf("status = %q, want %q", got.Status, StatusUnhealthy)
	}

	// Recoverable: a passing probe restores running.
	mu.Lock()
	healthy = true
	mu.Unlock()

	if h, _ := m.CheckHealth(context.Background(), agent.ID); h != Healthy {
		t.Errorf("CheckHealth() = %v, want Healthy", h)
	}
	got, _ = m.Get(agent.ID)
	if got.Status != StatusRunning {
		t.Errorf("status = %q, want %q", got.Status, StatusRunning)
	}
}

func TestCheckHealthUnknownAgent(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{})

	if _, err := m.CheckHealth(context.Background(), "nope"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("CheckHealth() error = %v, want ErrAgentNotFound", err)
	}
}

func TestConcurrentCreateAndList(t *testing.T) {
	const n = 8

	srvs := make([]*httptest.Server, n)
	ports := make([]int, n)
	for i := range srvs {
		srvs[i] = healthyAgentServer(t)
		ports[i] = serverPort(t, srvs[i])
	}

	rt := &fakeRuntime{ports: ports}
	m := newTestManager(t, rt)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Create(context.Background(), AgentSpec{}); err != nil {
				t.Errorf("Create() error = %v", err)
			}
			m.List()
		}()
	}
	wg.Wait()

	agents := m.List()
	if len(agents) != n {
		t.Fatalf("List() len = %d, want %d", len(agents), n)
	}

	seen := make(map[int]string)
	for _, a := range agents {
		if other, dup := seen[a.Port]; dup {
			t.Errorf("agents %s and %s share port %d", a.ID, other, a.Port)
		}
		seen[a.Port] = a.ID
	}
}
