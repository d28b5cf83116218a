package agentdock

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Health is the outcome of a single probe of an agent's HTTP service.
type Health int

const (
	// Healthy means the agent answered /health with a success status.
	Healthy Health = iota

	// Degraded means the endpoint is reachable but returned a
	// non-success status or a malformed payload.
	Degraded

	// Unreachable means the endpoint could not be reached at all.
	Unreachable
)

func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// ProbeTimeout bounds a single health probe.
const ProbeTimeout = 5 * time.Second

// Prober checks whether an agent's HTTP service is answering correctly.
// A single probe never retries; callers decide retry policy.
type Prober struct {
	client *http.Client
}

// NewProber creates a Prober with the standard probe timeout.
func NewProber() *Prober {
	return &Prober{
		client: &http.Client{Timeout: ProbeTimeout},
	}
}

// Probe performs one GET against the agent's /health endpoint and
// classifies the result.
func (p *Prober) Probe(ctx context.Context, endpoint string) Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/health", nil)
	if err != nil {
		return Unreachable
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Unreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Degraded
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Degraded
	}
	if body.Status != "healthy" && body.Status != "ok" {
		return Degraded
	}

	return Healthy
}
