package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
)

const (
	// InternalPort is the fixed port agent containers serve HTTP on.
	InternalPort = "8080/tcp"

	// DefaultImage is the agent container image used when none is set.
	DefaultImage = "agentdock/agent:latest"

	// LabelManagedBy marks containers owned by this process.
	LabelManagedBy = "agentdock.managed-by"

	// LabelAgent carries the agent ID a container belongs to.
	LabelAgent = "agentdock.agent"

	// memoryLimit caps each agent container.
	memoryLimit = 512 * 1024 * 1024

	// stopGrace is how long a container gets to exit before removal
	// forces it.
	stopGrace = 10 // seconds

	// portProbeAttempts bounds the host-port readback loop. The port
	// mapping is not always visible in the instant the container
	// reports running.
	portProbeAttempts = 5

	// portProbeInterval is the initial readback delay.
	portProbeInterval = 200 * time.Millisecond
)

// StartSpec describes one agent container to launch.
type StartSpec struct {
	// Name is the container name.
	Name string

	// Image overrides the manager's default image.
	Image string

	// AgentID is recorded as a label for out-of-band cleanup.
	AgentID string

	// Env is the container environment (KEY=value form).
	Env []string
}

// Manager starts and stops agent containers. It never retries a failed
// operation; retry policy belongs to the caller.
type Manager struct {
	client     *client.Client
	defaultImg string
	available  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDefaultImage sets the default agent container image.
func WithDefaultImage(img string) ManagerOption {
	return func(m *Manager) {
		m.defaultImg = img
	}
}

// NewManager creates a container manager. If no Docker daemon is
// reachable, it returns a Manager with available=false rather than an
// error.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		defaultImg: DefaultImage,
	}

	for _, opt := range opts {
		opt(m)
	}

	cli, err := createDockerClient()
	if err != nil {
		return m, nil
	}

	m.client = cli
	m.available = true
	return m, nil
}

// createDockerClient creates a Docker client, trying multiple socket
// locations for compatibility with Docker Desktop on macOS.
func createDockerClient() (*client.Client, error) {
	// First try with environment settings (DOCKER_HOST, etc.)
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := cli.Ping(ctx); err == nil {
			return cli, nil
		}
		cli.Close()
	}

	socketPaths := []string{
		"unix://" + os.Getenv("HOME") + "/.docker/run/docker.sock", // Docker Desktop macOS
		"unix:///var/run/docker.sock",                              // Linux default
		"unix://" + os.Getenv("HOME") + "/.colima/docker.sock",     // Colima
	}

	for _, socketPath := range socketPaths {
		cli, err := client.NewClientWithOpts(
			client.WithHost(socketPath),
			client.WithAPIVersionNegotiation(),
		)
		if err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err = cli.Ping(ctx)
		cancel()

		if err == nil {
			return cli, nil
		}
		cli.Close()
	}

	return nil, fmt.Errorf("could not connect to Docker daemon")
}

// IsAvailable returns whether Docker is available.
func (m *Manager) IsAvailable() bool {
	return m.available
}

// Start creates and starts one agent container with its service port
// bound to an OS-assigned host port. It returns the container ID.
func (m *Manager) Start(ctx context.Context, spec StartSpec) (string, error) {
	if !m.available {
		return "", fmt.Errorf("docker not available")
	}

	img := spec.Image
	if img == "" {
		img = m.defaultImg
	}

	if err := m.ensureImage(ctx, img); err != nil {
		return "", fmt.Errorf("pull image %s: %w", img, err)
	}

	containerCfg := &container.Config{
		Image: img,
		Env:   spec.Env,
		ExposedPorts: nat.PortSet{
			nat.Port(InternalPort): struct{}{},
		},
		Labels: map[string]string{
			LabelManagedBy: "agentdock",
			LabelAgent:     spec.AgentID,
		},
	}

	hostCfg := &container.HostConfig{
		// Empty HostPort delegates the bind decision to the OS, so
		// two live containers can never collide on a port.
		PortBindings: nat.PortMap{
			nat.Port(InternalPort): []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: ""}},
		},
		Resources: container.Resources{
			Memory: memoryLimit,
		},
	}

	resp, err := m.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}

	if err := m.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Don't leave a created-but-never-started container behind.
		_ = m.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("start container: %w", err)
	}

	return resp.ID, nil
}

// AwaitHostPort reads back the host port the OS bound to the agent's
// service port. The mapping can lag the running state, so inspection
// retries with exponential backoff before giving up.
func (m *Manager) AwaitHostPort(ctx context.Context, containerID string) (int, error) {
	if !m.available {
		return 0, fmt.Errorf("docker not available")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = portProbeInterval
	b.MaxElapsedTime = 0

	var port int
	op := func() error {
		inspect, err := m.client.ContainerInspect(ctx, containerID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if inspect.NetworkSettings == nil {
			return fmt.Errorf("no network settings yet")
		}
		bindings := inspect.NetworkSettings.Ports[nat.Port(InternalPort)]
		if len(bindings) == 0 || bindings[0].HostPort == "" {
			return fmt.Errorf("no host port bound yet")
		}
		p, err := strconv.Atoi(bindings[0].HostPort)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parse host port %q: %w", bindings[0].HostPort, err))
		}
		port = p
		return nil
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(b, portProbeAttempts-1), ctx)
	if err := backoff.Retry(op, retry); err != nil {
		return 0, err
	}
	return port, nil
}

// Stop requests graceful termination and then removes the container.
// Stopping a container that is already gone is a no-op success.
func (m *Manager) Stop(ctx context.Context, containerID string) error {
	if !m.available {
		return fmt.Errorf("docker not available")
	}

	grace := stopGrace
	if err := m.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &grace}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		// Fall through to removal; Force covers a stuck stop.
	}

	if err := m.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("remove container: %w", err)
	}
	return nil
}

// ensureImage pulls an image if not present locally.
func (m *Manager) ensureImage(ctx context.Context, imageName string) error {
	_, _, err := m.client.ImageInspectWithRaw(ctx, imageName)
	if err == nil {
		return nil
	}

	reader, err := m.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	// Consume the reader to complete the pull.
	_, err = io.Copy(io.Discard, reader)
	return err
}

// Close closes the Docker client.
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
