// Package container launches and tears down agent containers through
// the Docker Engine API.
//
// Each agent runs its HTTP service on a fixed internal port; the
// launcher binds that port to an OS-assigned host port and reads the
// assignment back from the container's network state. Ports are never
// reserved ahead of start, so two live agents can never share one.
//
// # Graceful Degradation
//
// When no Docker daemon is reachable, NewManager still returns a
// Manager with IsAvailable() == false; Start then fails cleanly
// instead of panicking, so the surrounding service can come up and
// report the condition.
package container
