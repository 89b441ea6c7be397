// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
)

// Engine defines the interface for container operations
type Engine interface {
	// Name returns the engine name (docker or podman)
	Name() string
	// Available checks if the engine is available on the system
	Available() bool
	// Version returns the engine version
	Version(ctx context.Context) (string, error)

	// Build builds an image from a build plan
	Build(ctx context.Context, opts BuildOptions) error
	// Run runs a container to completion
	Run(ctx context.Context, opts RunOptions) (*RunResult, error)
	// Remove removes a container
	Remove(ctx context.Context, containerID string, force bool) error
	// ImageExists checks if an image exists locally
	ImageExists(ctx context.Context, image string) (bool, error)
	// RemoveImage removes an image
	RemoveImage(ctx context.Context, image string, force bool) error

	// EnsureVolume creates a named volume if it does not already exist.
	// Named volumes persist across container recreation; nothing in this
	// package ever removes one implicitly.
	EnsureVolume(ctx context.Context, name string) error
	// VolumeExists checks if a named volume exists
	VolumeExists(ctx context.Context, name string) (bool, error)
}

// BuildOptions contains options for building an image
type BuildOptions struct {
	// ContextDir is the build context directory
	ContextDir string
	// Dockerfile is the path to the Dockerfile (relative to ContextDir)
	Dockerfile string
	// Tag is the image tag
	Tag string
	// BuildArgs are build-time variables as "NAME=value" strings, in a
	// deterministic order
	BuildArgs []string
	// CacheFrom lists advisory cache source images, in priority order.
	// Unavailable cache sources must not fail the build.
	CacheFrom []string
	// NoCache disables the build cache
	NoCache bool
	// Stdout is where to write build output
	Stdout io.Writer
	// Stderr is where to write build errors
	Stderr io.Writer
}

// RunOptions contains options for running a container
type RunOptions struct {
	// Image is the image to run
	Image string
	// Command overrides the image's default command
	Command []string
	// WorkDir is the working directory inside the container
	WorkDir string
	// Env contains environment variables as "KEY=value" strings, in a
	// deterministic order
	Env []string
	// Volumes are volume mounts in "source:target[:ro]" format
	Volumes []string
	// Ports are port mappings in "host:container/protocol" format
	Ports []string
	// NanoCPUs caps the CPU share in billionths of a core (0 = unlimited)
	NanoCPUs int64
	// MemoryBytes caps memory in bytes (0 = unlimited)
	MemoryBytes int64
	// ShmSizeBytes sets the /dev/shm size in bytes (0 = engine default)
	ShmSizeBytes int64
	// Remove automatically removes the container after exit
	Remove bool
	// Name is the container name
	Name string
	// Interactive keeps STDIN open
	Interactive bool
	// TTY allocates a pseudo-TTY
	TTY bool
	// Stdin is the standard input
	Stdin io.Reader
	// Stdout is where to write standard output
	Stdout io.Writer
	// Stderr is where to write standard error
	Stderr io.Writer
}

// RunResult contains the result of running a container
type RunResult struct {
	// ExitCode is the container's exit code
	ExitCode int
	// Error contains any engine-level error (as opposed to the contained
	// process exiting non-zero)
	Error error
}

// EngineType identifies the container engine type
type EngineType string

const (
	EngineTypeDocker EngineType = "docker"
	EngineTypePodman EngineType = "podman"
)

// ErrEngineNotAvailable is returned when a container engine is not available
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a new container engine based on preference, falling back
// to the other engine when the preferred one is unavailable.
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypeDocker:
		engine := NewDockerEngine()
		if engine.Available() {
			return engine, nil
		}
		podmanEngine := NewPodmanEngine()
		if podmanEngine.Available() {
			return podmanEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	case EngineTypePodman:
		engine := NewPodmanEngine()
		if engine.Available() {
			return engine, nil
		}
		dockerEngine := NewDockerEngine()
		if dockerEngine.Available() {
			return dockerEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine, preferring
// Docker.
func AutoDetectEngine() (Engine, error) {
	docker := NewDockerEngine()
	if docker.Available() {
		return docker, nil
	}
	podman := NewPodmanEngine()
	if podman.Available() {
		return podman, nil
	}
	return nil, &ErrEngineNotAvailable{
		Engine: "auto",
		Reason: "neither docker nor podman is installed and accessible",
	}
}
