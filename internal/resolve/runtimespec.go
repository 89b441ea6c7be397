// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

type (
	// RuntimeSpec is the fully-resolved, validated specification handed to a
	// container engine. Every field is in canonical units (memory in bytes,
	// CPU in nano-CPUs) with all environment references substituted. The
	// struct contains only ordered slices and scalars so that encoding the
	// same resolution twice yields byte-identical output.
	RuntimeSpec struct {
		// Service is the name of the resolved service.
		Service string `json:"service" toml:"service"`

		// Image is the image reference to run; for built images this is the
		// tag the build produces.
		Image string `json:"image" toml:"image"`

		// Build is the resolved build plan, nil when the service runs a
		// prebuilt image.
		Build *BuildPlan `json:"build,omitempty" toml:"build,omitempty"`

		// Command is the command override, split with shell word rules.
		Command []string `json:"command,omitempty" toml:"command,omitempty"`

		// Env is the merged environment in declaration order.
		Env []EnvVar `json:"env,omitempty" toml:"env,omitempty"`

		// Volumes are the validated mounts in declaration order.
		Volumes []VolumeBinding `json:"volumes,omitempty" toml:"volumes,omitempty"`

		// Ports are the validated port mappings in declaration order.
		Ports []PortBinding `json:"ports,omitempty" toml:"ports,omitempty"`

		// Resources carries canonical-unit limits; zero values mean unset.
		Resources ResourcePlan `json:"resources" toml:"resources"`

		// StdinOpen keeps STDIN open (docker run -i).
		StdinOpen bool `json:"stdin_open,omitempty" toml:"stdin_open,omitempty"`

		// TTY allocates a pseudo-TTY (docker run -t).
		TTY bool `json:"tty,omitempty" toml:"tty,omitempty"`

		// ShmSizeBytes sets the /dev/shm size; zero means engine default.
		ShmSizeBytes int64 `json:"shm_size_bytes,omitempty" toml:"shm_size_bytes,omitempty"`
	}

	// BuildPlan is the resolved image build: absolute context directory,
	// dockerfile path relative to it, substituted build args sorted by name,
	// and advisory cache source images in declaration order.
	BuildPlan struct {
		ContextDir string     `json:"context" toml:"context"`
		Dockerfile string     `json:"dockerfile,omitempty" toml:"dockerfile,omitempty"`
		Args       []BuildArg `json:"args,omitempty" toml:"args,omitempty"`
		CacheFrom  []string   `json:"cache_from,omitempty" toml:"cache_from,omitempty"`
	}

	// BuildArg is one resolved build-time variable.
	BuildArg struct {
		Name  string `json:"name" toml:"name"`
		Value string `json:"value" toml:"value"`
	}

	// VolumeBinding is one validated volume mount. Named reports whether
	// Source is a registry volume (an opaque handle owned by the container
	// runtime) rather than a host path.
	VolumeBinding struct {
		Source   string `json:"source" toml:"source"`
		Target   string `json:"target" toml:"target"`
		Named    bool   `json:"named,omitempty" toml:"named,omitempty"`
		ReadOnly bool   `json:"read_only,omitempty" toml:"read_only,omitempty"`
	}

	// PortBinding is one validated port mapping.
	PortBinding struct {
		HostPort      uint16 `json:"host_port" toml:"host_port"`
		ContainerPort uint16 `json:"container_port" toml:"container_port"`
		Protocol      string `json:"protocol" toml:"protocol"`
	}

	// ResourcePlan carries resource limits in canonical units.
	ResourcePlan struct {
		// NanoCPUs is the CPU share in billionths of a core (2.5 cores =
		// 2500000000), matching the container engines' own canonical unit.
		NanoCPUs int64 `json:"nano_cpus,omitempty" toml:"nano_cpus,omitempty"`

		// MemoryBytes is the memory ceiling in bytes.
		MemoryBytes int64 `json:"memory_bytes,omitempty" toml:"memory_bytes,omitempty"`
	}
)

// EngineSpec returns the mount in the "source:target[:ro]" form the engine
// CLIs expect.
func (v VolumeBinding) EngineSpec() string {
	s := v.Source + ":" + v.Target
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// EngineSpec returns the mapping in the "host:container/protocol" form the
// engine CLIs expect.
func (p PortBinding) EngineSpec() string {
	return fmt.Sprintf("%d:%d/%s", p.HostPort, p.ContainerPort, p.Protocol)
}

// EncodeJSON renders the RuntimeSpec as deterministic, indented JSON.
func (s *RuntimeSpec) EncodeJSON() ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode runtime spec as JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// EncodeTOML renders the RuntimeSpec as deterministic TOML.
func (s *RuntimeSpec) EncodeTOML() ([]byte, error) {
	out, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode runtime spec as TOML: %w", err)
	}
	return out, nil
}
