// SPDX-License-Identifier: MPL-2.0

package capsulefile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoServices is returned when a capsulefile declares no services.
	ErrNoServices = errors.New("capsulefile declares no services")

	// ErrServiceNotFound is the sentinel error wrapped by ServiceNotFoundError.
	ErrServiceNotFound = errors.New("service not found")

	// ErrAmbiguousService is the sentinel error wrapped by AmbiguousServiceError.
	ErrAmbiguousService = errors.New("ambiguous service selection")
)

type (
	// ServiceSpec declares one application container: how it is built or
	// which image it runs, its environment, volume mounts, port mappings,
	// resource limits, and interactive-mode flags.
	ServiceSpec struct {
		// Build describes how the image is constructed. Mutually inclusive
		// with Image: when both are set, Image names the tag the build
		// produces; when only Image is set, no build happens.
		Build *BuildSpec `json:"build,omitempty"`

		// Image is the image reference to run (or tag for the build).
		Image ImageRef `json:"image,omitempty"`

		// Command overrides the image's default command. Split with
		// POSIX shell word rules at resolve time.
		Command string `json:"command,omitempty"`

		// Volumes lists mounts in "source:target[:ro]" form. Named sources
		// must be declared in the top-level volume registry.
		Volumes []VolumeMountSpec `json:"volumes,omitempty"`

		// Environment lists bindings in "KEY=value" form. Values may embed
		// "${NAME}" references against the host environment snapshot;
		// a bare "KEY" passes the host value through.
		Environment []EnvBindingSpec `json:"environment,omitempty"`

		// EnvFiles lists dotenv files loaded (in order) as defaults below
		// the inline Environment bindings.
		EnvFiles []DotenvFilePath `json:"env_files,omitempty"`

		// Ports lists mappings in "host:container[/protocol]" form.
		Ports []PortMappingSpec `json:"ports,omitempty"`

		// Resources caps CPU and memory for the container.
		Resources *Resources `json:"resources,omitempty"`

		// StdinOpen keeps STDIN open (docker run -i).
		StdinOpen bool `json:"stdin_open,omitempty"`

		// TTY allocates a pseudo-TTY (docker run -t).
		TTY bool `json:"tty,omitempty"`

		// ShmSize sets the /dev/shm size (e.g. "2gb").
		ShmSize SizeSpec `json:"shm_size,omitempty"`
	}

	// Capsulefile is the parsed descriptor: a mapping of service name to
	// ServiceSpec plus the registry of named volumes. Both are constructed
	// once at load time and immutable thereafter.
	Capsulefile struct {
		Services map[ServiceName]*ServiceSpec `json:"services"`
		Volumes  map[VolumeName]*VolumeSpec   `json:"volumes,omitempty"`

		// FilePath is where the descriptor was loaded from (set by Parse).
		FilePath FilesystemPath `json:"-"`
	}

	// ServiceNotFoundError is returned when a requested service name is not
	// declared in the descriptor.
	ServiceNotFoundError struct {
		Name     ServiceName
		Declared []ServiceName
	}

	// AmbiguousServiceError is returned when no service name was requested
	// and the descriptor declares more than one.
	AmbiguousServiceError struct {
		Declared []ServiceName
	}

	// ValidationError represents a single issue found during descriptor
	// validation. Field is the key path to the offending value
	// (e.g. "services.owl.ports[1]").
	ValidationError struct {
		Field   string
		Message string
	}

	// ValidationErrors is a collection of validation errors that implements
	// the error interface, so a single validation pass can report every
	// issue at once.
	ValidationErrors []ValidationError
)

// ServiceNames returns the declared service names in sorted order.
func (c *Capsulefile) ServiceNames() []ServiceName {
	names := make([]ServiceName, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Service looks up a service by name. An empty name selects the sole
// declared service; with multiple services an explicit name is required.
func (c *Capsulefile) Service(name ServiceName) (ServiceName, *ServiceSpec, error) {
	if len(c.Services) == 0 {
		return "", nil, ErrNoServices
	}
	if name == "" {
		if len(c.Services) > 1 {
			return "", nil, &AmbiguousServiceError{Declared: c.ServiceNames()}
		}
		for n, s := range c.Services {
			return n, s, nil
		}
	}
	svc, ok := c.Services[name]
	if !ok {
		return "", nil, &ServiceNotFoundError{Name: name, Declared: c.ServiceNames()}
	}
	return name, svc, nil
}

// VolumeNames returns the declared named volumes in sorted order.
func (c *Capsulefile) VolumeNames() []VolumeName {
	names := make([]VolumeName, 0, len(c.Volumes))
	for name := range c.Volumes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// HasVolume reports whether the named volume is declared in the registry.
func (c *Capsulefile) HasVolume(name VolumeName) bool {
	_, ok := c.Volumes[name]
	return ok
}

// Validate checks the descriptor's structural invariants and typed fields.
// Semantic checks that need the host environment (port ranges, registry
// lookups for named mounts, resource canonicalization) happen at resolve
// time; this pass only rejects descriptors that are malformed on their face.
func (c *Capsulefile) Validate() ValidationErrors {
	var errs ValidationErrors

	if len(c.Services) == 0 {
		errs = append(errs, ValidationError{Field: "services", Message: "at least one service is required"})
	}

	for _, name := range c.ServiceNames() {
		svc := c.Services[name]
		prefix := fmt.Sprintf("services.%s", name)

		if err := name.Validate(); err != nil {
			errs = append(errs, ValidationError{Field: prefix, Message: err.Error()})
		}
		if svc == nil {
			errs = append(errs, ValidationError{Field: prefix, Message: "service spec must not be empty"})
			continue
		}
		errs = append(errs, svc.validate(prefix)...)
	}

	volNames := make([]VolumeName, 0, len(c.Volumes))
	for name := range c.Volumes {
		volNames = append(volNames, name)
	}
	sort.Slice(volNames, func(i, j int) bool { return volNames[i] < volNames[j] })
	for _, name := range volNames {
		if err := name.Validate(); err != nil {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("volumes.%s", name), Message: err.Error()})
		}
	}

	return errs
}

// validate checks one service's typed fields, prefixing key paths with the
// service's position in the descriptor.
func (s *ServiceSpec) validate(prefix string) ValidationErrors {
	var errs ValidationErrors

	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
	}

	if s.Build == nil && s.Image == "" {
		errs = append(errs, ValidationError{Field: prefix, Message: "either build or image is required"})
	}
	add(prefix+".image", s.Image.Validate())
	if s.Build != nil {
		for _, err := range s.Build.Validate() {
			add(prefix+".build", err)
		}
	}
	for i, v := range s.Volumes {
		add(fmt.Sprintf("%s.volumes[%d]", prefix, i), v.Validate())
	}
	for i, b := range s.Environment {
		add(fmt.Sprintf("%s.environment[%d]", prefix, i), b.Validate())
	}
	for i, f := range s.EnvFiles {
		add(fmt.Sprintf("%s.env_files[%d]", prefix, i), f.Validate())
	}
	for i, p := range s.Ports {
		add(fmt.Sprintf("%s.ports[%d]", prefix, i), p.Validate())
	}
	if limits := s.Resources.GetLimits(); limits != nil {
		add(prefix+".resources.limits.cpus", limits.CPUs.Validate())
		add(prefix+".resources.limits.memory", limits.Memory.Validate())
	}
	add(prefix+".shm_size", s.ShmSize.Validate())

	return errs
}

// Error implements the error interface for ServiceNotFoundError.
func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %q not found (declared: %s)", e.Name, joinServiceNames(e.Declared))
}

// Unwrap returns ErrServiceNotFound for errors.Is() compatibility.
func (e *ServiceNotFoundError) Unwrap() error { return ErrServiceNotFound }

// Error implements the error interface for AmbiguousServiceError.
func (e *AmbiguousServiceError) Error() string {
	return fmt.Sprintf("descriptor declares multiple services (%s); name one explicitly", joinServiceNames(e.Declared))
}

// Unwrap returns ErrAmbiguousService for errors.Is() compatibility.
func (e *AmbiguousServiceError) Unwrap() error { return ErrAmbiguousService }

// Error implements the error interface for a single ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error implements the error interface for ValidationErrors.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("descriptor validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// HasErrors reports whether the collection contains any errors.
func (errs ValidationErrors) HasErrors() bool { return len(errs) > 0 }

func joinServiceNames(names []ServiceName) string {
	strs := make([]string, len(names))
	for i, n := range names {
		strs[i] = string(n)
	}
	return strings.Join(strs, ", ")
}
