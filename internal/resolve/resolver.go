// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"mvdan.cc/sh/v3/shell"

	"capsule-cli/pkg/capsulefile"
)

// StatFunc probes a filesystem path. Injectable so the build-context
// existence check can be tested without a real directory tree.
type StatFunc func(name string) (fs.FileInfo, error)

type (
	// Option configures a Resolve call.
	Option func(*options)

	options struct {
		strictEnv bool
		stat      StatFunc
		readFile  ReadFileFunc
	}
)

// WithStrictEnv makes an absent "${NAME}" reference a resolution failure
// instead of substituting the empty string.
func WithStrictEnv() Option {
	return func(o *options) { o.strictEnv = true }
}

// WithStatFunc overrides the filesystem probe used for the build-context
// existence check.
func WithStatFunc(fn StatFunc) Option {
	return func(o *options) { o.stat = fn }
}

// WithReadFileFunc overrides the reader used for dotenv files.
func WithReadFileFunc(fn ReadFileFunc) Option {
	return func(o *options) { o.readFile = fn }
}

// Resolve transforms one service of a parsed capsulefile into a RuntimeSpec.
//
// service may be empty when the descriptor declares exactly one service.
// The snapshot is the only source of host environment values; resolution
// never reads the process environment. The pass is all-or-nothing: the first
// failure aborts with a typed error naming the offending field, and no
// partial RuntimeSpec is returned.
func Resolve(cf *capsulefile.Capsulefile, service capsulefile.ServiceName, snap EnvSnapshot, opts ...Option) (*RuntimeSpec, error) {
	o := options{stat: os.Stat, readFile: os.ReadFile}
	for _, opt := range opts {
		opt(&o)
	}

	name, svc, err := cf.Service(service)
	if err != nil {
		return nil, err
	}

	basePath := filepath.Dir(string(cf.FilePath))

	spec := &RuntimeSpec{
		Service:   string(name),
		StdinOpen: svc.StdinOpen,
		TTY:       svc.TTY,
	}

	if spec.Env, err = resolveEnvironment(svc, name, snap, basePath, o); err != nil {
		return nil, err
	}
	if spec.Volumes, err = resolveVolumes(cf, svc, name, basePath); err != nil {
		return nil, err
	}
	if spec.Ports, err = resolvePorts(svc, name); err != nil {
		return nil, err
	}
	if spec.Resources, err = resolveResources(svc, name); err != nil {
		return nil, err
	}
	if spec.ShmSizeBytes, err = resolveShmSize(svc, name); err != nil {
		return nil, err
	}
	if spec.Command, err = resolveCommand(svc, name, snap); err != nil {
		return nil, err
	}
	if spec.Build, err = resolveBuild(svc, name, snap, basePath, o); err != nil {
		return nil, err
	}

	spec.Image = string(svc.Image)
	if spec.Image == "" && spec.Build != nil {
		// A built image with no explicit tag gets a stable derived one.
		spec.Image = fmt.Sprintf("capsule-%s:latest", name)
	}

	return spec, nil
}

// resolveEnvironment assembles the merged environment for a service:
// dotenv file defaults (in file order, host values overriding same-named
// defaults), then inline bindings on top, with "${NAME}" references
// substituted against the snapshot. Declaration order is preserved.
func resolveEnvironment(svc *capsulefile.ServiceSpec, name capsulefile.ServiceName, snap EnvSnapshot, basePath string, o options) ([]EnvVar, error) {
	var fileDefaults []EnvVar
	var err error
	for _, path := range svc.EnvFiles {
		fileDefaults, err = loadEnvFile(fileDefaults, path, basePath, o.readFile)
		if err != nil {
			return nil, err
		}
	}

	// Host environment overrides file-based defaults for same-named keys.
	var hostOverrides []EnvVar
	for _, d := range fileDefaults {
		if v, ok := snap.Lookup(d.Name); ok {
			hostOverrides = append(hostOverrides, EnvVar{Name: d.Name, Value: v})
		}
	}
	env := MergeEnvironment(fileDefaults, hostOverrides)

	for i, binding := range svc.Environment {
		field := fmt.Sprintf("services.%s.environment[%d]", name, i)
		key := string(binding.Key())

		raw, explicit := binding.Value()
		if !explicit {
			// Bare "KEY": pass the host value through. Absent keys follow
			// the same strict/permissive policy as ${KEY} references.
			hostValue, ok := snap.Lookup(key)
			if !ok && o.strictEnv {
				return nil, &UnresolvedEnvReferenceError{
					Service: name,
					Field:   field,
					Name:    key,
					Reason:  "variable not set in host environment",
				}
			}
			env = mergeSet(env, key, hostValue)
			continue
		}

		value, err := substitute(raw, snap, o.strictEnv, name, field)
		if err != nil {
			return nil, err
		}
		env = mergeSet(env, key, value)
	}

	return env, nil
}

// resolveVolumes validates mounts against the volume registry and enforces
// unique container targets. Relative host-path sources are resolved against
// the capsulefile directory.
func resolveVolumes(cf *capsulefile.Capsulefile, svc *capsulefile.ServiceSpec, name capsulefile.ServiceName, basePath string) ([]VolumeBinding, error) {
	var bindings []VolumeBinding
	seenTargets := make(map[string]bool, len(svc.Volumes))

	for i, mount := range svc.Volumes {
		field := fmt.Sprintf("services.%s.volumes[%d]", name, i)
		source := mount.Source()
		target := mount.Target()

		if seenTargets[target] {
			return nil, &DuplicateMountTargetError{Service: name, Field: field, Target: target}
		}
		seenTargets[target] = true

		named := mount.HasNamedSource()
		if named {
			if !cf.HasVolume(capsulefile.VolumeName(source)) {
				return nil, &UndeclaredVolumeError{
					Service: name,
					Field:   field,
					Volume:  capsulefile.VolumeName(source),
				}
			}
		} else if !filepath.IsAbs(source) && !strings.HasPrefix(source, "~") {
			source = filepath.Join(basePath, filepath.FromSlash(source))
		}

		bindings = append(bindings, VolumeBinding{
			Source:   source,
			Target:   target,
			Named:    named,
			ReadOnly: mount.ReadOnly(),
		})
	}

	return bindings, nil
}

// resolvePorts parses "host:container[/protocol]" mappings, requiring both
// sides in 1-65535 and a tcp/udp protocol.
func resolvePorts(svc *capsulefile.ServiceSpec, name capsulefile.ServiceName) ([]PortBinding, error) {
	var bindings []PortBinding

	for i, spec := range svc.Ports {
		field := fmt.Sprintf("services.%s.ports[%d]", name, i)
		binding, err := parsePortMapping(spec)
		if err != nil {
			return nil, &MalformedPortMappingError{Service: name, Field: field, Spec: spec, Reason: err.Error()}
		}
		bindings = append(bindings, binding)
	}

	return bindings, nil
}

// parsePortMapping parses one "host:container[/protocol]" string.
func parsePortMapping(spec capsulefile.PortMappingSpec) (PortBinding, error) {
	s := string(spec)

	protocol := "tcp"
	if mapping, proto, ok := strings.Cut(s, "/"); ok {
		s = mapping
		switch proto {
		case "tcp", "udp":
			protocol = proto
		default:
			return PortBinding{}, fmt.Errorf("protocol must be tcp or udp, got %q", proto)
		}
	}

	hostStr, containerStr, ok := strings.Cut(s, ":")
	if !ok {
		return PortBinding{}, fmt.Errorf("expected host:container format")
	}

	host, err := parsePort(hostStr)
	if err != nil {
		return PortBinding{}, fmt.Errorf("host port: %w", err)
	}
	container, err := parsePort(containerStr)
	if err != nil {
		return PortBinding{}, fmt.Errorf("container port: %w", err)
	}

	return PortBinding{HostPort: host, ContainerPort: container, Protocol: protocol}, nil
}

// parsePort parses one port number, requiring 1-65535.
func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("%d is outside 1-65535", n)
	}
	return uint16(n), nil
}

// resolveResources converts resource limits to canonical units: CPU share to
// nano-CPUs, memory to bytes. Non-positive or unparsable values fail.
func resolveResources(svc *capsulefile.ServiceSpec, name capsulefile.ServiceName) (ResourcePlan, error) {
	var plan ResourcePlan

	limits := svc.Resources.GetLimits()
	if limits == nil {
		return plan, nil
	}

	if limits.CPUs != "" {
		field := fmt.Sprintf("services.%s.resources.limits.cpus", name)
		cpus, err := strconv.ParseFloat(string(limits.CPUs), 64)
		if err != nil || math.IsNaN(cpus) || math.IsInf(cpus, 0) {
			return plan, &InvalidResourceLimitError{
				Service: name, Field: field, Value: string(limits.CPUs),
				Reason: "not a finite decimal number",
			}
		}
		if cpus <= 0 {
			return plan, &InvalidResourceLimitError{
				Service: name, Field: field, Value: string(limits.CPUs),
				Reason: "must be positive",
			}
		}
		// nano-CPUs are an int64; anything at or past the limit would
		// overflow the conversion.
		nano := cpus * 1e9
		if nano >= math.MaxInt64 {
			return plan, &InvalidResourceLimitError{
				Service: name, Field: field, Value: string(limits.CPUs),
				Reason: "too large to represent",
			}
		}
		plan.NanoCPUs = int64(nano)
	}

	if limits.Memory != "" {
		field := fmt.Sprintf("services.%s.resources.limits.memory", name)
		bytes, err := units.RAMInBytes(string(limits.Memory))
		if err != nil {
			return plan, &InvalidResourceLimitError{
				Service: name, Field: field, Value: string(limits.Memory),
				Reason: "not a size (expected forms: \"512m\", \"4G\", \"2gb\")",
			}
		}
		if bytes <= 0 {
			return plan, &InvalidResourceLimitError{
				Service: name, Field: field, Value: string(limits.Memory),
				Reason: "must be positive",
			}
		}
		plan.MemoryBytes = bytes
	}

	return plan, nil
}

// resolveShmSize converts the shm_size string to bytes.
func resolveShmSize(svc *capsulefile.ServiceSpec, name capsulefile.ServiceName) (int64, error) {
	if svc.ShmSize == "" {
		return 0, nil
	}

	field := fmt.Sprintf("services.%s.shm_size", name)
	bytes, err := units.RAMInBytes(string(svc.ShmSize))
	if err != nil {
		return 0, &InvalidResourceLimitError{
			Service: name, Field: field, Value: string(svc.ShmSize),
			Reason: "not a size (expected forms: \"512m\", \"4G\", \"2gb\")",
		}
	}
	if bytes <= 0 {
		return 0, &InvalidResourceLimitError{
			Service: name, Field: field, Value: string(svc.ShmSize),
			Reason: "must be positive",
		}
	}
	return bytes, nil
}

// resolveCommand splits the command override with POSIX shell word rules,
// expanding variable references against the snapshot.
func resolveCommand(svc *capsulefile.ServiceSpec, name capsulefile.ServiceName, snap EnvSnapshot) ([]string, error) {
	if svc.Command == "" {
		return nil, nil
	}

	fields, err := shell.Fields(svc.Command, func(key string) string {
		v, _ := snap.Lookup(key)
		return v
	})
	if err != nil {
		return nil, &MalformedCommandError{Service: name, Command: svc.Command, Cause: err}
	}
	return fields, nil
}

// resolveBuild checks the build context exists, substitutes build args, and
// carries cache sources through untouched (they are advisory; availability
// is the engine's problem).
func resolveBuild(svc *capsulefile.ServiceSpec, name capsulefile.ServiceName, snap EnvSnapshot, basePath string, o options) (*BuildPlan, error) {
	if svc.Build == nil {
		return nil, nil
	}

	contextDir := string(svc.Build.Context)
	if !filepath.IsAbs(contextDir) {
		contextDir = filepath.Join(basePath, filepath.FromSlash(contextDir))
	}
	if _, err := o.stat(contextDir); err != nil {
		return nil, &MissingBuildContextError{Service: name, Context: svc.Build.Context, Cause: err}
	}

	plan := &BuildPlan{
		ContextDir: contextDir,
		Dockerfile: string(svc.Build.Dockerfile),
	}

	argNames := make([]string, 0, len(svc.Build.Args))
	for argName := range svc.Build.Args {
		argNames = append(argNames, string(argName))
	}
	sort.Strings(argNames)
	for _, argName := range argNames {
		field := fmt.Sprintf("services.%s.build.args.%s", name, argName)
		value, err := substitute(svc.Build.Args[capsulefile.EnvVarName(argName)], snap, o.strictEnv, name, field)
		if err != nil {
			return nil, err
		}
		plan.Args = append(plan.Args, BuildArg{Name: argName, Value: value})
	}

	for _, ref := range svc.Build.CacheFrom {
		plan.CacheFrom = append(plan.CacheFrom, string(ref))
	}

	return plan, nil
}
