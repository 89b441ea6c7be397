// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"capsule-cli/internal/container"
	"capsule-cli/internal/resolve"
)

const (
	// buildMaxAttempts bounds retries of transient engine build failures.
	buildMaxAttempts = 3
	// buildBaseBackoff is the initial delay between build retries.
	buildBaseBackoff = 2 * time.Second
)

type (
	// Runner executes resolved runtime specs against a container engine.
	Runner struct {
		engine container.Engine
		logger *log.Logger
	}

	// UpOptions configures a single Up invocation.
	UpOptions struct {
		// Remove removes the container after exit (docker run --rm).
		Remove bool
		// NoCache disables the image build cache entirely.
		NoCache bool
		// Stdin, Stdout, Stderr are the container's standard streams.
		// Nil values default to the process's own streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// RunReport describes what an Up invocation did.
	RunReport struct {
		// ImageBuilt is true when an image build was performed.
		ImageBuilt bool
		// VolumesEnsured lists the named volumes that were provisioned
		// (or confirmed to exist), in mount declaration order.
		VolumesEnsured []string
		// ExitCode is the container's exit code.
		ExitCode ExitCode
	}
)

// NewRunner creates a Runner for the given engine.
func NewRunner(engine container.Engine) *Runner {
	return &Runner{
		engine: engine,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "capsule"}),
	}
}

// Up takes a resolved spec end to end: build the image if the spec carries a
// build plan, ensure the named volumes it mounts, then run the container to
// completion. The returned report carries the container's exit code; a
// non-zero code is not an error here — propagating it is the CLI's job.
func (r *Runner) Up(ctx context.Context, spec *resolve.RuntimeSpec, opts UpOptions) (*RunReport, error) {
	report := &RunReport{}

	if spec.Build != nil {
		if err := r.buildImage(ctx, spec, opts.NoCache, opts.Stdout, opts.Stderr); err != nil {
			return nil, err
		}
		report.ImageBuilt = true
	}

	ensured, err := r.ensureVolumes(ctx, spec)
	if err != nil {
		return nil, err
	}
	report.VolumesEnsured = ensured

	result, err := r.runContainer(ctx, spec, opts)
	if err != nil {
		return nil, err
	}
	report.ExitCode = ExitCode(result.ExitCode)

	return report, nil
}

// buildImage builds the spec's image. Cache sources are advisory: when a
// build with --cache-from fails, the build is retried once without them
// before giving up. Transient engine failures are retried with backoff.
func (r *Runner) buildImage(ctx context.Context, spec *resolve.RuntimeSpec, noCache bool, stdout, stderr io.Writer) error {
	buildOpts := container.BuildOptions{
		ContextDir: spec.Build.ContextDir,
		Dockerfile: spec.Build.Dockerfile,
		Tag:        spec.Image,
		NoCache:    noCache,
		Stdout:     stdout,
		Stderr:     stderr,
	}
	for _, arg := range spec.Build.Args {
		buildOpts.BuildArgs = append(buildOpts.BuildArgs, arg.Name+"="+arg.Value)
	}
	if !noCache {
		buildOpts.CacheFrom = spec.Build.CacheFrom
	}

	r.logger.Debug("building image", "tag", buildOpts.Tag, "context", buildOpts.ContextDir)

	err := container.RetryWithBackoff(ctx, buildMaxAttempts, buildBaseBackoff, func(attempt int) (bool, error) {
		if attempt > 0 {
			r.logger.Warn("retrying image build", "attempt", attempt+1)
		}
		buildErr := r.engine.Build(ctx, buildOpts)
		return container.IsTransientError(buildErr), buildErr
	})
	if err == nil {
		return nil
	}

	if len(buildOpts.CacheFrom) > 0 {
		// An unavailable cache source must never fail the build.
		r.logger.Warn("build with cache sources failed; retrying without them", "error", err)
		buildOpts.CacheFrom = nil
		if retryErr := r.engine.Build(ctx, buildOpts); retryErr == nil {
			return nil
		}
	}

	return fmt.Errorf("image build failed: %w", err)
}

// ensureVolumes provisions every named volume the spec mounts. Creation is
// idempotent; existing volumes (and the data in them) are left untouched.
func (r *Runner) ensureVolumes(ctx context.Context, spec *resolve.RuntimeSpec) ([]string, error) {
	var ensured []string
	for _, v := range spec.Volumes {
		if !v.Named {
			continue
		}
		r.logger.Debug("ensuring volume", "name", v.Source)
		if err := r.engine.EnsureVolume(ctx, v.Source); err != nil {
			return nil, err
		}
		ensured = append(ensured, v.Source)
	}
	return ensured, nil
}

// runContainer translates the spec into engine run options and executes it.
func (r *Runner) runContainer(ctx context.Context, spec *resolve.RuntimeSpec, opts UpOptions) (*container.RunResult, error) {
	runOpts := container.RunOptions{
		Image:        spec.Image,
		Command:      spec.Command,
		NanoCPUs:     spec.Resources.NanoCPUs,
		MemoryBytes:  spec.Resources.MemoryBytes,
		ShmSizeBytes: spec.ShmSizeBytes,
		Remove:       opts.Remove,
		Name:         "capsule-" + spec.Service,
		Interactive:  spec.StdinOpen,
		TTY:          spec.TTY,
		Stdin:        opts.Stdin,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
	}
	if runOpts.Stdin == nil && spec.StdinOpen {
		runOpts.Stdin = os.Stdin
	}
	if runOpts.Stdout == nil {
		runOpts.Stdout = os.Stdout
	}
	if runOpts.Stderr == nil {
		runOpts.Stderr = os.Stderr
	}

	for _, e := range spec.Env {
		runOpts.Env = append(runOpts.Env, e.Name+"="+e.Value)
	}
	for _, v := range spec.Volumes {
		runOpts.Volumes = append(runOpts.Volumes, v.EngineSpec())
	}
	for _, p := range spec.Ports {
		runOpts.Ports = append(runOpts.Ports, p.EngineSpec())
	}

	r.logger.Debug("running container", "image", spec.Image, "name", runOpts.Name)

	result, err := r.engine.Run(ctx, runOpts)
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("container run failed: %w", result.Error)
	}
	return result, nil
}
