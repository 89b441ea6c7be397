// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"capsule-cli/internal/container"
	"capsule-cli/internal/resolve"
)

// fakeEngine records every engine call and returns scripted results.
type fakeEngine struct {
	buildCalls []container.BuildOptions
	buildErrs  []error // consumed per call; nil after exhaustion

	volumeCalls []string
	volumeErr   error

	runCalls  []container.RunOptions
	runResult *container.RunResult
	runErr    error
}

func (f *fakeEngine) Name() string    { return "fake" }
func (f *fakeEngine) Available() bool { return true }

func (f *fakeEngine) Version(ctx context.Context) (string, error) { return "0.0-test", nil }

func (f *fakeEngine) Build(ctx context.Context, opts container.BuildOptions) error {
	f.buildCalls = append(f.buildCalls, opts)
	if len(f.buildErrs) > 0 {
		err := f.buildErrs[0]
		f.buildErrs = f.buildErrs[1:]
		return err
	}
	return nil
}

func (f *fakeEngine) Run(ctx context.Context, opts container.RunOptions) (*container.RunResult, error) {
	f.runCalls = append(f.runCalls, opts)
	if f.runErr != nil {
		return nil, f.runErr
	}
	if f.runResult != nil {
		return f.runResult, nil
	}
	return &container.RunResult{}, nil
}

func (f *fakeEngine) Remove(ctx context.Context, containerID string, force bool) error { return nil }

func (f *fakeEngine) ImageExists(ctx context.Context, image string) (bool, error) { return false, nil }

func (f *fakeEngine) RemoveImage(ctx context.Context, image string, force bool) error { return nil }

func (f *fakeEngine) EnsureVolume(ctx context.Context, name string) error {
	f.volumeCalls = append(f.volumeCalls, name)
	return f.volumeErr
}

func (f *fakeEngine) VolumeExists(ctx context.Context, name string) (bool, error) { return false, nil }

func TestRunner_Up_RunOptionsMapping(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{}
	runner := NewRunner(engine)

	spec := &resolve.RuntimeSpec{
		Service: "web",
		Image:   "web:latest",
		Command: []string{"serve", "--port", "8080"},
		Env: []resolve.EnvVar{
			{Name: "Z_LAST", Value: "z"},
			{Name: "A_FIRST", Value: "a"},
		},
		Volumes: []resolve.VolumeBinding{
			{Source: "/work/static", Target: "/srv/static", ReadOnly: true},
		},
		Ports: []resolve.PortBinding{
			{HostPort: 8080, ContainerPort: 80, Protocol: "tcp"},
		},
		Resources:    resolve.ResourcePlan{NanoCPUs: 1_500_000_000, MemoryBytes: 512 * 1024 * 1024},
		StdinOpen:    true,
		TTY:          true,
		ShmSizeBytes: 64 * 1024 * 1024,
	}

	report, err := runner.Up(context.Background(), spec, UpOptions{Remove: true})
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.ImageBuilt {
		t.Error("ImageBuilt = true, want false without a build plan")
	}
	if len(engine.buildCalls) != 0 {
		t.Errorf("build called %d times, want 0", len(engine.buildCalls))
	}
	if len(engine.runCalls) != 1 {
		t.Fatalf("run called %d times, want 1", len(engine.runCalls))
	}

	run := engine.runCalls[0]
	if run.Image != "web:latest" {
		t.Errorf("Image = %q, want %q", run.Image, "web:latest")
	}
	if run.Name != "capsule-web" {
		t.Errorf("Name = %q, want %q", run.Name, "capsule-web")
	}
	if !reflect.DeepEqual(run.Command, []string{"serve", "--port", "8080"}) {
		t.Errorf("Command = %v", run.Command)
	}
	if want := []string{"Z_LAST=z", "A_FIRST=a"}; !reflect.DeepEqual(run.Env, want) {
		t.Errorf("Env = %v, want declaration order preserved %v", run.Env, want)
	}
	if want := []string{"/work/static:/srv/static:ro"}; !reflect.DeepEqual(run.Volumes, want) {
		t.Errorf("Volumes = %v, want %v", run.Volumes, want)
	}
	if want := []string{"8080:80/tcp"}; !reflect.DeepEqual(run.Ports, want) {
		t.Errorf("Ports = %v, want %v", run.Ports, want)
	}
	if run.NanoCPUs != 1_500_000_000 || run.MemoryBytes != 512*1024*1024 || run.ShmSizeBytes != 64*1024*1024 {
		t.Errorf("limits = %d/%d/%d, want canonical units passed through", run.NanoCPUs, run.MemoryBytes, run.ShmSizeBytes)
	}
	if !run.Remove || !run.Interactive || !run.TTY {
		t.Errorf("Remove/Interactive/TTY = %v/%v/%v, want all true", run.Remove, run.Interactive, run.TTY)
	}
}

func TestRunner_Up_Build(t *testing.T) {
	t.Parallel()

	spec := &resolve.RuntimeSpec{
		Service: "web",
		Image:   "capsule-web:latest",
		Build: &resolve.BuildPlan{
			ContextDir: "/work/app",
			Dockerfile: "Dockerfile",
			Args: []resolve.BuildArg{
				{Name: "BASE", Value: "alpine"},
				{Name: "VERSION", Value: "1.2.3"},
			},
			CacheFrom: []string{"web:prev"},
		},
	}

	t.Run("build options mapped", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		runner := NewRunner(engine)

		report, err := runner.Up(context.Background(), spec, UpOptions{})
		if err != nil {
			t.Fatalf("Up: %v", err)
		}
		if !report.ImageBuilt {
			t.Error("ImageBuilt = false, want true")
		}
		if len(engine.buildCalls) != 1 {
			t.Fatalf("build called %d times, want 1", len(engine.buildCalls))
		}

		build := engine.buildCalls[0]
		if build.ContextDir != "/work/app" || build.Dockerfile != "Dockerfile" {
			t.Errorf("context/dockerfile = %q/%q", build.ContextDir, build.Dockerfile)
		}
		if build.Tag != "capsule-web:latest" {
			t.Errorf("Tag = %q, want the spec image", build.Tag)
		}
		if want := []string{"BASE=alpine", "VERSION=1.2.3"}; !reflect.DeepEqual(build.BuildArgs, want) {
			t.Errorf("BuildArgs = %v, want %v", build.BuildArgs, want)
		}
		if want := []string{"web:prev"}; !reflect.DeepEqual(build.CacheFrom, want) {
			t.Errorf("CacheFrom = %v, want %v", build.CacheFrom, want)
		}
	})

	t.Run("no-cache drops cache sources", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		runner := NewRunner(engine)

		if _, err := runner.Up(context.Background(), spec, UpOptions{NoCache: true}); err != nil {
			t.Fatalf("Up: %v", err)
		}

		build := engine.buildCalls[0]
		if !build.NoCache {
			t.Error("NoCache = false, want true")
		}
		if len(build.CacheFrom) != 0 {
			t.Errorf("CacheFrom = %v, want none with --no-cache", build.CacheFrom)
		}
	})

	t.Run("cache source failure falls back to cacheless build", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{
			buildErrs: []error{errors.New("manifest for web:prev not found")},
		}
		runner := NewRunner(engine)

		report, err := runner.Up(context.Background(), spec, UpOptions{})
		if err != nil {
			t.Fatalf("Up: %v, want cacheless retry to succeed", err)
		}
		if !report.ImageBuilt {
			t.Error("ImageBuilt = false, want true")
		}
		if len(engine.buildCalls) != 2 {
			t.Fatalf("build called %d times, want 2 (with and without cache sources)", len(engine.buildCalls))
		}
		if len(engine.buildCalls[0].CacheFrom) == 0 {
			t.Error("first build carried no cache sources")
		}
		if len(engine.buildCalls[1].CacheFrom) != 0 {
			t.Errorf("retry CacheFrom = %v, want none", engine.buildCalls[1].CacheFrom)
		}
	})

	t.Run("persistent build failure surfaces", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{
			buildErrs: []error{
				errors.New("syntax error in dockerfile"),
				errors.New("syntax error in dockerfile"),
			},
		}
		runner := NewRunner(engine)

		_, err := runner.Up(context.Background(), spec, UpOptions{})
		if err == nil {
			t.Fatal("Up expected error, got nil")
		}
		if !strings.Contains(err.Error(), "image build failed") {
			t.Errorf("error = %v, want build failure", err)
		}
	})
}

func TestRunner_Up_EnsuresNamedVolumes(t *testing.T) {
	t.Parallel()

	spec := &resolve.RuntimeSpec{
		Service: "web",
		Image:   "web:latest",
		Volumes: []resolve.VolumeBinding{
			{Source: "appdata", Target: "/var/lib/app", Named: true},
			{Source: "/work/static", Target: "/srv/static"},
			{Source: "cache", Target: "/var/cache/app", Named: true},
		},
	}

	t.Run("named volumes only, in mount order", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		runner := NewRunner(engine)

		report, err := runner.Up(context.Background(), spec, UpOptions{})
		if err != nil {
			t.Fatalf("Up: %v", err)
		}
		want := []string{"appdata", "cache"}
		if !reflect.DeepEqual(engine.volumeCalls, want) {
			t.Errorf("EnsureVolume calls = %v, want %v", engine.volumeCalls, want)
		}
		if !reflect.DeepEqual(report.VolumesEnsured, want) {
			t.Errorf("VolumesEnsured = %v, want %v", report.VolumesEnsured, want)
		}
	})

	t.Run("volume failure aborts before run", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{volumeErr: errors.New("volume store locked")}
		runner := NewRunner(engine)

		_, err := runner.Up(context.Background(), spec, UpOptions{})
		if err == nil {
			t.Fatal("Up expected error, got nil")
		}
		if len(engine.runCalls) != 0 {
			t.Errorf("run called %d times, want 0 after volume failure", len(engine.runCalls))
		}
	})
}

func TestRunner_Up_ExitCode(t *testing.T) {
	t.Parallel()

	t.Run("container exit code carried in report", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{runResult: &container.RunResult{ExitCode: 42}}
		runner := NewRunner(engine)

		report, err := runner.Up(context.Background(), &resolve.RuntimeSpec{Service: "web", Image: "a"}, UpOptions{})
		if err != nil {
			t.Fatalf("Up: %v, a non-zero container exit is not a runner error", err)
		}
		if report.ExitCode != 42 {
			t.Errorf("ExitCode = %d, want 42", report.ExitCode)
		}
	})

	t.Run("engine-level run failure is an error", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{
			runResult: &container.RunResult{ExitCode: 1, Error: errors.New("cannot connect to daemon")},
		}
		runner := NewRunner(engine)

		_, err := runner.Up(context.Background(), &resolve.RuntimeSpec{Service: "web", Image: "a"}, UpOptions{})
		if err == nil || !strings.Contains(err.Error(), "container run failed") {
			t.Errorf("error = %v, want wrapped engine failure", err)
		}
	})
}
