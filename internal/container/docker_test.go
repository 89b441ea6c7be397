// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"os/exec"
	"reflect"
	"testing"
)

// recordingExec records every command the engine would run and substitutes a
// harmless one in its place.
func recordingExec(t *testing.T, calls *[][]string, replacement ...string) ExecCommandFunc {
	t.Helper()
	if len(replacement) == 0 {
		replacement = []string{"true"}
	}
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		*calls = append(*calls, append([]string{name}, arg...))
		return exec.CommandContext(ctx, replacement[0], replacement[1:]...)
	}
}

func TestDockerEngine_Name(t *testing.T) {
	t.Parallel()

	e := NewDockerEngine(WithBinaryPath("/usr/bin/docker"))
	if e.Name() != "docker" {
		t.Errorf("Name() = %q, want %q", e.Name(), "docker")
	}
}

func TestDockerEngine_AvailableWithoutBinary(t *testing.T) {
	t.Parallel()

	e := NewDockerEngine(WithBinaryPath(""))
	if e.Available() {
		t.Error("Available() = true, want false with no binary path")
	}
}

func TestDockerEngine_Build(t *testing.T) {
	t.Parallel()

	var calls [][]string
	e := NewDockerEngine(
		WithBinaryPath("/usr/bin/docker"),
		WithExecCommand(recordingExec(t, &calls)),
	)

	err := e.Build(context.Background(), BuildOptions{
		ContextDir: "/work/app",
		Tag:        "web:latest",
		BuildArgs:  []string{"VERSION=1.2.3"},
		CacheFrom:  []string{"web:prev"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := [][]string{{
		"/usr/bin/docker", "build",
		"-t", "web:latest",
		"--build-arg", "VERSION=1.2.3",
		"--cache-from", "web:prev",
		"/work/app",
	}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("commands = %v, want %v", calls, want)
	}
}

func TestDockerEngine_BuildFailure(t *testing.T) {
	t.Parallel()

	var calls [][]string
	e := NewDockerEngine(
		WithBinaryPath("/usr/bin/docker"),
		WithExecCommand(recordingExec(t, &calls, "false")),
	)

	err := e.Build(context.Background(), BuildOptions{ContextDir: "/work/app", Tag: "web:latest"})
	if err == nil {
		t.Fatal("Build expected error, got nil")
	}
}

func TestDockerEngine_Run(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var calls [][]string
		e := NewDockerEngine(
			WithBinaryPath("/usr/bin/docker"),
			WithExecCommand(recordingExec(t, &calls)),
		)

		result, err := e.Run(context.Background(), RunOptions{Image: "alpine:3.20", Remove: true})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.ExitCode != 0 || result.Error != nil {
			t.Errorf("result = %+v, want exit 0 and no error", result)
		}

		want := [][]string{{"/usr/bin/docker", "run", "--rm", "alpine:3.20"}}
		if !reflect.DeepEqual(calls, want) {
			t.Errorf("commands = %v, want %v", calls, want)
		}
	})

	t.Run("non-zero exit propagates", func(t *testing.T) {
		t.Parallel()

		var calls [][]string
		e := NewDockerEngine(
			WithBinaryPath("/usr/bin/docker"),
			WithExecCommand(recordingExec(t, &calls, "sh", "-c", "exit 42")),
		)

		result, err := e.Run(context.Background(), RunOptions{Image: "alpine:3.20"})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.ExitCode != 42 {
			t.Errorf("ExitCode = %d, want 42", result.ExitCode)
		}
		if result.Error != nil {
			t.Errorf("Error = %v, want nil for a plain exit status", result.Error)
		}
	})
}

func TestDockerEngine_EnsureVolume(t *testing.T) {
	t.Parallel()

	var calls [][]string
	e := NewDockerEngine(
		WithBinaryPath("/usr/bin/docker"),
		WithExecCommand(recordingExec(t, &calls)),
	)

	if err := e.EnsureVolume(context.Background(), "appdata"); err != nil {
		t.Fatalf("EnsureVolume: %v", err)
	}

	// docker volume create is idempotent for an existing name, so a single
	// unconditional create is enough.
	want := [][]string{{"/usr/bin/docker", "volume", "create", "appdata"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("commands = %v, want %v", calls, want)
	}
}

func TestDockerEngine_Remove(t *testing.T) {
	t.Parallel()

	var calls [][]string
	e := NewDockerEngine(
		WithBinaryPath("/usr/bin/docker"),
		WithExecCommand(recordingExec(t, &calls)),
	)

	if err := e.Remove(context.Background(), "capsule-web", true); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	want := [][]string{{"/usr/bin/docker", "rm", "-f", "capsule-web"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("commands = %v, want %v", calls, want)
	}
}
