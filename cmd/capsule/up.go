// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"capsule-cli/internal/config"
	"capsule-cli/internal/container"
	"capsule-cli/internal/issue"
	"capsule-cli/internal/runtime"
	"capsule-cli/pkg/capsulefile"

	"github.com/spf13/cobra"
)

var (
	upFile      string
	upStrictEnv bool
	upNoCache   bool
	upKeep      bool
	upEngine    string

	// upCmd resolves a service and runs it with the configured engine
	upCmd = &cobra.Command{
		Use:   "up [service]",
		Short: "Resolve a service and run it",
		Long: `Resolve a service into a runtime specification, then take it end to
end: build the image when the service declares a build section, create
any named volumes the service mounts (idempotently; existing volumes and
their data are never touched), and run the container to completion.

The container's exit code becomes capsule's exit code, so 'capsule up'
composes with scripts and CI the same way a direct 'docker run' would.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUp,
	}
)

func init() {
	upCmd.Flags().StringVarP(&upFile, "file", "f", "", "path to the capsulefile (default ./"+capsulefile.DefaultFileName+")")
	upCmd.Flags().BoolVar(&upStrictEnv, "strict-env", false, "fail on unresolved ${VAR} references")
	upCmd.Flags().BoolVar(&upNoCache, "no-cache", false, "disable the image build cache")
	upCmd.Flags().BoolVar(&upKeep, "keep", false, "keep the container after exit (skip --rm)")
	upCmd.Flags().StringVar(&upEngine, "engine", "", "container engine: docker, podman, or auto (default from config)")
}

func runUp(cmd *cobra.Command, args []string) error {
	var service capsulefile.ServiceName
	if len(args) > 0 {
		service = capsulefile.ServiceName(args[0])
	}

	strict := upStrictEnv
	if !cmd.Flags().Changed("strict-env") {
		strict = strictEnvDefault()
	}

	spec, err := resolveService(upFile, service, strict)
	if err != nil {
		return err
	}

	engine, err := selectEngine(cmd)
	if err != nil {
		if verbose {
			rendered, renderErr := issue.Get(issue.ContainerEngineNotFoundId).Render(colorScheme())
			if renderErr == nil {
				fmt.Fprint(os.Stderr, rendered)
			}
		}
		return wrapExit(err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%s using engine %s\n", SubtitleStyle.Render("→"), engine.Name())
	}

	runner := runtime.NewRunner(engine)
	report, err := runner.Up(cmd.Context(), spec, runtime.UpOptions{
		Remove:  !upKeep,
		NoCache: upNoCache,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return wrapExit(err)
	}

	// Propagate the container's exit code as our own.
	if !report.ExitCode.IsSuccess() {
		return &ExitError{Code: int(report.ExitCode)}
	}
	return nil
}

// selectEngine picks the container engine from the --engine flag or config.
// A configured engine_binary overrides PATH lookup for the chosen engine.
func selectEngine(cmd *cobra.Command) (container.Engine, error) {
	choice := config.ContainerEngineAuto
	var binary config.EngineBinaryPath

	cfg, cfgErr := config.Load()
	if cfgErr == nil && cfg != nil {
		choice = cfg.ContainerEngine
		binary = cfg.EngineBinary
	}
	if cmd.Flags().Changed("engine") {
		engine := config.ContainerEngine(upEngine)
		if valid, errs := engine.IsValid(); !valid {
			return nil, errs[0]
		}
		choice = engine
	}

	if binary != "" {
		switch choice {
		case config.ContainerEnginePodman:
			engine := container.NewPodmanEngine(container.WithBinaryPath(binary.String()))
			if !engine.Available() {
				return nil, &container.ErrEngineNotAvailable{Engine: "podman", Reason: "configured engine_binary is not usable: " + binary.String()}
			}
			return engine, nil
		default:
			engine := container.NewDockerEngine(container.WithBinaryPath(binary.String()))
			if !engine.Available() {
				return nil, &container.ErrEngineNotAvailable{Engine: "docker", Reason: "configured engine_binary is not usable: " + binary.String()}
			}
			return engine, nil
		}
	}

	switch choice {
	case config.ContainerEngineDocker:
		return container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		return container.NewEngine(container.EngineTypePodman)
	default:
		return container.AutoDetectEngine()
	}
}
