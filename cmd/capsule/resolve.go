// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"capsule-cli/internal/config"
	"capsule-cli/internal/issue"
	"capsule-cli/internal/resolve"
	"capsule-cli/pkg/capsulefile"

	"github.com/spf13/cobra"
)

var (
	resolveFile      string
	resolveOutput    string
	resolveStrictEnv bool

	// resolveCmd resolves a service descriptor and prints the runtime spec
	resolveCmd = &cobra.Command{
		Use:   "resolve [service]",
		Short: "Resolve a service into a concrete runtime specification",
		Long: `Resolve a service declared in the capsulefile into a fully concrete
runtime specification and print it.

Resolution substitutes ${VAR} references from the host environment,
merges env_files with inline bindings (host values override file
defaults), validates port mappings and resource limits, and checks
that every named volume mount is declared.

The service argument may be omitted when the capsulefile declares
exactly one service.

The output is deterministic: resolving the same capsulefile against the
same environment always produces byte-identical output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolve,
	}
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveFile, "file", "f", "", "path to the capsulefile (default ./"+capsulefile.DefaultFileName+")")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "output format: json or toml (default from config)")
	resolveCmd.Flags().BoolVar(&resolveStrictEnv, "strict-env", false, "fail on unresolved ${VAR} references")
}

func runResolve(cmd *cobra.Command, args []string) error {
	var service capsulefile.ServiceName
	if len(args) > 0 {
		service = capsulefile.ServiceName(args[0])
	}

	strict := resolveStrictEnv
	if !cmd.Flags().Changed("strict-env") {
		strict = strictEnvDefault()
	}

	spec, err := resolveService(resolveFile, service, strict)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return wrapExit(err)
	}

	var out []byte
	switch format {
	case config.OutputTOML:
		out, err = spec.EncodeTOML()
	default:
		out, err = spec.EncodeJSON()
	}
	if err != nil {
		return wrapExit(err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

// resolveService loads the capsulefile at file and resolves the named
// service against the current host environment. Shared by resolve and up.
func resolveService(file string, service capsulefile.ServiceName, strictEnv bool) (*resolve.RuntimeSpec, error) {
	cf, err := loadCapsulefile(file)
	if err != nil {
		return nil, err
	}

	var opts []resolve.Option
	if strictEnv {
		opts = append(opts, resolve.WithStrictEnv())
	}

	spec, err := resolve.Resolve(cf, service, resolve.Snapshot(), opts...)
	if err != nil {
		return nil, wrapExit(err)
	}
	return spec, nil
}

// loadCapsulefile parses and validates the descriptor at path (or the
// default file name in the current directory when path is empty).
func loadCapsulefile(path string) (*capsulefile.Capsulefile, error) {
	if path == "" {
		path = capsulefile.DefaultFileName
	}

	if _, err := os.Stat(path); err != nil {
		if verbose {
			rendered, renderErr := issue.Get(issue.CapsulefileNotFoundId).Render(colorScheme())
			if renderErr == nil {
				fmt.Fprint(os.Stderr, rendered)
			}
		}
		return nil, &ExitError{
			Code: ExitParseError,
			Err:  fmt.Errorf("capsulefile not found: %s", path),
		}
	}

	cf, err := capsulefile.Parse(capsulefile.FilesystemPath(path))
	if err != nil {
		return nil, &ExitError{Code: ExitParseError, Err: err}
	}

	if errs := cf.Validate(); errs.HasErrors() {
		return nil, &ExitError{Code: ExitParseError, Err: errs}
	}

	return cf, nil
}

// strictEnvDefault returns the strict-env setting from config, applied when
// the command line does not pass the flag explicitly.
func strictEnvDefault() bool {
	if cfg, err := config.Load(); err == nil && cfg != nil {
		return cfg.StrictEnv
	}
	return false
}

// outputFormat merges the --output flag with the config default.
func outputFormat(cmd *cobra.Command) (config.OutputFormat, error) {
	if cmd.Flags().Changed("output") {
		format := config.OutputFormat(resolveOutput)
		if valid, errs := format.IsValid(); !valid {
			return "", errs[0]
		}
		return format, nil
	}
	if cfg, err := config.Load(); err == nil && cfg != nil {
		return cfg.Output, nil
	}
	return config.OutputJSON, nil
}

// colorScheme returns the configured glamour style for markdown rendering.
func colorScheme() string {
	if cfg, err := config.Load(); err == nil && cfg != nil {
		switch cfg.UI.ColorScheme {
		case config.ColorSchemeLight:
			return "light"
		case config.ColorSchemeDark:
			return "dark"
		}
	}
	return "auto"
}
