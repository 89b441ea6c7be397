// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"capsule-cli/pkg/capsulefile"

	"github.com/spf13/cobra"
)

var (
	validateFile string

	// validateCmd checks a capsulefile without resolving it
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the capsulefile and list its services",
		Long: `Validate the capsulefile against its schema and structural rules
without resolving anything: no environment substitution, no filesystem
checks, no engine interaction.

On success the declared services and named volumes are listed.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
)

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "path to the capsulefile (default ./"+capsulefile.DefaultFileName+")")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cf, err := loadCapsulefile(validateFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s is valid\n", SuccessStyle.Render("✓"), cf.FilePath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, SubtitleStyle.Render("Services:"))
	for _, name := range cf.ServiceNames() {
		svc := cf.Services[name]
		switch {
		case svc.Build != nil && svc.Image != "":
			fmt.Fprintf(out, "  %s  (build: %s, tag: %s)\n", CmdStyle.Render(string(name)), svc.Build.Context, svc.Image)
		case svc.Build != nil:
			fmt.Fprintf(out, "  %s  (build: %s)\n", CmdStyle.Render(string(name)), svc.Build.Context)
		default:
			fmt.Fprintf(out, "  %s  (image: %s)\n", CmdStyle.Render(string(name)), svc.Image)
		}
	}

	if len(cf.Volumes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, SubtitleStyle.Render("Named volumes:"))
		for _, name := range cf.VolumeNames() {
			fmt.Fprintf(out, "  %s\n", CmdStyle.Render(string(name)))
		}
	}

	return nil
}
