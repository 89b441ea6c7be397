// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"capsule-cli/pkg/capsulefile"

	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initTemplate string

	// initCmd creates a new capsulefile
	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a new capsulefile in the current directory",
		Long: `Create a new capsulefile in the current directory with an example
service definition to help you get started quickly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing capsulefile")
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "default", "template to use (default, minimal, full)")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := capsulefile.DefaultFileName
	if len(args) > 0 {
		filename = args[0]
	}

	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	// Generate content based on template
	content := generateCapsulefile(initTemplate)

	// Write file
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the capsulefile to describe your service")
	fmt.Println("  2. Run 'capsule validate' to check it")
	fmt.Println("  3. Run 'capsule resolve' to inspect the runtime spec")
	fmt.Println("  4. Run 'capsule up' to build and start the container")

	return nil
}

func generateCapsulefile(template string) string {
	switch template {
	case "minimal":
		return `services: {
	app: {
		image: "alpine:3.20"
		command: "echo 'hello from capsule'"
	}
}
`

	case "full":
		return `services: {
	web: {
		build: {
			context:    "."
			dockerfile: "Dockerfile"
			args: {
				VERSION: "${APP_VERSION}"
			}
			cache_from: ["registry.example.com/web:latest"]
		}
		image:   "web:latest"
		command: "serve --port 8080"
		ports: ["8080:8080", "9090:9090/udp"]
		volumes: [
			"./static:/srv/static:ro",
			"webdata:/var/lib/web",
		]
		environment: [
			"LOG_LEVEL=info",
			"DATABASE_URL=postgres://app:${DB_PASSWORD}@db:5432/app",
			"HOME",
		]
		env_files: [".env", ".env.local?"]
		resources: {
			limits: {
				cpus:   "1.5"
				memory: "512m"
			}
		}
		stdin_open: false
		tty:        false
		shm_size:   "256m"
	}
}

volumes: {
	webdata: {}
}
`

	default: // "default"
		return `services: {
	app: {
		image:   "alpine:3.20"
		command: "echo 'hello from capsule'"
		environment: [
			"GREETING=hello",
		]
		ports: []
	}
}
`
	}
}
