// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CapsulefileNotFoundId Id = iota + 1
	CapsulefileParseErrorId
	ServiceNotFoundId
	UndeclaredVolumeId
	MalformedPortMappingId
	InvalidResourceLimitId
	UnresolvedEnvReferenceId
	ContainerEngineNotFoundId
	BuildContextNotFoundId
	EnvFileNotFoundId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	capsulefileNotFoundIssue = &Issue{
		id: CapsulefileNotFoundId,
		mdMsg: `
# No capsulefile found!

We searched for a capsulefile but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The path given via --file
2. capsulefile.cue in the current directory

## Things you can try:
- Create a starter capsulefile in your current directory:
~~~
$ capsule init
~~~

- Or point capsule at an existing one:
~~~
$ capsule resolve --file /path/to/capsulefile.cue
~~~

## Example capsulefile structure:
~~~cue
services: {
	web: {
		image: "nginx:1.27"
		ports: ["8080:80"]
	}
}
~~~`,
	}

	capsulefileParseErrorIssue = &Issue{
		id: CapsulefileParseErrorId,
		mdMsg: `
# Failed to parse capsulefile!

Your capsulefile contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Invalid values for known fields
- A service with neither an image nor a build section

## Things you can try:
- Check the error message above for the specific line/column
- Validate your CUE syntax using the cue command-line tool
- Run with verbose mode for more details:
~~~
$ capsule --verbose validate
~~~

## Example of a valid service definition:
~~~cue
services: {
	db: {
		image: "postgres:16"
		environment: ["POSTGRES_DB=app", "POSTGRES_PASSWORD=${DB_PASSWORD}"]
		volumes: ["pgdata:/var/lib/postgresql/data"]
	}
}

volumes: {
	pgdata: {}
}
~~~`,
	}

	serviceNotFoundIssue = &Issue{
		id: ServiceNotFoundId,
		mdMsg: `
# Service not found!

The service you specified is not defined in the capsulefile.

## Things you can try:
- List the services the capsulefile defines:
~~~
$ capsule validate
~~~

- Check for typos in the service name
- Omit the service name when the capsulefile defines exactly one service`,
	}

	undeclaredVolumeIssue = &Issue{
		id: UndeclaredVolumeId,
		mdMsg: `
# Undeclared named volume!

A service mounts a named volume that is not declared in the top-level
volumes section. Named volumes must be declared before use so their
lifecycle is explicit.

## Example fix:
~~~cue
services: {
	db: {
		image: "postgres:16"
		volumes: ["pgdata:/var/lib/postgresql/data"]
	}
}

volumes: {
	pgdata: {}  // declare the volume here
}
~~~

Host path mounts (starting with ` + "`/`" + `, ` + "`./`" + `, ` + "`../`" + `, or ` + "`~`" + `) need no declaration.`,
	}

	malformedPortMappingIssue = &Issue{
		id: MalformedPortMappingId,
		mdMsg: `
# Malformed port mapping!

Port mappings must have the form HOST:CONTAINER with an optional
protocol suffix, where both ports are integers between 1 and 65535.

## Valid examples:
~~~cue
ports: ["8080:80", "5432:5432", "5000:5000/udp"]
~~~

## Common mistakes:
- A single port with no colon ("8080")
- Port 0 or ports above 65535
- Non-numeric ports ("http:80")`,
	}

	invalidResourceLimitIssue = &Issue{
		id: InvalidResourceLimitId,
		mdMsg: `
# Invalid resource limit!

CPU and memory limits must be positive and well-formed.

## Valid examples:
~~~cue
resources: {
	limits: {
		cpus:   "1.5"
		memory: "4G"
	}
}
~~~

- cpus is a decimal number of CPU cores (fractions allowed)
- memory accepts an integer with an optional unit suffix: b, k, m, g
  (binary multiples: 4G means 4 * 1024^3 bytes)`,
	}

	unresolvedEnvReferenceIssue = &Issue{
		id: UnresolvedEnvReferenceId,
		mdMsg: `
# Unresolved environment reference!

Strict mode is enabled and a ${VAR} reference points at a variable that
is defined neither in the host environment nor in any env_file.

## Things you can try:
- Export the variable before running capsule:
~~~
$ export DB_PASSWORD=secret
~~~

- Add the variable to an env_file referenced by the service
- Disable strict mode to substitute the empty string instead:
~~~
$ capsule resolve --strict-env=false
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

No usable container engine is available on this system.

## Supported container engines:
- **Docker**
- **Podman** (recommended for rootless containers)

## Things you can try:
- Install Docker:
  - https://docs.docker.com/get-docker/

- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
  - Windows: Download from https://podman.io

- Configure your preferred engine in ~/.config/capsule/config.cue:
~~~cue
container_engine: "podman"  // or "docker", "auto"
~~~`,
	}

	buildContextNotFoundIssue = &Issue{
		id: BuildContextNotFoundId,
		mdMsg: `
# Build context not found!

A service declares a build section but its context directory does not
exist on disk.

## Things you can try:
- Check the context path in the capsulefile (relative paths are resolved
  against the capsulefile's directory):
~~~cue
services: {
	web: {
		build: {
			context: "./web"
		}
	}
}
~~~

- Create the directory, or switch the service to a pre-built image:
~~~cue
services: {
	web: {
		image: "nginx:1.27"
	}
}
~~~`,
	}

	envFileNotFoundIssue = &Issue{
		id: EnvFileNotFoundId,
		mdMsg: `
# Env file not found!

A service references an env_file that does not exist.

## Things you can try:
- Create the file, or fix the path in the capsulefile
- Mark the file optional with a trailing ` + "`?`" + ` so a missing file is
  skipped instead of failing resolution:
~~~cue
services: {
	web: {
		env_files: [".env", ".env.local?"]
	}
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the capsule configuration file.

## Configuration file locations:
- Linux: ~/.config/capsule/config.cue
- macOS: ~/Library/Application Support/capsule/config.cue
- Windows: %APPDATA%\capsule\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ capsule config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/capsule/config.cue
~~~

## Example configuration:
~~~cue
container_engine: "docker"
strict_env: false
output: "json"

ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Trying to write to a protected directory
- Container engine requires elevated permissions

## Things you can try:
- Check file/directory permissions
- For containers, ensure you're in the docker/podman group:
~~~
$ sudo usermod -aG docker $USER
~~~

- Use rootless containers with Podman
- Run capsule from a directory you own`,
	}

	issues = map[Id]*Issue{
		capsulefileNotFoundIssue.Id():     capsulefileNotFoundIssue,
		capsulefileParseErrorIssue.Id():   capsulefileParseErrorIssue,
		serviceNotFoundIssue.Id():         serviceNotFoundIssue,
		undeclaredVolumeIssue.Id():        undeclaredVolumeIssue,
		malformedPortMappingIssue.Id():    malformedPortMappingIssue,
		invalidResourceLimitIssue.Id():    invalidResourceLimitIssue,
		unresolvedEnvReferenceIssue.Id():  unresolvedEnvReferenceIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		buildContextNotFoundIssue.Id():    buildContextNotFoundIssue,
		envFileNotFoundIssue.Id():         envFileNotFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
