// SPDX-License-Identifier: MPL-2.0

package capsulefile

// BuildSpec describes how a service image is built: the build context, an
// optional dockerfile path (relative to the context), build-time variables,
// and an ordered list of advisory cache source images. Cache sources are
// consulted to speed up image construction; an unavailable cache source must
// never fail the build.
type BuildSpec struct {
	// Context is the build context directory. Relative paths are resolved
	// against the capsulefile location. Must exist at resolve time.
	Context FilesystemPath `json:"context"`

	// Dockerfile is the dockerfile path relative to Context (optional;
	// the engine default applies when empty).
	Dockerfile FilesystemPath `json:"dockerfile,omitempty"`

	// Args maps build-arg names to values. Values may embed "${NAME}"
	// references resolved against the host environment snapshot.
	Args map[EnvVarName]string `json:"args,omitempty"`

	// CacheFrom lists advisory prior build images, in priority order.
	CacheFrom []ImageRef `json:"cache_from,omitempty"`
}

// Validate returns the validation errors for the BuildSpec's typed fields.
// Context existence is checked at resolve time, not here.
func (b *BuildSpec) Validate() []error {
	var errs []error
	if err := b.Context.Validate(); err != nil {
		errs = append(errs, err)
	}
	for name := range b.Args {
		if err := name.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ref := range b.CacheFrom {
		if ref == "" {
			errs = append(errs, &InvalidImageRefError{Value: ref})
			continue
		}
		if err := ref.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
