package literal

import (
	"runtime/debug"

	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
	"github.com/wippyai/wasm-descriptor/internal/alphabet"
)

// DevVersion is reported when the binary carries no module version.
const DevVersion = "0.0.0-dev"

const modulePath = "github.com/wippyai/wasm-descriptor"

// Options configures the collaborators the encoder consults.
type Options struct {
	// NameToDescriptor maps custom type names to descriptors.
	NameToDescriptor func(string) uint32
	// Version is inserted verbatim as the document's version.
	Version string
	// SchemaVersion is inserted verbatim as the document's schema_version.
	SchemaVersion string
}

// DefaultOptions returns the standard collaborators: the module version
// from build info, the current schema version and the xxhash name mapping.
func DefaultOptions() Options {
	return Options{
		NameToDescriptor: descriptor.NameToDescriptor,
		Version:          Version(),
		SchemaVersion:    descriptor.SchemaVersion,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.NameToDescriptor == nil {
		o.NameToDescriptor = def.NameToDescriptor
	}
	if o.Version == "" {
		o.Version = def.Version
	}
	if o.SchemaVersion == "" {
		o.SchemaVersion = def.SchemaVersion
	}
	return o
}

func (o Options) validate() *errors.Error {
	if i := alphabet.Unsafe(o.Version); i >= 0 {
		return errors.UnsafeString(errors.PhaseEncode, []string{"version"}, o.Version, i)
	}
	if i := alphabet.Unsafe(o.SchemaVersion); i >= 0 {
		return errors.UnsafeString(errors.PhaseEncode, []string{"schema_version"}, o.SchemaVersion, i)
	}
	return nil
}

// Version returns the version of this module as recorded in the running
// binary's build info, or DevVersion.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return DevVersion
	}
	return versionFrom(info)
}

func versionFrom(info *debug.BuildInfo) string {
	v := ""
	if info.Main.Path == modulePath {
		v = info.Main.Version
	} else {
		for _, dep := range info.Deps {
			if dep.Path != modulePath {
				continue
			}
			v = dep.Version
			if dep.Replace != nil && dep.Replace.Version != "" {
				v = dep.Replace.Version
			}
			break
		}
	}
	if v == "" || v == "(devel)" {
		return DevVersion
	}
	return v
}
