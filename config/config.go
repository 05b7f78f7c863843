package config

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-descriptor/embed"
	"github.com/wippyai/wasm-descriptor/errors"
)

// Config holds the settings descgen reads from its configuration file.
// Command line flags override individual fields.
type Config struct {
	// Section is the custom section descriptors are embedded under.
	Section string `yaml:"section"`
	// Package is the package clause of generated Go source.
	Package string `yaml:"package"`
	// Variable names the array in generated Go source.
	Variable string `yaml:"variable"`
	// Version is written into documents. Empty uses the module version.
	Version string `yaml:"version"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level"`
	// Verify compiles embedded modules with wazero after writing them.
	Verify bool `yaml:"verify"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Section:  embed.DefaultSection,
		Package:  "bindings",
		Variable: "descriptor",
		LogLevel: "info",
	}
}

// Load reads a configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read config")
	}
	return Parse(data)
}

// Parse decodes a YAML configuration over the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var result *multierror.Error
	invalid := func(field, format string, args ...any) {
		result = multierror.Append(result, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(field).
			Detail(format, args...).
			Build())
	}

	if strings.TrimSpace(c.Section) == "" {
		invalid("section", "section name is empty")
	}
	if !token.IsIdentifier(c.Package) {
		invalid("package", "%q is not a Go identifier", c.Package)
	}
	if !token.IsIdentifier(c.Variable) {
		invalid("variable", "%q is not a Go identifier", c.Variable)
	}
	if c.Version != "" && !semver.IsValid(CanonicalVersion(c.Version)) {
		invalid("version", "%q is not a semantic version", c.Version)
	}
	if _, err := c.Level(); err != nil {
		invalid("log_level", "%v", err)
	}
	return result.ErrorOrNil()
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.LogLevel)
}

// CanonicalVersion adds the v prefix semver expects.
func CanonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// DocumentVersion is Version as written into documents, without the v
// prefix.
func (c *Config) DocumentVersion() string {
	return strings.TrimPrefix(c.Version, "v")
}

func (c *Config) String() string {
	return fmt.Sprintf("section=%s package=%s variable=%s version=%s verify=%t log_level=%s",
		c.Section, c.Package, c.Variable, c.Version, c.Verify, c.LogLevel)
}
