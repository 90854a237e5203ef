// Package config loads feelgen settings from defaults, an optional YAML
// file, FEELGEN_* environment variables and command line flags, in that
// order of increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/Gobd/feelgen"
	"github.com/Gobd/feelgen/transform"
)

// EnvPrefix prefixes every environment variable the loader reads.
// Nested keys use a double underscore: FEELGEN_LOG__LEVEL.
const EnvPrefix = "FEELGEN_"

// Config is the complete tool configuration.
type Config struct {
	Spec              string   `koanf:"spec" json:"spec"`
	Output            string   `koanf:"output" json:"output"`
	AddResponse       bool     `koanf:"add_response" json:"add_response"`
	SuccessStatusCode int      `koanf:"success_status_code" json:"success_status_code"`
	FailureStatusCode int      `koanf:"failure_status_code" json:"failure_status_code"`
	Methods           []string `koanf:"methods" json:"methods"`
	Format            string   `koanf:"format" json:"format"`
	MaxDepth          int      `koanf:"max_depth" json:"max_depth"`
	Log               Log      `koanf:"log" json:"log"`
	// Targets compiles several documents in one run. When set, Spec and
	// Output may be empty.
	Targets []Target `koanf:"targets" json:"targets"`
}

// Log configures the logger.
type Log struct {
	Level  string `koanf:"level" json:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty"`
}

// Target pairs a document with the file its rules are written to.
type Target struct {
	Spec   string `koanf:"spec" json:"spec"`
	Output string `koanf:"output" json:"output"`
}

// Validate implements validation.Validatable.
func (t Target) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Spec, validation.Required),
		validation.Field(&t.Output, validation.Required),
	)
}

// Sources lists where Load reads configuration from. Every field is optional.
type Sources struct {
	// File is a YAML configuration file. It must exist when set.
	File string
	// Data is inline YAML, applied after File.
	Data []byte
	// Environ returns the environment; os.Environ when nil.
	Environ func() []string
	// Flags holds values of explicitly set command line flags keyed by
	// configuration key.
	Flags map[string]any
}

func defaults() map[string]any {
	opts := feelgen.DefaultOptions()
	return map[string]any{
		"add_response":        opts.AddResponse,
		"success_status_code": opts.SuccessStatusCode,
		"failure_status_code": opts.FailureStatusCode,
		"methods":             opts.HTTPMethods,
		"format":              opts.Format,
		"max_depth":           opts.MaxDepth,
		"log.level":           "info",
		"log.pretty":          false,
	}
}

// Load merges all sources, normalizes and validates the result.
func Load(src Sources) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if src.File != "" {
		if _, err := os.Stat(src.File); err != nil {
			return nil, fmt.Errorf("config file %s: %w", src.File, err)
		}
		if err := k.Load(file.Provider(src.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", src.File, err)
		}
	}

	if len(src.Data) > 0 {
		if err := k.Load(rawbytes.Provider(src.Data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse inline config: %w", err)
		}
	}

	environ := src.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if len(src.Flags) > 0 {
		if err := k.Load(confmap.Provider(src.Flags, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// envKey maps FEELGEN_SUCCESS_STATUS_CODE to success_status_code and
// FEELGEN_LOG__LEVEL to log.level.
func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "__", "."), v
}

func (c *Config) normalize() {
	transform.StructTrimSpace(c)
	var methods []string
	for _, m := range c.Methods {
		methods = append(methods, feelgen.ParseMethods(m)...)
	}
	c.Methods = methods
	c.Format = strings.ToLower(c.Format)
}

// Validate checks the configuration. Spec and Output are required unless
// Targets are given.
func (c *Config) Validate() error {
	single := len(c.Targets) == 0
	err := validation.ValidateStruct(c,
		validation.Field(&c.Spec, validation.When(single, validation.Required)),
		validation.Field(&c.Output, validation.When(single, validation.Required)),
		validation.Field(&c.Targets),
	)
	if err != nil {
		return err
	}
	return c.Options().Validate()
}

// Options converts the configuration into compiler options.
func (c *Config) Options() feelgen.Options {
	return feelgen.Options{
		AddResponse:       c.AddResponse,
		SuccessStatusCode: c.SuccessStatusCode,
		FailureStatusCode: c.FailureStatusCode,
		HTTPMethods:       c.Methods,
		Format:            c.Format,
		MaxDepth:          c.MaxDepth,
	}
}

// AllTargets returns Targets, or the single Spec/Output pair when no
// targets are configured.
func (c *Config) AllTargets() []Target {
	if len(c.Targets) > 0 {
		return c.Targets
	}
	return []Target{{Spec: c.Spec, Output: c.Output}}
}

