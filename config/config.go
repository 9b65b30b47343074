// Package config loads GenerationConfig, the Options-style struct the
// generator is driven by (SPEC_FULL.md §2's Configuration section, grounded
// on the teacher's Options in file.go). Two decode paths are wired, per
// SPEC_FULL.md §3's domain-stack table: viper (a config file layered with
// CORDL_-prefixed environment variables) for the common case, and a direct
// BurntSushi/toml decode for a single override file with no layering.
package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// GenerationConfig is the top-level configuration every generation run is
// parameterized by.
type GenerationConfig struct {
	// PointerSize is the target architecture's pointer width in bytes (4 or
	// 8); defaults to 8 when unset.
	PointerSize uint32 `mapstructure:"pointer_size" toml:"pointer_size"`

	// PrefixScopeRoot causes every rendered namespace to carry a leading
	// `::` scope-root qualifier (spec.md §4.A).
	PrefixScopeRoot bool `mapstructure:"prefix_scope_root" toml:"prefix_scope_root"`

	// OutputDir is where headers/impl files are written.
	OutputDir string `mapstructure:"output_dir" toml:"output_dir"`

	// NativeTypeNames maps well-known (namespace, name) pairs, keyed as
	// "Namespace.Name", to a rendered-name override. The map is decoded from
	// the configuration, but no part of the generator reads it: rendered
	// names are never overridden by it.
	NativeTypeNames map[string]string `mapstructure:"native_type_names" toml:"native_type_names"`

	// Blacklist lists fully-qualified "Namespace.Name" type definitions the
	// generator should skip entirely.
	Blacklist []string `mapstructure:"blacklist" toml:"blacklist"`
}

// Default returns the documented zero-value defaults, the same "defaults
// applied when a field is the zero value" pattern the teacher's Options
// uses in file.go.
func Default() *GenerationConfig {
	return &GenerationConfig{
		PointerSize: 8,
		OutputDir:   "out",
	}
}

// applyDefaults fills any zero-valued field of cfg with Default()'s value.
func applyDefaults(cfg *GenerationConfig) {
	d := Default()
	if cfg.PointerSize == 0 {
		cfg.PointerSize = d.PointerSize
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = d.OutputDir
	}
}

// LoadViper reads the configuration file at path using viper, with
// CORDL_-prefixed environment variables layered over it.
func LoadViper(path string) (*GenerationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("CORDL")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := &GenerationConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadTOML decodes a single TOML override file directly via
// BurntSushi/toml, for callers that want one-shot decode without viper's
// layering (e.g. the handler-name-override map alone).
func LoadTOML(data []byte) (*GenerationConfig, error) {
	cfg := &GenerationConfig{}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}
