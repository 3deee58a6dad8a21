// Package config loads the VM tuning knobs a host embeds ember with:
// an optional ember.yaml file, then environment variables prefixed
// EMBER_, matching the teacher's own file-then-env layering idiom
// found throughout the retrieval pack's CLI tools. It is ambient
// configuration, not part of spec.md's core (which only requires the
// native-function registration mechanism), but a complete repository
// still needs somewhere to set the VM's resource bounds.
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the thread tunables spec.md §5/§8 implies but leaves
// to the host: step and call-depth limits, and whether to trace
// execution. These map directly onto machine.Thread's exported
// fields of the same shape (MaxSteps, MaxCallDepth), the same kind of
// knobs the teacher's own Thread type exposes.
type Config struct {
	MaxSteps     int  `yaml:"max_steps" env:"MAX_STEPS"`
	MaxCallDepth int  `yaml:"max_call_depth" env:"MAX_CALL_DEPTH"`
	TraceExec    bool `yaml:"trace_exec" env:"TRACE_EXEC"`
}

// Default returns the zero-tuning Config: no step limit, the machine
// package's default call-depth limit, tracing off.
func Default() Config {
	return Config{}
}

// Load reads path (if it exists) as YAML into a Config, then applies
// EMBER_-prefixed environment variable overrides on top. A missing
// path is not an error -- only the env-var layer is then applied to
// Default(). path == "" skips the file layer entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "EMBER_"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
