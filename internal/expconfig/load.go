package expconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/justapithecus/graphbench/types"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a Config struct. Unknown keys are rejected to catch
// typos early.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadExperiment reads an experiment document (suts, cases, repetitions,
// claims) the same way Load reads graphbench.yaml: YAML with env-var
// expansion and strict field checking, then validated for structural
// invariants.
func LoadExperiment(path string) (*types.ExperimentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("experiment file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read experiment file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	var spec types.ExperimentSpec
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
