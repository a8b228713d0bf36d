package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// RunConfig is the optional YAML file passed with --config. Every field is
// optional; flags given explicitly on the command line take precedence.
type RunConfig struct {
	IdentityMode       string `yaml:"identity_mode" validate:"omitempty,oneof=flat grouped auto"`
	StrictVerification *bool  `yaml:"strict_verification"`
	SchemaCheck        *bool  `yaml:"schema_check"`
	Artifacts          *bool  `yaml:"artifacts"`
	MetricsFile        string `yaml:"metrics_file"`
	Jobs               int    `yaml:"jobs" validate:"gte=0,lte=256"`
	LogLevel           string `yaml:"log" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
}

var validate = validator.New()

// loadRunConfig parses a run config file.
// Uses strict field checking so typos are rejected.
func loadRunConfig(path string) (RunConfig, error) {
	var rc RunConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return rc, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rc); err != nil && !errors.Is(err, io.EOF) {
		return rc, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	if err := validate.Struct(rc); err != nil {
		return rc, fmt.Errorf("invalid run config %s: %w", path, err)
	}
	return rc, nil
}

// applyRunConfig copies file values into opts for every flag the user did
// not set explicitly.
func applyRunConfig(flags *pflag.FlagSet, opts *verifyOptions, rc RunConfig) {
	if rc.IdentityMode != "" && !flags.Changed("identity") {
		opts.identity = rc.IdentityMode
	}
	if rc.StrictVerification != nil && !flags.Changed("strict") {
		opts.strict = *rc.StrictVerification
	}
	if rc.SchemaCheck != nil && !flags.Changed("schema-check") {
		opts.schemaCheck = *rc.SchemaCheck
	}
	if rc.Artifacts != nil && !flags.Changed("no-artifacts") {
		opts.noArtifacts = !*rc.Artifacts
	}
	if rc.MetricsFile != "" && !flags.Changed("metrics-file") {
		opts.metricsFile = rc.MetricsFile
	}
	if rc.Jobs > 0 && !flags.Changed("jobs") {
		opts.jobs = rc.Jobs
	}
}
