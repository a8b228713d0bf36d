package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndn-sim/tracecheck/trace"
)

// copyFixture copies a testdata trace into a temp dir so artifacts land there.
func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "testdata", name))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func defaultVerifyOptions() verifyOptions {
	return verifyOptions{identity: "auto", strict: true, schemaCheck: true, jobs: 1}
}

func TestRunVerify_ValidTrace_WritesArtifacts(t *testing.T) {
	// GIVEN a valid grouped trace
	dir := t.TempDir()
	path := copyFixture(t, dir, "grouped_valid.log")
	var out bytes.Buffer

	// WHEN verified with default options
	err := runVerify(context.Background(), &out, defaultVerifyOptions(), []string{path})

	// THEN it passes
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Validity check passed.")

	// AND artifacts are named after the input up to its first dot
	data, err := os.ReadFile(filepath.Join(dir, "grouped_valid.delay.json"))
	require.NoError(t, err)
	var delays []trace.DelayRecord
	require.NoError(t, json.Unmarshal(data, &delays))
	assert.Len(t, delays, 6)
	_, err = os.Stat(filepath.Join(dir, "grouped_valid.cdf.json"))
	assert.NoError(t, err)
}

func TestRunVerify_OutPrefixAndMetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "flat_valid.log")
	opts := defaultVerifyOptions()
	opts.outPrefix = filepath.Join(dir, "custom")
	opts.metricsFile = filepath.Join(dir, "tracecheck.prom")

	require.NoError(t, runVerify(context.Background(), &bytes.Buffer{}, opts, []string{path}))

	_, err := os.Stat(filepath.Join(dir, "custom.delay.json"))
	assert.NoError(t, err)
	prom, err := os.ReadFile(opts.metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `tracecheck_runs_total{status="passed"} 1`)
	assert.Contains(t, string(prom), "tracecheck_deliveries_total 2")
}

func TestRunVerify_NoArtifacts_WritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "flat_valid.log")
	opts := defaultVerifyOptions()
	opts.noArtifacts = true

	require.NoError(t, runVerify(context.Background(), &bytes.Buffer{}, opts, []string{path}))

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRunVerify_InconsistentTrace_Fails(t *testing.T) {
	// GIVEN a trace with undelivered messages
	dir := t.TempDir()
	path := copyFixture(t, dir, "flat_incomplete.log")
	opts := defaultVerifyOptions()
	opts.metricsFile = filepath.Join(dir, "tracecheck.prom")

	// WHEN verified strictly
	err := runVerify(context.Background(), &bytes.Buffer{}, opts, []string{path})

	// THEN the first violation is returned and no artifacts are written
	require.Error(t, err)
	var quota *trace.QuotaMismatchError
	assert.True(t, errors.As(err, &quota))
	_, statErr := os.Stat(filepath.Join(dir, "flat_incomplete.delay.json"))
	assert.True(t, os.IsNotExist(statErr))

	// AND the failure is still exported
	prom, readErr := os.ReadFile(opts.metricsFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(prom), `tracecheck_runs_total{status="failed"} 1`)
}

func TestRunVerify_Permissive_WritesArtifactsDespiteViolations(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "flat_incomplete.log")
	opts := defaultVerifyOptions()
	opts.strict = false
	var out bytes.Buffer

	require.NoError(t, runVerify(context.Background(), &out, opts, []string{path}))

	assert.NotContains(t, out.String(), "Validity check passed.")
	_, err := os.Stat(filepath.Join(dir, "flat_incomplete.delay.json"))
	assert.NoError(t, err)
}

func TestRunVerify_MultipleFilesConcurrently(t *testing.T) {
	dir := t.TempDir()
	a := copyFixture(t, dir, "grouped_valid.log")
	b := copyFixture(t, dir, "flat_valid.log")
	opts := defaultVerifyOptions()
	opts.jobs = 2
	var out bytes.Buffer

	require.NoError(t, runVerify(context.Background(), &out, opts, []string{a, b}))

	assert.Contains(t, out.String(), a+": Validity check passed.")
	assert.Contains(t, out.String(), b+": Validity check passed.")
}

func TestRunVerify_OutPrefixWithSeveralFiles_Rejected(t *testing.T) {
	opts := defaultVerifyOptions()
	opts.outPrefix = "x"
	err := runVerify(context.Background(), &bytes.Buffer{}, opts, []string{"a.log", "b.log"})
	assert.Error(t, err)
}

func TestRunVerify_BadIdentity_Rejected(t *testing.T) {
	opts := defaultVerifyOptions()
	opts.identity = "hierarchical"
	err := runVerify(context.Background(), &bytes.Buffer{}, opts, []string{"a.log"})
	assert.Error(t, err)
}

func TestRunVerify_MissingFile_ReturnsError(t *testing.T) {
	err := runVerify(context.Background(), &bytes.Buffer{}, defaultVerifyOptions(),
		[]string{filepath.Join(t.TempDir(), "missing.log")})
	assert.Error(t, err)
}

func TestVerifyCommand_ConfigFile_EndToEnd(t *testing.T) {
	// GIVEN a run config disabling artifacts
	dir := t.TempDir()
	path := copyFixture(t, dir, "grouped_valid.log")
	cfgPath := writeFile(t, "run.yaml", "artifacts: false\nidentity_mode: grouped\n")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"verify", "--config", cfgPath, "--log", "warn", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		bindVerifyFlagsDefaults()
	})

	// WHEN the command runs
	require.NoError(t, rootCmd.Execute())

	// THEN the trace passed and no artifacts were written
	assert.Contains(t, out.String(), "Validity check passed.")
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// bindVerifyFlagsDefaults resets verify flags so later Execute calls start clean.
func bindVerifyFlagsDefaults() {
	verifyCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}
