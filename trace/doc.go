// Package trace reconstructs a ChronoSync simulation run from its event log,
// verifies that the run is internally consistent, and derives end-to-end
// delivery-delay statistics.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - classifier.go: line grammars and the Classify tagged-union parser
//   - event.go: the three event types and how each mutates engine state
//   - engine.go: the per-run context that owns the registry and delays
//   - verifier.go: whole-trace quota and delivery-count checks
//   - delay.go: delay records and the empirical CDF
//
// # Lifecycle
//
// One Engine serves exactly one trace. Lines are applied in log order with
// ApplyLine, then Verify runs the whole-trace checks, then Finalize returns
// the Result. The first failure is sticky: every later call returns it.
// Run wraps the whole sequence for callers that already hold all lines.
//
// # Identity modes
//
// Peers are addressed either flat (/peer7) or grouped (/peer2-7). The mode is
// chosen once per trace through Config.IdentityMode; IdentityAuto resolves it
// from the first line.
//
// Sub-packages:
//   - trace/stats: descriptive delay distributions
//   - trace/report: JSON artifacts, schema validation, Prometheus export
package trace
