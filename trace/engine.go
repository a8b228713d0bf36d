package trace

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine is the per-run context: it owns the peer registry and the delay
// aggregator for exactly one trace.
type Engine struct {
	RunID string

	cfg      Config
	mode     IdentityMode // resolved; IdentityAuto until the first line
	registry *Registry
	delays   *DelayAggregator
	log      *logrus.Entry

	lines      int
	verified   bool
	violations []error
	err        error // first failure; sticky
}

// Result is the outcome of a finalized run.
type Result struct {
	RunID      string
	Mode       IdentityMode
	Lines      int // non-empty lines applied
	Delays     []DelayRecord
	CDF        []CDFPoint
	Peers      []PeerSummary
	Violations []error // only populated without strict verification
}

// NewEngine creates an engine for one trace.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	mode := cfg.resolvedMode()
	return &Engine{
		RunID:    runID,
		cfg:      cfg,
		mode:     mode,
		registry: NewRegistry(),
		delays:   NewDelayAggregator(),
		log:      logrus.WithFields(logrus.Fields{"run": runID[:8], "mode": string(mode)}),
	}, nil
}

// Mode returns the identity mode in effect. It is IdentityAuto only while
// no line has been applied.
func (e *Engine) Mode() IdentityMode {
	return e.mode
}

// Peers returns the peer states in initialization order.
func (e *Engine) Peers() []*PeerState {
	return e.registry.Peers()
}

// Err returns the failure that stopped the engine, if any.
func (e *Engine) Err() error {
	return e.err
}

// ApplyLine classifies one raw log line and applies it. Surrounding
// whitespace is trimmed and empty lines are skipped.
func (e *Engine) ApplyLine(line string) error {
	if e.err != nil {
		return e.err
	}
	if e.verified {
		return e.fail(errors.New("cannot apply lines after verification"))
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	e.lines++

	if e.mode == IdentityAuto {
		mode, err := DetectIdentityMode(line)
		if err != nil {
			return e.fail(&LineError{LineNo: e.lines, Line: line, Err: err})
		}
		e.resolveMode(mode)
	}

	ev, err := Classify(line, e.mode)
	if err != nil {
		return e.fail(&LineError{LineNo: e.lines, Line: line, Err: err})
	}
	if err := ev.Apply(e); err != nil {
		return e.fail(&LineError{LineNo: e.lines, Line: line, Err: err})
	}
	return nil
}

// Apply applies an already classified event. Under IdentityAuto the mode is
// resolved from the first event's peer.
func (e *Engine) Apply(ev Event) error {
	if e.err != nil {
		return e.err
	}
	if e.verified {
		return e.fail(errors.New("cannot apply events after verification"))
	}
	if e.mode == IdentityAuto {
		if peer, ok := eventPeer(ev); ok {
			e.resolveMode(peer.Mode())
		}
	}
	if err := ev.Apply(e); err != nil {
		return e.fail(err)
	}
	return nil
}

func (e *Engine) resolveMode(mode IdentityMode) {
	e.mode = mode
	e.log = e.log.WithField("mode", string(mode))
	e.log.Debugf("identity mode resolved to %s", mode)
}

// eventPeer returns the acting peer of the built-in event types.
func eventPeer(ev Event) (PeerID, bool) {
	switch ev := ev.(type) {
	case *InitEvent:
		return ev.Peer, true
	case *SendEvent:
		return ev.Peer, true
	case *ReceiveEvent:
		return ev.Peer, true
	}
	return PeerID{}, false
}

// Verify runs the whole-trace checks. With strict verification the first
// violation fails the run; otherwise violations are logged and kept for the
// Result. Calling Verify again after success is a no-op.
func (e *Engine) Verify() error {
	if e.err != nil {
		return e.err
	}
	if e.verified {
		return nil
	}
	violations := verifyRegistry(e.registry, e.cfg.StrictVerification)
	if e.cfg.StrictVerification && len(violations) > 0 {
		return e.fail(violations[0])
	}
	for _, v := range violations {
		e.log.Warnf("verification: %v", v)
	}
	e.violations = violations
	e.verified = true
	e.log.Debugf("verified %d peers, %d deliveries", e.registry.Len(), e.delays.Len())
	return nil
}

// Finalize returns the run's outputs. Verify must have succeeded first.
func (e *Engine) Finalize() (*Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	if !e.verified {
		return nil, ErrNotVerified
	}
	delays, cdf := e.delays.Finalize()
	return &Result{
		RunID:      e.RunID,
		Mode:       e.mode,
		Lines:      e.lines,
		Delays:     delays,
		CDF:        cdf,
		Peers:      Summarize(e.registry.Peers()),
		Violations: e.violations,
	}, nil
}

func (e *Engine) fail(err error) error {
	e.err = err
	e.log.Debugf("run failed: %v", err)
	return err
}

// Run applies every line, verifies and finalizes in one call.
func Run(cfg Config, lines []string) (*Result, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := eng.ApplyLine(line); err != nil {
			return nil, err
		}
	}
	if err := eng.Verify(); err != nil {
		return nil, err
	}
	return eng.Finalize()
}
