package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ndn-sim/tracecheck/trace"
	"github.com/ndn-sim/tracecheck/trace/report"
)

// verifyOptions holds the verify command's flags after the run config has
// been merged in.
type verifyOptions struct {
	identity    string // flat, grouped or auto
	strict      bool   // fail on the first whole-trace violation
	configPath  string // optional YAML run config
	outPrefix   string // artifact prefix override (single file only)
	noArtifacts bool   // skip writing delay/CDF JSON
	schemaCheck bool   // validate artifacts against their schemas
	metricsFile string // Prometheus textfile output path
	jobs        int    // files verified concurrently
}

var verifyOpts verifyOptions

// verifyCmd replays each trace, checks its consistency and writes artifacts
var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Verify trace consistency and write delay/CDF artifacts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := verifyOpts
		if opts.configPath != "" {
			rc, err := loadRunConfig(opts.configPath)
			if err != nil {
				return err
			}
			applyRunConfig(cmd.Flags(), &opts, rc)
			if rc.LogLevel != "" && !cmd.Flags().Changed("log") {
				if err := setLogLevel(rc.LogLevel); err != nil {
					return err
				}
			}
		}
		return runVerify(cmd.Context(), cmd.OutOrStdout(), opts, args)
	},
}

// bindVerifyFlags registers the verify flags on fs.
func bindVerifyFlags(fs *pflag.FlagSet, o *verifyOptions) {
	fs.StringVar(&o.identity, "identity", string(trace.IdentityAuto), "Peer identity mode (flat, grouped, auto)")
	fs.BoolVar(&o.strict, "strict", true, "Fail on the first verification violation; otherwise report all and continue")
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML run config")
	fs.StringVar(&o.outPrefix, "out-prefix", "", "Artifact path prefix (default: input path up to its first dot)")
	fs.BoolVar(&o.noArtifacts, "no-artifacts", false, "Verify only; do not write delay/CDF files")
	fs.BoolVar(&o.schemaCheck, "schema-check", true, "Validate artifacts against their JSON schemas before writing")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	fs.IntVar(&o.jobs, "jobs", 1, "Number of trace files verified concurrently")
}

// syncWriter serializes writes from concurrent verifications.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// runVerify verifies every file with its own engine. The first failure
// cancels files not yet started.
func runVerify(ctx context.Context, w io.Writer, opts verifyOptions, files []string) error {
	if opts.outPrefix != "" && len(files) > 1 {
		return fmt.Errorf("--out-prefix applies to a single trace file, got %d", len(files))
	}
	cfg := trace.Config{
		IdentityMode:       trace.IdentityMode(opts.identity),
		StrictVerification: opts.strict,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reg := prometheus.NewRegistry()
	metrics := report.NewRunMetrics(reg)
	out := &syncWriter{w: w}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return verifyFile(cfg, opts, file, metrics, out)
		})
	}
	err := g.Wait()

	if opts.metricsFile != "" {
		if werr := report.WriteTextfile(opts.metricsFile, reg); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// verifyFile runs one trace end to end.
func verifyFile(cfg trace.Config, opts verifyOptions, path string, metrics *report.RunMetrics, w io.Writer) error {
	log := logrus.WithField("file", path)

	lines, err := trace.LoadFile(path)
	if err != nil {
		metrics.ObserveFailure()
		return err
	}
	res, err := trace.Run(cfg, lines)
	if err != nil {
		metrics.ObserveFailure()
		return fmt.Errorf("%s: %w", path, err)
	}
	metrics.Observe(res)
	log = log.WithField("run", res.RunID[:8])

	if len(res.Violations) > 0 {
		log.Warnf("%d violations tolerated without strict verification", len(res.Violations))
	} else {
		log.Info("Validity check passed.")
		fmt.Fprintf(w, "%s: Validity check passed.\n", path)
	}

	if opts.noArtifacts {
		return nil
	}
	prefix := opts.outPrefix
	if prefix == "" {
		prefix = report.OutputPrefix(path)
	}
	arts, err := report.WriteArtifacts(prefix, res, opts.schemaCheck)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("Wrote %d delay records with prefix %s", len(res.Delays), arts.Prefix)
	return nil
}

func init() {
	bindVerifyFlags(verifyCmd.Flags(), &verifyOpts)
}
