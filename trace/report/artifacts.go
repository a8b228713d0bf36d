// Package report turns a finalized trace.Result into files: the delay and
// CDF JSON artifacts and an optional Prometheus textfile.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ndn-sim/tracecheck/trace"
)

const (
	delaySuffix = ".delay.json"
	cdfSuffix   = ".cdf.json"
)

// Artifacts names the files written for one run.
type Artifacts struct {
	Prefix    string
	DelayPath string
	CDFPath   string
}

// OutputPrefix derives the artifact prefix from an input trace path: the
// directory plus the base name up to its first dot. A base name that starts
// with a dot keeps its full name.
func OutputPrefix(inputPath string) string {
	dir, base := filepath.Split(inputPath)
	stem := base
	if i := strings.IndexByte(base, '.'); i > 0 {
		stem = base[:i]
	}
	return dir + stem
}

// PathsFor returns the artifact paths for prefix.
func PathsFor(prefix string) Artifacts {
	return Artifacts{Prefix: prefix, DelayPath: prefix + delaySuffix, CDFPath: prefix + cdfSuffix}
}

// WriteArtifacts writes <prefix>.delay.json and <prefix>.cdf.json. With
// validate, each payload is checked against its schema before anything is
// written.
func WriteArtifacts(prefix string, res *trace.Result, validate bool) (Artifacts, error) {
	out := PathsFor(prefix)
	if res == nil {
		return out, fmt.Errorf("no result to write")
	}

	delayData, err := json.Marshal(res.Delays)
	if err != nil {
		return out, fmt.Errorf("marshaling delays: %w", err)
	}
	cdfData, err := json.Marshal(res.CDF)
	if err != nil {
		return out, fmt.Errorf("marshaling cdf: %w", err)
	}

	if validate {
		if err := ValidateDelays(delayData); err != nil {
			return out, err
		}
		if err := ValidateCDF(cdfData); err != nil {
			return out, err
		}
	}

	if err := os.WriteFile(out.DelayPath, delayData, 0644); err != nil {
		return out, fmt.Errorf("writing delay artifact: %w", err)
	}
	if err := os.WriteFile(out.CDFPath, cdfData, 0644); err != nil {
		return out, fmt.Errorf("writing cdf artifact: %w", err)
	}
	logrus.Debugf("Successfully wrote '%s' and '%s'", out.DelayPath, out.CDFPath)
	return out, nil
}
