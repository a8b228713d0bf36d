package trace

import "fmt"

// IdentityMode controls how peer identities are parsed from log lines.
type IdentityMode string

const (
	// IdentityFlat addresses peers by a single identifier (/peer7).
	IdentityFlat IdentityMode = "flat"
	// IdentityGrouped addresses peers by group and local identifier (/peer2-7).
	IdentityGrouped IdentityMode = "grouped"
	// IdentityAuto resolves flat or grouped from the first line of the trace.
	IdentityAuto IdentityMode = "auto"
)

// validIdentityModes maps accepted identity mode strings.
var validIdentityModes = map[IdentityMode]bool{
	IdentityFlat:    true,
	IdentityGrouped: true,
	IdentityAuto:    true,
	"":              true, // empty defaults to auto
}

// IsValidIdentityMode returns true if the given string is a recognized identity mode.
func IsValidIdentityMode(mode string) bool {
	return validIdentityModes[IdentityMode(mode)]
}

// Config selects the trace variant an Engine understands.
type Config struct {
	IdentityMode IdentityMode `yaml:"identity_mode"`
	// StrictVerification fails the run on the first whole-trace violation.
	// When false, violations are logged and attached to the Result instead.
	StrictVerification bool `yaml:"strict_verification"`
}

// DefaultConfig returns auto identity detection with strict verification.
func DefaultConfig() Config {
	return Config{IdentityMode: IdentityAuto, StrictVerification: true}
}

// Validate checks that the config names a known identity mode.
func (c Config) Validate() error {
	if !IsValidIdentityMode(string(c.IdentityMode)) {
		return fmt.Errorf("unknown identity mode %q; valid: flat, grouped, auto", c.IdentityMode)
	}
	return nil
}

func (c Config) resolvedMode() IdentityMode {
	if c.IdentityMode == "" {
		return IdentityAuto
	}
	return c.IdentityMode
}
