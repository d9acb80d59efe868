// Package logger is the structured-logging facade shared by everything
// outside the OT core: crypto/ot itself never logs or retries, and
// secrets like scalars or the yr intermediate must never be printed, but
// internal/otext logs lifecycle and failure events through this facade.
package logger

import "github.com/getamis/sirius/log"

var logger = log.Discard()

// Logger returns the package-wide logger, defaulting to a no-op sink.
func Logger() log.Logger {
	return logger
}

// SetLogger replaces the package-wide logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Reset restores the package-wide logger to the default no-op sink.
// Tests that call SetLogger should defer Reset so later tests don't
// inherit a logger meant for one case.
func Reset() {
	logger = log.Discard()
}
