// Package logging wires up structured logging for cmd/aligner. The
// core align package logs through the same
// *log.Logger type, but never imports this package: it is given a
// logger, not a logging policy.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// New builds a logger at the given level ("debug", "info", "warn", or
// "error") writing to stderr, tagged with the current run's start
// time.
func New(level string, start time.Time) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	// Tag log lines from one invocation, e.g. "20260801-143022".
	tag, err := strftime.Format("%Y%m%d-%H%M%S", start)
	if err != nil {
		return nil, fmt.Errorf("logging: formatting run tag: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "aligner " + tag,
	})
	return logger, nil
}
