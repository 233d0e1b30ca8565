package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the command logger, writing to w with timestamps.
// Debug messages show only when --verbose is set.
func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
