// Package logging configures the process-wide logrus logger. The TUI owns
// the terminal, so log output goes to a file rather than stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		DisableColors:   true,
	})
	// Nothing is written until Setup chooses a destination.
	logrus.SetOutput(io.Discard)
}

// Setup opens path for appending and routes all logging there. The
// returned closer must be closed on shutdown.
func Setup(path, level string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logrus.SetOutput(f)
	logrus.SetLevel(lvl)
	return f, nil
}

// For returns an entry tagged with the component name
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
