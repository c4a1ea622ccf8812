package isa

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the structured logging sink: info/debug/error
// severities, timestamped, tagged with a component name, written to
// both a file named "log" and a standard stream.
// component is attached to every line as the "component" field; all
// lines logged through the returned entry carry the same component.
func NewLogger(component string, verbose bool) (*logrus.Entry, func() error, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	f, err := os.OpenFile("log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(io.MultiWriter(f, os.Stdout))

	return logger.WithField("component", component), f.Close, nil
}
