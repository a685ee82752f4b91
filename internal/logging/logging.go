// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out at the given level.
// format is "json" or "text"; empty level means warn.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	if level == "" {
		level = "warn"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	return logger, nil
}

// LogError records a failed operation with its module and function.
func LogError(logger logrus.FieldLogger, module, funcName string, fields logrus.Fields, err error) {
	entry := logger.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(err.Error())
}
