// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

// Package logging provides the shared logrus logger and its setup.
package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// LogFormatText is the plain text log format
	LogFormatText = "text"
	// LogFormatJSON is the JSON log format
	LogFormatJSON = "json"
)

// DefaultLogger is the base logger all packages derive their scoped
// loggers from.
var DefaultLogger = initializeDefaultLogger()

func initializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// SetLogLevel configures the level of the default logger.
func SetLogLevel(level logrus.Level) {
	DefaultLogger.SetLevel(level)
}

// SetLogLevelFromString parses and applies a textual log level such as
// "debug" or "warning".
func SetLogLevelFromString(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	SetLogLevel(l)
	return nil
}

// SetLogFormat switches the default logger between text and JSON
// output.
func SetLogFormat(format string) error {
	switch format {
	case LogFormatText:
		DefaultLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case LogFormatJSON:
		DefaultLogger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}
