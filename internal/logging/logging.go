// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ramonehamilton/card-binder/internal/config"
)

var (
	std     *logrus.Logger
	once    sync.Once
	logFile *os.File
)

// Logger returns the shared logger instance.
func Logger() *logrus.Logger {
	once.Do(func() {
		std = logrus.New()
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return std
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Logger().WithField("component", name)
}

// Init applies the log configuration. The returned cleanup closes any log file.
func Init(cfg config.LogConfig) (func(), error) {
	l := Logger()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log output is file but no file_path is set")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		out = f
	default:
		out = os.Stderr
	}
	l.SetOutput(out)

	return func() {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	}, nil
}
