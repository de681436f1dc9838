// Package logging configures zerolog for the binaries and bridges it into
// the logr.Logger the library packages accept.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/kardianos/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the level and destination.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string
	// File, when set, sends output to a rotating log file.
	File string
	// Console receives output when no file is used. Defaults to stderr.
	Console io.Writer
}

// interactive is replaced in tests.
var interactive = service.Interactive

// Setup installs the global zerolog logger and returns it as a logr.Logger.
// The returned closer releases the log file, if any.
func Setup(opts Options) (logr.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), nil, err
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	zerologr.SetMaxV(verbosity(level))

	w, closer, err := writer(opts)
	if err != nil {
		return logr.Discard(), nil, err
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	log.Logger = zl
	return zerologr.New(&zl), closer, nil
}

// ParseLevel accepts zerolog level names, case-insensitively.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// verbosity maps a zerolog level to the highest logr V-level emitted.
func verbosity(level zerolog.Level) int {
	if level <= zerolog.TraceLevel {
		return 2
	}
	if level <= zerolog.DebugLevel {
		return 1
	}
	return 0
}

func writer(opts Options) (io.Writer, io.Closer, error) {
	file := opts.File
	if file == "" && !interactive() {
		file = defaultLogFile()
	}
	if file == "" {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		return zerolog.ConsoleWriter{Out: out}, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return lj, lj, nil
}

// defaultLogFile is used when running as a service without a configured
// file. Under systemd stderr already reaches the journal.
func defaultLogFile() string {
	if os.Getenv("JOURNAL_STREAM") != "" || os.Getenv("INVOCATION_ID") != "" {
		return ""
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gaposa", "gaposa.log")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
