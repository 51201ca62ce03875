package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/linebalance/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// Options configures every logger created after Configure.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Format is json or console. Empty selects console when APP_ENV=dev.
	Format string
	// Output defaults to stderr so command output stays machine readable.
	Output io.Writer
}

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
	format string
)

// Configure sets the global level and the output of new loggers.
func Configure(o Options) error {
	lvl := zerolog.InfoLevel
	if o.Level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
	}
	f := strings.ToLower(o.Format)
	if f != "" && f != "json" && f != "console" {
		return fmt.Errorf("invalid log format %q", o.Format)
	}
	zerolog.SetGlobalLevel(lvl)
	mu.Lock()
	defer mu.Unlock()
	format = f
	if o.Output != nil {
		output = o.Output
	} else {
		output = os.Stderr
	}
	return nil
}

// New returns a Logger for the given component.
func New(component string) Logger {
	return NewZerologLogger(component)
}

func currentWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	f := format
	if f == "" && strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		f = "console"
	}
	if f == "console" {
		return zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}
	return output
}
