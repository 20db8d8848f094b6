// Package logger builds the zerolog loggers used by the command line tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/thanhnp/ledger-tx/internal/config"
)

// New returns a logger writing to w. Pretty output uses a console writer,
// coloured only when w is a terminal; otherwise records are JSON lines.
func New(service string, cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if service == "" {
		service = "txdemo"
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(consoleWriter(service, w)).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Str("service", service).Logger()
	}

	return logger.Level(ParseLevel(cfg.Level))
}

// ParseLevel maps a configured level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	case "PANIC":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

func consoleWriter(service string, w io.Writer) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.RFC3339,
	}

	output.FormatTimestamp = func(i interface{}) string {
		s, _ := i.(string)
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return s
		}
		return parsed.Format("15:04:05")
	}

	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("| %-6s| %v", service, i)
	}

	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	return output
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
