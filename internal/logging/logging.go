// Package logging builds the service's structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Redacted replaces the value of any redacted attribute.
const Redacted = "[REDACTED]"

// Options configures New.
type Options struct {
	// Level is debug, info, warn or error. Unknown values mean info.
	Level string
	// Format is json, text or auto. Auto uses text when Output is a terminal.
	Format string
	// Redact lists attribute keys whose values are never written. A dotted
	// key such as "req.headers" matches the attribute "headers" inside the
	// group "req".
	Redact []string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger from opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level),
		ReplaceAttr: redactor(opts.Redact),
	}

	var handler slog.Handler
	if useText(opts.Format, out) {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler)
}

// Discard returns a logger that writes nothing.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func useText(format string, out io.Writer) bool {
	switch format {
	case "text":
		return true
	case "json":
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// redactor returns a ReplaceAttr func hiding the listed keys.
func redactor(keys []string) func(groups []string, a slog.Attr) slog.Attr {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			set[k] = struct{}{}
		}
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		key := strings.ToLower(a.Key)
		if _, ok := set[key]; ok {
			return slog.String(a.Key, Redacted)
		}
		if len(groups) > 0 {
			path := strings.ToLower(strings.Join(groups, ".")) + "." + key
			if _, ok := set[path]; ok {
				return slog.String(a.Key, Redacted)
			}
		}
		return a
	}
}
