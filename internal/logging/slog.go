package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// otelScopeName is the instrumentation scope reported on bridged log
// records.
const otelScopeName = "vraq-scene"

// SlogManager owns the process logger: stdout for the operator, a
// per-session file for later inspection, and optionally the OTel
// bridge. Setup may be called twice, once during bootstrap before the
// config is readable and again with the real destinations.
type SlogManager struct {
	logger *slog.Logger

	// retained for Flush
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager returns an empty manager. Logger falls back to
// slog.Default until Setup runs.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a config-file level string to slog.Level.
// Unknown strings mean INFO.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// handlerOptions renders timestamps as UTC RFC3339 so console, file,
// and exported records all carry the same clock.
func handlerOptions(lvl slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Setup wires the logger to stdout, the given session file, and the
// OTel bridge when a provider is present. Nil file and nil provider
// are both fine; stdout alone always works.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	lvl := parseLevel(level)
	m.logProvider = provider

	opts := handlerOptions(lvl)

	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}
	if provider != nil {
		handlers = append(handlers,
			otelslog.NewHandler(otelScopeName, otelslog.WithLoggerProvider(provider)))
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush drains pending OTel log exports. No-op without a provider.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
