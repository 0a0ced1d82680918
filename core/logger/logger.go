// Package logger provides the structured slog setup shared by the bot:
// ordered KV/JSON output, per-component loggers, and request-ID context
// plumbing carried through every handler invocation.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"log/slog"

	coreconfig "churchbot/core/config"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	sink       *levelSplitWriter
	logClosers []io.Closer

	levelVar slog.LevelVar

	// L is the base logger; prefer the component loggers below.
	L *slog.Logger

	// APP logs application lifecycle events.
	APP *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// DB logs database events.
	DB *slog.Logger
	// MIG logs migration events.
	MIG *slog.Logger
	// ENG logs conversation engine events.
	ENG *slog.Logger
	// SEC logs security events (unauthorized access, rate limiting).
	SEC *slog.Logger
	// SVC logs domain service activity.
	SVC *slog.Logger
)

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		format := selectFormat(cfg)
		levelVar.Set(selectLevel(cfg))

		outputs, errOutputs, closers, err := buildOutputs(cfg)
		if err != nil {
			initErr = err
			return
		}
		logClosers = closers
		sink = newLevelSplitWriter(outputs, errOutputs)

		handler := newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   sink,
			format:   format,
			keyOrder: append([]string(nil), defaultKeyOrder...),
		})

		L = slog.New(handler)
		slog.SetDefault(L)

		APP = Component("app")
		TG = Component("tg")
		DB = Component("db")
		MIG = Component("db.migrate")
		ENG = Component("engine")
		SEC = Component("security")
		SVC = Component("svc")
	})
	return initErr
}

// Component returns a logger bound to a component name.
func Component(name string) *slog.Logger {
	base := L
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", name)
}

// Shutdown flushes and closes file outputs. Safe to call more than once.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var firstErr error
	for _, c := range logClosers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func selectFormat(cfg *coreconfig.Config) outputFormat {
	if cfg == nil {
		return formatKV
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "json":
		return formatJSON
	default:
		return formatKV
	}
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		if strings.EqualFold(cfg.Logging.Profile, "debug") {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}
}

func buildOutputs(cfg *coreconfig.Config) (outputs, errOutputs []io.Writer, closers []io.Closer, err error) {
	outputs = []io.Writer{os.Stdout}

	if cfg == nil || cfg.Logging.Dir == "" {
		return outputs, nil, nil, nil
	}

	dir := cfg.Logging.Dir
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return nil, nil, nil, fmt.Errorf("create log dir: %w", mkErr)
	}

	botFile := cfg.Logging.BotFile
	if botFile == "" {
		botFile = "bot.log"
	}
	f, openErr := os.OpenFile(filepath.Join(dir, botFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return nil, nil, nil, fmt.Errorf("open bot log: %w", openErr)
	}
	outputs = append(outputs, f)
	closers = append(closers, f)

	if cfg.Logging.ErrorsFile != "" {
		ef, openErr := os.OpenFile(filepath.Join(dir, cfg.Logging.ErrorsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if openErr != nil {
			_ = f.Close()
			return nil, nil, nil, fmt.Errorf("open errors log: %w", openErr)
		}
		errOutputs = append(errOutputs, ef)
		closers = append(closers, ef)
	}

	return outputs, errOutputs, closers, nil
}

// levelSplitWriter fans a line out to the regular outputs and, for
// error-level lines, additionally to the error outputs.
type levelSplitWriter struct {
	mu   sync.Mutex
	out  []io.Writer
	errs []io.Writer
}

func newLevelSplitWriter(out, errs []io.Writer) *levelSplitWriter {
	return &levelSplitWriter{out: out, errs: errs}
}

func (w *levelSplitWriter) writeLine(line []byte, level slog.Level) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var firstErr error
	for _, o := range w.out {
		if _, err := o.Write(line); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if level >= slog.LevelError {
		for _, o := range w.errs {
			if _, err := o.Write(line); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
