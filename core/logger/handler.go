package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"
)

type outputFormat int

const (
	formatKV outputFormat = iota
	formatJSON
)

// defaultKeyOrder fixes the position of well-known keys so lines stay
// grep-able; unknown keys follow in insertion order.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "handler", "user_id", "chat_id", "update_id",
	"err", "err_code", "cause", "duration_ms",
}

type handlerConfig struct {
	level    slog.Leveler
	writer   *levelSplitWriter
	format   outputFormat
	keyOrder []string
}

type structuredHandler struct {
	cfg   handlerConfig
	attrs []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	return &structuredHandler{cfg: cfg}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.cfg.level != nil {
		min = h.cfg.level.Level()
	}
	return level >= min
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &structuredHandler{cfg: h.cfg}
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return next
}

func (h *structuredHandler) WithGroup(string) slog.Handler {
	// Groups are flattened; the bot logs a flat key space.
	return h
}

type kv struct {
	key string
	val any
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	pairs := make([]kv, 0, r.NumAttrs()+len(h.attrs)+8)
	pairs = append(pairs, kv{"ts", r.Time.Format(time.RFC3339Nano)})
	pairs = append(pairs, kv{"level", r.Level.String()})
	pairs = append(pairs, kv{"event", r.Message})

	for _, a := range h.attrs {
		pairs = append(pairs, kv{a.Key, a.Value.Resolve().Any()})
	}
	r.Attrs(func(a slog.Attr) bool {
		pairs = append(pairs, kv{a.Key, a.Value.Resolve().Any()})
		return true
	})

	if meta, ok := metaFrom(ctx); ok {
		pairs = append(pairs,
			kv{"user_id", meta.userID},
			kv{"chat_id", meta.chatID},
			kv{"update_id", meta.updateID},
		)
	}
	if rid := RIDFrom(ctx); rid != "" {
		pairs = append(pairs, kv{"rid", CompactRID(rid)})
		if h.cfg.format == formatJSON {
			pairs = append(pairs, kv{"rid_full", rid})
		}
	}
	if h.cfg.format == formatJSON {
		pairs = append(pairs, kv{"ts_unix_nano", r.Time.UnixNano()})
	}

	ordered := orderPairs(pairs, h.cfg.keyOrder)

	var line []byte
	if h.cfg.format == formatJSON {
		line = renderJSON(ordered)
	} else {
		line = renderKV(ordered)
	}
	line = append(line, '\n')
	return h.cfg.writer.writeLine(line, r.Level)
}

func orderPairs(pairs []kv, order []string) []kv {
	rank := make(map[string]int, len(order))
	for i, k := range order {
		rank[k] = i
	}
	out := make([]kv, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, key := range order {
		for _, p := range pairs {
			if p.key == key && !seen[key] {
				out = append(out, p)
				seen[key] = true
			}
		}
	}
	for _, p := range pairs {
		if _, known := rank[p.key]; known {
			continue
		}
		out = append(out, p)
	}
	return out
}

func renderKV(pairs []kv) []byte {
	var b strings.Builder
	for i, p := range pairs {
		if p.key == "rid_full" || p.key == "ts_unix_nano" {
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(formatKVValue(p.val))
	}
	return []byte(b.String())
}

func formatKVValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\"") {
		return strconv.Quote(s)
	}
	return s
}

func renderJSON(pairs []kv) []byte {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		keyJSON, _ := json.Marshal(p.key)
		b.Write(keyJSON)
		b.WriteByte(':')
		valJSON, err := json.Marshal(p.val)
		if err != nil {
			valJSON, _ = json.Marshal(fmt.Sprint(p.val))
		}
		b.Write(valJSON)
	}
	b.WriteByte('}')
	return []byte(b.String())
}

// LogEvent emits an event through the provided component logger, carrying
// request metadata from ctx.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if log == nil {
		return
	}
	log.LogAttrs(ctx, level, event, attrs...)
}
