package logger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type ctxKey int

const (
	ridKey ctxKey = iota
	metaKey
)

type updateMeta struct {
	updateID int
	userID   int64
	chatID   int64
}

// Background is a readability alias used by tests.
func Background() context.Context { return context.Background() }

// WithRID attaches a request ID to the context.
func WithRID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, ridKey, rid)
}

// RIDFrom returns the request ID stored in ctx, or "".
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ridKey).(string); ok {
		return v
	}
	return ""
}

// WithUpdateMeta attaches Telegram update metadata to the context.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return context.WithValue(ctx, metaKey, updateMeta{updateID: updateID, userID: userID, chatID: chatID})
}

func metaFrom(ctx context.Context) (updateMeta, bool) {
	if ctx == nil {
		return updateMeta{}, false
	}
	m, ok := ctx.Value(metaKey).(updateMeta)
	return m, ok
}

// BuildRID composes a request ID from update, chat and user identifiers.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID shortens a "a:b:c" request ID into a stable short token for
// KV output; the full form stays available in JSON output.
func CompactRID(rid string) string {
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	var sum uint64
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return rid
		}
		sum = sum*31 + n
	}
	return "r" + strconv.FormatUint(sum%0xFFFFFF, 16)
}
