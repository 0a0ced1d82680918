package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"churchbot/core/logger"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// notifyAdmins fans a record notification out to every administrator.
// Every admin's route entry is set even when the send fails, so a later
// retry notification still resolves to the right record. Failures are
// logged in aggregate, never retried.
func (e *Engine) notifyAdmins(ctx context.Context, kind session.RecordKind, recordID int64, text string, kb menu.Keyboard) {
	var errs *multierror.Error
	sent := 0
	for _, adminID := range e.adminIDs {
		if err := e.msg.SendText(ctx, adminID, text, kb); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("admin %d: %w", adminID, err))
		} else {
			sent++
		}
		e.routes.SetTarget(adminID, kind, recordID)
	}

	attrs := []slog.Attr{
		slog.String("kind", string(kind)),
		slog.Int64("record_id", recordID),
		slog.Int("sent", sent),
		slog.Int("failed", len(e.adminIDs)-sent),
	}
	level := slog.LevelInfo
	if err := errs.ErrorOrNil(); err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.LogEvent(ctx, e.log, level, "notify.admins", attrs...)
}

// broadcast delivers text to each recipient. A failed send is counted and
// logged but does not abort the loop.
func (e *Engine) broadcast(ctx context.Context, recipients []int64, text string) (sent, failed int) {
	var errs *multierror.Error
	for _, chatID := range recipients {
		if err := e.msg.SendText(ctx, chatID, text, menu.Keyboard{}); err != nil {
			failed++
			errs = multierror.Append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		sent++
	}
	if err := errs.ErrorOrNil(); err != nil {
		logger.LogEvent(ctx, e.log, slog.LevelWarn, "broadcast.partial",
			slog.Int("sent", sent),
			slog.Int("failed", failed),
			slog.String("err", err.Error()))
	}
	return sent, failed
}
