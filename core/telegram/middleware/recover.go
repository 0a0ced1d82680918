package middleware

import (
	"runtime/debug"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"churchbot/core/logger"
)

// RecoverMiddleware catches panics in handlers so a single bad update
// cannot take the bot down.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				attrs := []any{
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				}
				if c != nil {
					attrs = append(attrs, slog.Int("update_id", c.Update().ID))
				}
				logger.TG.Error("handler panic", attrs...)
			}
		}()
		return next(c)
	}
}
