package middleware

import (
	"sync"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"churchbot/core/logger"
)

// RateLimitOptions configures the fixed-window limiter: at most MaxRequests
// updates per user per Window.
type RateLimitOptions struct {
	MaxRequests int
	Window      time.Duration
	OnLimited   tele.HandlerFunc
}

type window struct {
	start time.Time
	count int
}

type limiter struct {
	mu      sync.Mutex
	windows map[int64]window
	opts    RateLimitOptions
	now     func() time.Time
}

func newLimiter(opts RateLimitOptions) *limiter {
	return &limiter{
		windows: make(map[int64]window),
		opts:    opts,
		now:     time.Now,
	}
}

// allow counts the update against the user's current window.
func (l *limiter) allow(userID int64) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[userID]
	if !ok || now.Sub(w.start) >= l.opts.Window {
		l.windows[userID] = window{start: now, count: 1}
		return true
	}
	if w.count >= l.opts.MaxRequests {
		return false
	}
	w.count++
	l.windows[userID] = w
	return true
}

// RateLimitMiddleware returns a middleware that drops updates from users
// exceeding the configured window.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	lim := newLimiter(opts)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.MaxRequests <= 0 || opts.Window <= 0 {
				return next(c)
			}
			if lim.allow(user.ID) {
				return next(c)
			}
			logger.TG.Warn("rate limit",
				slog.String("event", "tg.rate_limit"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnLimited != nil {
				return opts.OnLimited(c)
			}
			return nil
		}
	}
}
