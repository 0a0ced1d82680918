// Package bot is the Telegram glue: it owns the Telebot instance, maps
// commands and raw updates onto the engine, and runs the update loop.
package bot

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"log/slog"

	coreconfig "churchbot/core/config"
	"churchbot/core/logger"
	coretg "churchbot/core/telegram"
	"churchbot/core/telegram/middleware"
	"churchbot/internal/engine"
)

// Bot wraps the Telebot instance for the church bot.
type Bot struct {
	tb  *tele.Bot
	cfg *coreconfig.Config
	eng *engine.Engine
	log *slog.Logger
}

// New builds the Telebot instance with the configured poller. The engine
// is attached later via Bind, since it needs the Messenger first.
func New(cfg *coreconfig.Config) (*Bot, error) {
	poller := coretg.BuildPoller(coretg.PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: coretg.WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	return &Bot{tb: tb, cfg: cfg, log: logger.Component("tg")}, nil
}

// Messenger returns the outbound adapter for the engine.
func (b *Bot) Messenger() *Messenger {
	return &Messenger{tb: b.tb}
}

// Bind registers middleware and routes against the engine.
func (b *Bot) Bind(eng *engine.Engine) {
	b.eng = eng

	b.tb.Use(middleware.RecoverMiddleware)
	if b.cfg.RateLimit.MaxRequests > 0 {
		b.tb.Use(middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			MaxRequests: b.cfg.RateLimit.MaxRequests,
			Window:      time.Duration(b.cfg.RateLimit.WindowSeconds) * time.Second,
			OnLimited: func(c tele.Context) error {
				return c.Send("⏳ Забагато запитів. Спробуйте за хвилину.")
			},
		}))
	}

	b.tb.Handle("/start", b.handle("start", b.eng.Start))
	b.tb.Handle("/help", b.handle("help", b.eng.Help))
	b.tb.Handle("/register", b.handle("register", b.eng.StartRegister))
	b.tb.Handle("/me", b.handle("me", b.eng.Me))
	b.tb.Handle("/need", b.handle("need", b.eng.StartNeed))
	b.tb.Handle("/pray", b.handle("pray", b.eng.StartPray))
	b.tb.Handle("/lessons", b.handle("lessons", b.eng.ShowLessons))
	b.tb.Handle("/literature", b.handle("literature", b.eng.StartLiterature))
	b.tb.Handle("/contacts", b.handle("contacts", b.eng.Contact))

	b.tb.Handle("/members", b.adminOnly("members", b.eng.ListMembers))
	b.tb.Handle("/candidates", b.adminOnly("candidates", b.eng.ListCandidates))
	b.tb.Handle("/needs", b.adminOnly("needs", b.eng.ListNeeds))
	b.tb.Handle("/prayers", b.adminOnly("prayers", b.eng.ListPrayers))
	b.tb.Handle("/literature_requests", b.adminOnly("literature_requests", b.eng.ListLiteratureRequests))
	b.tb.Handle("/announce", b.adminOnly("announce", b.eng.StartAnnounce))
	b.tb.Handle("/upload_lesson", b.adminOnly("upload_lesson", b.eng.StartUploadLesson))

	b.tb.Handle(tele.OnText, b.onText)
	b.tb.Handle(tele.OnCallback, b.onCallback)
	b.tb.Handle(tele.OnDocument, b.onDocument)

	if err := b.tb.SetCommands([]tele.Command{
		{Text: "start", Description: "Почати спілкування з ботом"},
		{Text: "help", Description: "Показати довідку"},
		{Text: "register", Description: "Зареєструватися в системі"},
		{Text: "me", Description: "Подивитися свої дані"},
		{Text: "need", Description: "Подати заявку на допомогу"},
		{Text: "pray", Description: "Додати молитвенну потребу"},
		{Text: "lessons", Description: "Отримати біблійний урок"},
		{Text: "literature", Description: "Знайти духовну літературу"},
		{Text: "contacts", Description: "Контакти служителів"},
	}); err != nil {
		logger.LogEvent(logger.Background(), b.log, slog.LevelWarn, "tg.set_commands_failed",
			slog.String("err", err.Error()))
	}
}

// Run starts the update loop and stops it when ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	logger.LogEvent(ctx, b.log, slog.LevelInfo, "tg.started",
		slog.String("mode", b.cfg.Telegram.RunMode))

	done := make(chan struct{})
	go func() {
		b.tb.Start()
		close(done)
	}()

	select {
	case <-ctx.Done():
		b.tb.Stop()
		<-done
	case <-done:
	}
	logger.LogEvent(logger.Background(), b.log, slog.LevelInfo, "tg.stopped")
	return nil
}

// event derives the logging context and the engine view of an update.
func (b *Bot) event(c tele.Context) (context.Context, engine.Incoming) {
	var userID, chatID int64
	var first, last string
	if u := c.Sender(); u != nil {
		userID = u.ID
		first = u.FirstName
		last = u.LastName
	}
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	rid := logger.BuildRID(c.Update().ID, chatID, userID)
	ctx := logger.WithRID(logger.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, c.Update().ID, userID, chatID)
	return ctx, engine.Incoming{
		UserID:    userID,
		ChatID:    chatID,
		Text:      c.Text(),
		FirstName: first,
		LastName:  last,
	}
}

// handle adapts an engine entry point into a Telebot handler. Engine
// errors are logged, not returned: the user already got a reply and
// Telebot would only re-log them.
func (b *Bot) handle(name string, fn func(ctx context.Context, in engine.Incoming) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, in := b.event(c)
		if err := fn(ctx, in); err != nil {
			logger.LogEvent(ctx, b.log, slog.LevelError, "tg.handler_failed",
				slog.String("handler", name),
				slog.String("err", err.Error()))
		}
		return nil
	}
}

func (b *Bot) adminOnly(name string, fn func(ctx context.Context, in engine.Incoming) error) tele.HandlerFunc {
	inner := b.handle(name, fn)
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || !b.cfg.IsAdmin(sender.ID) {
			ctx, _ := b.event(c)
			logger.LogEvent(ctx, logger.SEC, slog.LevelWarn, "security.command_denied",
				slog.String("command", name))
			return c.Send("⛔ Ця команда доступна лише служителям.")
		}
		return inner(c)
	}
}

func (b *Bot) onText(c tele.Context) error {
	ctx, in := b.event(c)
	handled, err := b.eng.HandleText(ctx, in)
	if err != nil {
		logger.LogEvent(ctx, b.log, slog.LevelError, "tg.handler_failed",
			slog.String("handler", "text"),
			slog.String("err", err.Error()))
		return nil
	}
	if !handled {
		if err := b.eng.Help(ctx, in); err != nil {
			logger.LogEvent(ctx, b.log, slog.LevelError, "tg.handler_failed",
				slog.String("handler", "help_fallback"),
				slog.String("err", err.Error()))
		}
	}
	return nil
}

func (b *Bot) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	ctx, in := b.event(c)

	ev := engine.CallbackEvent{
		UserID:     in.UserID,
		ChatID:     in.ChatID,
		CallbackID: cb.ID,
		Data:       strings.TrimPrefix(cb.Data, "\f"),
	}
	if cb.Message != nil {
		ev.MessageID = cb.Message.ID
		ev.MessageText = cb.Message.Text
	}

	handled, err := b.eng.HandleCallback(ctx, ev)
	if err != nil {
		logger.LogEvent(ctx, b.log, slog.LevelError, "tg.handler_failed",
			slog.String("handler", "callback"),
			slog.String("data", logger.SanitizeLimit(ev.Data, 64)),
			slog.String("err", err.Error()))
		return nil
	}
	if !handled {
		return c.Respond(&tele.CallbackResponse{})
	}
	return nil
}

func (b *Bot) onDocument(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return nil
	}
	ctx, in := b.event(c)

	handled, err := b.eng.HandleDocument(ctx, engine.DocumentEvent{
		UserID:   in.UserID,
		ChatID:   in.ChatID,
		FileID:   msg.Document.FileID,
		FileName: msg.Document.FileName,
	})
	if err != nil {
		logger.LogEvent(ctx, b.log, slog.LevelError, "tg.handler_failed",
			slog.String("handler", "document"),
			slog.String("err", err.Error()))
		return nil
	}
	if !handled {
		return c.Send("⚠️ Зараз я не очікую файлів. Скористайтеся меню.")
	}
	return nil
}
