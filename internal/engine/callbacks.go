package engine

import (
	"context"
	"log/slog"
	"strings"

	"churchbot/core/logger"
	"churchbot/internal/domain"
	"churchbot/internal/session"
)

// Callback payloads are "prefix|param1|param2".
const callbackSep = "|"

type callbackHandler func(ctx context.Context, cb CallbackEvent, params []string) error

type callbackSpec struct {
	prefix    string
	adminOnly bool
	arity     int
	handle    callbackHandler
}

// callbackSpecs is the declarative callback table. The admin gate runs
// once here, before any handler, instead of inside each one.
func (e *Engine) callbackSpecs() []callbackSpec {
	oneID := func(h func(ctx context.Context, cb CallbackEvent, id int64) error) callbackHandler {
		return func(ctx context.Context, cb CallbackEvent, params []string) error {
			id, ok := parseID(params[0])
			if !ok {
				return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Помилка обробки запиту.")
			}
			return h(ctx, cb, id)
		}
	}
	twoIDs := func(h func(ctx context.Context, cb CallbackEvent, a, b int64) error) callbackHandler {
		return func(ctx context.Context, cb CallbackEvent, params []string) error {
			a, okA := parseID(params[0])
			b, okB := parseID(params[1])
			if !okA || !okB {
				return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Помилка обробки запиту.")
			}
			return h(ctx, cb, a, b)
		}
	}

	return []callbackSpec{
		{prefix: "status", adminOnly: true, arity: 2, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			id, ok := parseID(params[0])
			if !ok {
				return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Помилка обробки запиту.")
			}
			return e.needStatusChange(ctx, cb, id, params[1])
		}},

		{prefix: "reply_need", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть текст відповіді:"); err != nil {
				return err
			}
			return e.beginNeedReply(ctx, cb.UserID, cb.ChatID, id)
		})},
		{prefix: "done_need", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			n, err := e.needs.FindByID(ctx, id)
			if err == domain.ErrNotFound {
				return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Заявка не знайдена")
			}
			if err != nil {
				return err
			}
			return e.beginDoneCompose(ctx, cb, session.FamilyNeed, n.ID, n.UserID, n.Status, n.Archived)
		})},
		{prefix: "delete_need", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.deleteRecordStart(ctx, cb, "need", id)
		})},
		{prefix: "confirm_delete_need", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.deleteRecordConfirm(ctx, cb, "need", id)
		})},
		{prefix: "cancel_delete_need", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.deleteRecordCancel(ctx, cb, "need", id)
		})},

		{prefix: "clarify_prayer", adminOnly: true, arity: 1, handle: oneID(e.beginPrayerClarify)},
		{prefix: "reply_prayer", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.beginPrayerFinalReply(ctx, cb, id, 0)
		})},
		{prefix: "reply_clarify_prayer", arity: 2, handle: twoIDs(e.beginPrayerClarifyReply)},
		{prefix: "final_reply_prayer", adminOnly: true, arity: 2, handle: twoIDs(e.beginPrayerFinalReply)},
		{prefix: "done_prayer", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			p, err := e.prayers.FindByID(ctx, id)
			if err == domain.ErrNotFound {
				return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Потреба не знайдена")
			}
			if err != nil {
				return err
			}
			return e.beginDoneCompose(ctx, cb, session.FamilyPray, p.ID, p.UserID, p.Status, p.Archived)
		})},
		{prefix: "delete_prayer", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.deleteRecordStart(ctx, cb, "prayer", id)
		})},
		{prefix: "confirm_delete_prayer", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.deleteRecordConfirm(ctx, cb, "prayer", id)
		})},
		{prefix: "cancel_delete_prayer", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.deleteRecordCancel(ctx, cb, "prayer", id)
		})},

		{prefix: "clarify_literature", adminOnly: true, arity: 1, handle: oneID(e.beginLiteratureClarify)},
		{prefix: "reply_literature", adminOnly: true, arity: 1, handle: oneID(func(ctx context.Context, cb CallbackEvent, id int64) error {
			return e.beginLiteratureReply(ctx, cb, id, 0)
		})},
		{prefix: "reply_clarify_literature", arity: 2, handle: twoIDs(e.beginLiteratureClarifyReply)},
		{prefix: "final_reply_literature", adminOnly: true, arity: 2, handle: twoIDs(e.beginLiteratureReply)},

		{prefix: "member_to_candidate", adminOnly: true, arity: 1, handle: oneID(e.memberMoveStart)},
		{prefix: "member_to_candidate_confirm", adminOnly: true, arity: 1, handle: oneID(e.memberMoveConfirm)},
		{prefix: "member_to_candidate_cancel", adminOnly: true, arity: 1, handle: oneID(e.memberMoveCancel)},

		{prefix: "needs_format", adminOnly: true, arity: 1, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			return e.needsFormat(ctx, cb, params[0])
		}},
		{prefix: "prayers_format", adminOnly: true, arity: 1, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			return e.prayersFormat(ctx, cb, params[0])
		}},
		{prefix: "members_format", adminOnly: true, arity: 1, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			return e.membersFormat(ctx, cb, params[0])
		}},
		{prefix: "candidates_format", adminOnly: true, arity: 1, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			return e.candidatesFormat(ctx, cb, params[0])
		}},

		{prefix: "lesson", arity: 1, handle: oneID(e.lessonCallback)},
		{prefix: "register_baptism", arity: 1, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			return e.registerBaptismChoice(ctx, cb, params[0] == "yes")
		}},
		{prefix: "announce_aud", adminOnly: true, arity: 1, handle: func(ctx context.Context, cb CallbackEvent, params []string) error {
			return e.announceAudience(ctx, cb, params[0])
		}},
	}
}

// HandleCallback routes an inline-button press. The admin requirement of a
// pattern is enforced here, before its handler runs; unauthorized attempts
// get a fixed denial and a security log event.
func (e *Engine) HandleCallback(ctx context.Context, cb CallbackEvent) (bool, error) {
	parts := strings.Split(cb.Data, callbackSep)
	prefix := parts[0]
	params := parts[1:]

	for _, spec := range e.specs {
		if spec.prefix != prefix {
			continue
		}
		if spec.adminOnly && !e.roles.IsAdmin(cb.UserID) {
			logger.LogEvent(ctx, e.log, slog.LevelWarn, "security.callback_denied",
				slog.Int64("user_id", cb.UserID),
				slog.String("data", logger.SanitizeLimit(cb.Data, 64)))
			return true, e.msg.AnswerCallback(ctx, cb.CallbackID, "⛔ Недостатньо прав для цієї дії.")
		}
		if len(params) < spec.arity {
			return true, e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Помилка обробки запиту.")
		}
		return true, spec.handle(ctx, cb, params)
	}
	return false, nil
}
