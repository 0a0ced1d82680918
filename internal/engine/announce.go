package engine

import (
	"context"
	"fmt"

	"churchbot/internal/domain"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

var audienceLabels = map[string]string{
	"baptized":   "хрещених членів церкви",
	"unbaptized": "нехрещених (кандидатів)",
	"all":        "всіх зареєстрованих",
}

// StartAnnounce begins the broadcast flow for an administrator.
func (e *Engine) StartAnnounce(ctx context.Context, in Incoming) error {
	e.sessions.Set(in.UserID, session.New(session.At(session.FamilyAnnounce, stageAudience)))
	return e.msg.SendText(ctx, in.ChatID,
		"📢 Створення оголошення\n\nОберіть цільову аудиторію:", menu.AnnounceAudience())
}

// announceAwaitingAudience catches free text while the audience buttons
// are on screen.
func (e *Engine) announceAwaitingAudience(ctx context.Context, in Incoming, _ session.Session, _ string) error {
	return e.msg.SendText(ctx, in.ChatID,
		"📢 Оберіть, будь ласка, цільову аудиторію кнопкою нижче:", menu.AnnounceAudience())
}

// announceAudience applies the audience choice.
func (e *Engine) announceAudience(ctx context.Context, cb CallbackEvent, audience string) error {
	label, ok := audienceLabels[audience]
	if !ok {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Невідома аудиторія.")
	}
	sess, active := e.sessions.Get(cb.UserID)
	if !active || sess.Step.Family != session.FamilyAnnounce {
		sess = session.New(session.At(session.FamilyAnnounce, stageText))
	}
	sess.Data[keyAudience] = audience
	sess.Step = session.At(session.FamilyAnnounce, stageText)
	e.sessions.Set(cb.UserID, sess)

	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Обрано: "+label); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		fmt.Sprintf("📢 Оголошення для %s\n\nВведіть текст оголошення:", label), menu.Keyboard{})
}

// announceText previews the announcement, then fans it out to the chosen
// audience and reports the delivery aggregate.
func (e *Engine) announceText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	audience, _ := sess.Data.String(keyAudience)
	if audience == "" {
		audience = "all"
	}
	label := audienceLabels[audience]

	body, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		fmt.Sprintf("📋 *Перегляд оголошення для %s:*", label),
		"✍️ Введіть текст оголошення ще раз:")
	if !proceed {
		return err
	}

	var members []domain.Member
	switch audience {
	case "baptized":
		members, err = e.members.ListBaptized(ctx)
	case "unbaptized":
		members, err = e.members.ListCandidates(ctx)
	default:
		members, err = e.members.ListAll(ctx)
	}
	if err != nil {
		return e.failSession(ctx, in, fmt.Errorf("list audience: %w", err))
	}

	if len(members) == 0 {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			fmt.Sprintf("⚠️ Немає %s для розсилки.", label), menu.Keyboard{})
	}

	recipients := make([]int64, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, m.TelegramID)
	}
	sent, failed := e.broadcast(ctx, recipients, "📢 *Оголошення*\n\n"+body)

	e.sessions.Clear(in.UserID)
	report := fmt.Sprintf(
		"✅ Оголошення надіслано %s!\n\n📊 Статистика:\n• Відправлено: %d\n• Не вдалося відправити: %d",
		label, sent, failed)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, report, kb)
}
