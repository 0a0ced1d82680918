package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"churchbot/core/logger"
	"churchbot/internal/domain"
	"churchbot/internal/lifecycle"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// StartPray begins the prayer request form. Members may attach their name
// or stay anonymous; guests are always anonymous.
func (e *Engine) StartPray(ctx context.Context, in Incoming) error {
	member, err := e.members.FindByID(ctx, in.UserID)
	if err == nil {
		sess := session.New(session.At(session.FamilyPray, stageAnonymous))
		sess.Data[keyName] = member.Name
		e.sessions.Set(in.UserID, sess)
		return e.msg.SendText(ctx, in.ChatID,
			"🙏 Дякуємо за вашу молитвенну потребу!\n\nХочете додати ваше ім'я? (напишіть 'так' або 'ні', або просто введіть опис потреби)",
			menu.Keyboard{})
	}
	if err != domain.ErrNotFound {
		return e.failSession(ctx, in, err)
	}

	e.sessions.Set(in.UserID, session.New(session.At(session.FamilyPray, stageDescription)))
	return e.msg.SendText(ctx, in.ChatID,
		"🙏 Опишіть, будь ласка, молитвенну потребу:", menu.Keyboard{})
}

// prayAnonymous interprets the name question: yes keeps the name, no drops
// it, and any other text is taken as the description itself.
func (e *Engine) prayAnonymous(ctx context.Context, in Incoming, sess session.Session, text string) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "так", "yes":
		sess.Step = session.At(session.FamilyPray, stageDescription)
		e.sessions.Set(in.UserID, sess)
		return e.msg.SendText(ctx, in.ChatID,
			"✍️ Опишіть, будь ласка, молитвенну потребу:", menu.Keyboard{})
	case "ні", "no":
		delete(sess.Data, keyName)
		sess.Step = session.At(session.FamilyPray, stageDescription)
		e.sessions.Set(in.UserID, sess)
		return e.msg.SendText(ctx, in.ChatID,
			"✍️ Опишіть, будь ласка, молитвенну потребу:", menu.Keyboard{})
	}
	return e.prayDescription(ctx, in, sess, text)
}

func (e *Engine) prayDescription(ctx context.Context, in Incoming, sess session.Session, text string) error {
	desc := SanitizeText(text, maxDescriptionLen)
	if desc == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Опис не може бути порожнім або перевищувати 5000 символів.", menu.Keyboard{})
	}

	p := &domain.Prayer{
		ID:          e.ids.Next(),
		UserID:      in.UserID,
		Description: desc,
		Status:      domain.StatusNew,
		CreatedAt:   e.now(),
	}
	if name, ok := sess.Data.String(keyName); ok && name != "" {
		p.Name = &name
	}
	if err := e.prayers.Insert(ctx, p); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("insert prayer: %w", err))
	}

	e.sessions.Clear(in.UserID)
	if err := e.msg.SendText(ctx, in.ChatID,
		"✅ Дякуємо! Ваша молитвенна потреба збережена 🙏", menu.Keyboard{}); err != nil {
		return err
	}
	e.notifyAdmins(ctx, session.KindPrayer, p.ID, prayerAdminNotification(p), menu.PrayerActions(p.ID))
	return nil
}

// beginPrayerClarify seeds the clarification-question stage for an admin.
func (e *Engine) beginPrayerClarify(ctx context.Context, cb CallbackEvent, prayerID int64) error {
	p, err := e.prayers.FindByID(ctx, prayerID)
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Потреба не знайдена")
	}
	if err != nil {
		return err
	}

	sess := session.New(session.At(session.FamilyPray, stageClarifyText))
	sess.Data[keyRecordID] = p.ID
	sess.Data[keyTargetUser] = p.UserID
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть питання для уточнення:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		fmt.Sprintf("✍️ Введіть питання для уточнення до потреби:\n\n\"%s\"\n\n(Ви можете використати до 4000 символів)", p.Description),
		menu.Keyboard{})
}

// prayClarifyText sends the admin's clarification question to the user,
// after preview confirmation.
func (e *Engine) prayClarifyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	question, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд питання:*", "✍️ Введіть питання ще раз:")
	if !proceed {
		return err
	}

	prayerID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)

	if err := e.prayers.SetClarification(ctx, prayerID, in.UserID, question); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("set prayer clarification: %w", err))
	}

	payload := fmt.Sprintf("reply_clarify_prayer|%d|%d", prayerID, in.UserID)
	userMsg := fmt.Sprintf("❓ *Уточнення до вашої молитвенної потреби:*\n\n%s\n\n_Натисніть кнопку нижче, щоб відповісти:_", question)
	if err := e.msg.SendText(ctx, targetUser, userMsg, menu.ReplyButton(payload)); err != nil {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання уточнення. Можливо, користувач заблокував бота.", menu.Keyboard{})
	}

	e.sessions.Clear(in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Питання надіслано користувачу! Очікуємо відповіді.", menu.Keyboard{})
}

// beginPrayerClarifyReply seeds the user's answer stage after they press
// the reply button on a clarification question.
func (e *Engine) beginPrayerClarifyReply(ctx context.Context, cb CallbackEvent, prayerID, adminID int64) error {
	if _, err := e.prayers.FindByID(ctx, prayerID); err != nil {
		if err == domain.ErrNotFound {
			return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Потреба не знайдена")
		}
		return err
	}

	sess := session.New(session.At(session.FamilyPray, stageClarifyReplyText))
	sess.Data[keyRecordID] = prayerID
	sess.Data[keyAdminID] = adminID
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть вашу відповідь:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		"✍️ Введіть вашу відповідь на питання:\n\n(Ви можете використати до 4000 символів)", menu.Keyboard{})
}

// prayClarifyReplyText forwards the user's answer to the asking admin.
// User answers skip the preview protocol.
func (e *Engine) prayClarifyReplyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	answer := SanitizeText(text, maxReplyLen)
	if answer == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Текст не може бути порожнім або перевищувати 4000 символів.", menu.Keyboard{})
	}

	prayerID, _ := sess.Data.Int64(keyRecordID)
	adminID, _ := sess.Data.Int64(keyAdminID)

	p, err := e.prayers.FindByID(ctx, prayerID)
	if err == domain.ErrNotFound {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID, "⚠️ Потреба не знайдена.", menu.Keyboard{})
	}
	if err != nil {
		return e.failSession(ctx, in, err)
	}
	if err := e.prayers.SetClarificationReply(ctx, prayerID, answer); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("set clarification reply: %w", err))
	}

	payload := fmt.Sprintf("final_reply_prayer|%d|%d", prayerID, in.UserID)
	adminMsg := fmt.Sprintf("💬 *Відповідь на уточнення:*\n\n%s\n\n_Потреба: %s_", answer, p.Description)
	if err := e.msg.SendText(ctx, adminID, adminMsg, menu.ReplyButton(payload)); err != nil {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID, "⚠️ Помилка надсилання відповіді.", menu.Keyboard{})
	}

	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Ваша відповідь надіслана! 🙏", kb)
}

// beginPrayerFinalReply seeds the final-reply stage for an admin.
func (e *Engine) beginPrayerFinalReply(ctx context.Context, cb CallbackEvent, prayerID, targetUser int64) error {
	p, err := e.prayers.FindByID(ctx, prayerID)
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Потреба не знайдена")
	}
	if err != nil {
		return err
	}
	if targetUser == 0 {
		targetUser = p.UserID
	}
	if err := lifecycle.CanReply(p.Status, p.Archived); err != nil {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ На цю потребу вже неможливо відповісти.")
	}

	sess := session.New(session.At(session.FamilyPray, stageFinalReplyText))
	sess.Data[keyRecordID] = prayerID
	sess.Data[keyTargetUser] = targetUser
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть текст відповіді:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		"✍️ Введіть текст відповіді:\n\n(Ви можете використати до 4000 символів)", menu.Keyboard{})
}

// prayFinalReplyText delivers the admin's reply to the user and marks the
// prayer replied, after preview confirmation.
func (e *Engine) prayFinalReplyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	reply, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд відповіді:*", "✍️ Введіть текст відповіді ще раз:")
	if !proceed {
		return err
	}

	prayerID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)

	if err := e.msg.SendText(ctx, targetUser,
		"📬 *Відповідь на вашу молитвенну потребу:*\n\n"+reply, menu.Keyboard{}); err != nil {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання відповіді. Можливо, користувач заблокував бота.", menu.Keyboard{})
	}
	if err := e.prayers.MarkReplied(ctx, prayerID, in.UserID, reply, e.now()); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("mark prayer replied: %w", err))
	}

	e.routes.ClearTarget(in.UserID, session.KindPrayer)
	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Відповідь успішно надіслана!", kb)
}

// prayDoneText composes the closing message and archives the prayer.
func (e *Engine) prayDoneText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	msg, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд завершального повідомлення:*", "✍️ Введіть завершальне повідомлення ще раз:")
	if !proceed {
		return err
	}

	prayerID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)
	messageID, _ := sess.Data.Int64(keyMessageID)

	if err := e.msg.SendText(ctx, targetUser,
		"✅ *Ваша молитвенна потреба виконана:*\n\n"+msg, menu.Keyboard{}); err != nil {
		e.sessions.Clear(in.UserID)
		kb, _ := e.mainMenu(ctx, in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання повідомлення. Потребу не переміщено в архів.", kb)
	}
	if err := e.prayers.MarkDone(ctx, prayerID, in.UserID, msg, e.now()); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("mark prayer done: %w", err))
	}
	if messageID != 0 {
		if err := e.msg.EditReplyMarkup(ctx, in.ChatID, int(messageID), menu.Keyboard{}); err != nil {
			logger.LogEvent(ctx, e.log, slog.LevelWarn, "prayer.strip_buttons_failed",
				slog.String("err", err.Error()))
		}
	}

	e.routes.ClearTarget(in.UserID, session.KindPrayer)
	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Потребу завершено та переміщено в архів.", kb)
}
