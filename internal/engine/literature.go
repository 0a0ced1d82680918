package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"churchbot/core/logger"
	"churchbot/internal/domain"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// StartLiterature begins a literature search request. Unregistered users
// are identified by their Telegram name.
func (e *Engine) StartLiterature(ctx context.Context, in Incoming) error {
	var userName string
	member, err := e.members.FindByID(ctx, in.UserID)
	switch {
	case err == nil:
		userName = member.Name
	case err == domain.ErrNotFound:
		userName = strings.TrimSpace(in.FirstName + " " + in.LastName)
	default:
		return e.failSession(ctx, in, err)
	}

	sess := session.New(session.At(session.FamilyLiterature, stageRequest))
	sess.Data[keyName] = userName
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID,
		"📚 Яку літературу ви шукаєте?\n\nОпишіть, будь ласка, ваш запит (наприклад: 'створення церкви', 'біблійні коментарі', тощо):",
		menu.Keyboard{})
}

func (e *Engine) literatureRequest(ctx context.Context, in Incoming, sess session.Session, text string) error {
	req := SanitizeText(text, maxDescriptionLen)
	if req == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Запит не може бути порожнім або перевищувати 5000 символів.", menu.Keyboard{})
	}

	r := &domain.LiteratureRequest{
		ID:        e.ids.Next(),
		UserID:    in.UserID,
		Request:   req,
		Status:    domain.StatusNew,
		CreatedAt: e.now(),
	}
	if name, ok := sess.Data.String(keyName); ok && name != "" {
		r.Name = &name
	}
	if err := e.literature.Insert(ctx, r); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("insert literature request: %w", err))
	}

	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	if err := e.msg.SendText(ctx, in.ChatID,
		"✅ Ваш запит надіслано! Почекайте, будь ласка, наші брати вам допоможуть 🙏", kb); err != nil {
		return err
	}
	e.notifyAdmins(ctx, session.KindLiterature, r.ID,
		literatureAdminNotification(r), menu.LiteratureActions(r.ID))
	return nil
}

// beginLiteratureClarify seeds the clarification-question stage.
func (e *Engine) beginLiteratureClarify(ctx context.Context, cb CallbackEvent, requestID int64) error {
	r, err := e.literature.FindByID(ctx, requestID)
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Запит не знайдений")
	}
	if err != nil {
		return err
	}

	sess := session.New(session.At(session.FamilyLiterature, stageClarifyText))
	sess.Data[keyRecordID] = r.ID
	sess.Data[keyTargetUser] = r.UserID
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть питання для уточнення:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		fmt.Sprintf("✍️ Введіть питання для уточнення до запиту:\n\n\"%s\"\n\n(Ви можете використати до 4000 символів)", r.Request),
		menu.Keyboard{})
}

// literatureClarifyText sends the clarification question to the user,
// after preview confirmation.
func (e *Engine) literatureClarifyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	question, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд питання:*", "✍️ Введіть питання ще раз:")
	if !proceed {
		return err
	}

	requestID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)

	if _, err := e.literature.FindByID(ctx, requestID); err != nil {
		if err == domain.ErrNotFound {
			e.sessions.Clear(in.UserID)
			return e.msg.SendText(ctx, in.ChatID, "⚠️ Запит не знайдений.", menu.Keyboard{})
		}
		return e.failSession(ctx, in, err)
	}
	if err := e.literature.SetClarification(ctx, requestID, in.UserID, question); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("set literature clarification: %w", err))
	}

	payload := fmt.Sprintf("reply_clarify_literature|%d|%d", requestID, in.UserID)
	userMsg := fmt.Sprintf("❓ *Уточнення до вашого запиту на літературу:*\n\n%s\n\n_Натисніть кнопку нижче, щоб відповісти:_", question)
	if err := e.msg.SendText(ctx, targetUser, userMsg, menu.ReplyButton(payload)); err != nil {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання уточнення. Можливо, користувач заблокував бота.", menu.Keyboard{})
	}

	e.sessions.Clear(in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Питання надіслано користувачу! Очікуємо відповіді.", menu.Keyboard{})
}

// beginLiteratureClarifyReply seeds the user's answer stage.
func (e *Engine) beginLiteratureClarifyReply(ctx context.Context, cb CallbackEvent, requestID, adminID int64) error {
	if _, err := e.literature.FindByID(ctx, requestID); err != nil {
		if err == domain.ErrNotFound {
			return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Запит не знайдений")
		}
		return err
	}

	sess := session.New(session.At(session.FamilyLiterature, stageClarifyReplyText))
	sess.Data[keyRecordID] = requestID
	sess.Data[keyAdminID] = adminID
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть вашу відповідь:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		"✍️ Введіть вашу відповідь на питання:\n\n(Ви можете використати до 4000 символів)", menu.Keyboard{})
}

// literatureClarifyReplyText forwards the user's answer to the asking admin.
func (e *Engine) literatureClarifyReplyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	answer := SanitizeText(text, maxReplyLen)
	if answer == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Текст не може бути порожнім або перевищувати 4000 символів.", menu.Keyboard{})
	}

	requestID, _ := sess.Data.Int64(keyRecordID)
	adminID, _ := sess.Data.Int64(keyAdminID)

	r, err := e.literature.FindByID(ctx, requestID)
	if err == domain.ErrNotFound {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID, "⚠️ Запит не знайдений.", menu.Keyboard{})
	}
	if err != nil {
		return e.failSession(ctx, in, err)
	}
	if err := e.literature.AppendClarificationReply(ctx, requestID, answer); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("append clarification reply: %w", err))
	}

	payload := fmt.Sprintf("final_reply_literature|%d|%d", requestID, in.UserID)
	adminMsg := fmt.Sprintf("💬 *Відповідь на уточнення:*\n\n%s\n\n_Запит: %s_", answer, r.Request)
	if err := e.msg.SendText(ctx, adminID, adminMsg, menu.ReplyButton(payload)); err != nil {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID, "⚠️ Помилка надсилання відповіді.", menu.Keyboard{})
	}

	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Ваша відповідь надіслана! 🙏", kb)
}

// beginLiteratureReply seeds the admin reply stage. The stage accepts text
// and any number of follow-up documents.
func (e *Engine) beginLiteratureReply(ctx context.Context, cb CallbackEvent, requestID, targetUser int64) error {
	r, err := e.literature.FindByID(ctx, requestID)
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Запит не знайдений")
	}
	if err != nil {
		return err
	}
	if targetUser == 0 {
		targetUser = r.UserID
	}

	sess := session.New(session.At(session.FamilyLiterature, stageReplyText))
	sess.Data[keyRecordID] = r.ID
	sess.Data[keyTargetUser] = targetUser
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть текст відповіді або надішліть файл:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		fmt.Sprintf("✍️ Введіть текст відповіді для запиту:\n\n\"%s\"\n\n(Ви можете надіслати текст або файл. Можна надіслати кілька файлів підряд)", r.Request),
		menu.Keyboard{})
}

// literatureReplyText delivers the admin's reply, after preview
// confirmation, and marks the request answered.
func (e *Engine) literatureReplyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	reply, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд відповіді:*", "✍️ Введіть текст відповіді ще раз:")
	if !proceed {
		return err
	}

	requestID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)

	if err := e.msg.SendText(ctx, targetUser,
		"📬 *Відповідь на ваш запит на літературу:*\n\n"+reply, menu.Keyboard{}); err != nil {
		e.sessions.Clear(in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання відповіді. Можливо, користувач заблокував бота.", menu.Keyboard{})
	}
	if err := e.literature.MarkReplied(ctx, requestID, in.UserID, e.now()); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("mark literature replied: %w", err))
	}

	e.routes.ClearTarget(in.UserID, session.KindLiterature)
	e.sessions.Clear(in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Відповідь успішно надіслана!", menu.Keyboard{})
}

// literatureReplyDocument forwards a file to the requester. The session
// stays open so the admin can send several files in a row.
func (e *Engine) literatureReplyDocument(ctx context.Context, doc DocumentEvent, sess session.Session) error {
	targetUser, _ := sess.Data.Int64(keyTargetUser)

	if err := e.msg.SendDocument(ctx, targetUser, doc.FileID,
		"📎 Файл відповідно до вашого запиту на літературу"); err != nil {
		logger.LogEvent(ctx, e.log, slog.LevelWarn, "literature.file_failed",
			slog.Int64("user_id", targetUser), slog.String("err", err.Error()))
		return e.msg.SendText(ctx, doc.ChatID,
			"⚠️ Помилка надсилання файлу. Можливо, користувач заблокував бота.", menu.Keyboard{})
	}
	return e.msg.SendText(ctx, doc.ChatID, "✅ Файл успішно надіслано!", menu.Keyboard{})
}
