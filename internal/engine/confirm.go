package engine

import (
	"context"
	"fmt"

	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// handleConfirm interprets input while a session sits in the confirm
// sub-state. Matching is exact label equality; anything else re-displays
// the preview without touching state.
func (e *Engine) handleConfirm(ctx context.Context, in Incoming, sess session.Session, text string) error {
	switch text {
	case menu.BtnConfirmSend:
		sess.Step = sess.Step.Base()
		sess.Data[keyConfirmed] = true
		e.sessions.Set(in.UserID, sess)
		h, ok := e.registry.Resolve(sess.Step)
		if !ok {
			e.sessions.Clear(in.UserID)
			return nil
		}
		return h(ctx, in, sess, "")

	case menu.BtnConfirmRewrite:
		delete(sess.Data, keyPendingText)
		delete(sess.Data, keyConfirmed)
		prompt, _ := sess.Data.String(keyRewritePrompt)
		if prompt == "" {
			prompt = "✍️ Введіть текст ще раз:"
		}
		sess.Step = sess.Step.Base()
		e.sessions.Set(in.UserID, sess)
		return e.msg.SendText(ctx, in.ChatID, prompt, menu.Keyboard{Remove: true})

	case menu.BtnConfirmCancel:
		e.sessions.Clear(in.UserID)
		kb, _ := e.mainMenu(ctx, in.UserID)
		return e.msg.SendText(ctx, in.ChatID, "❌ Скасовано.", kb)

	default:
		preview, _ := sess.Data.String(keyPreview)
		if preview == "" {
			preview = "Підтвердіть надсилання:"
		}
		return e.msg.SendText(ctx, in.ChatID, preview, menu.ConfirmSend())
	}
}

// stagePending is the preview half of every broadcast-capable stage. On
// first entry it sanitizes the text, stores it as the pending payload, and
// shows the confirm triplet. After the user confirms, it hands the payload
// back exactly once so the stage can perform its side effect.
func (e *Engine) stagePending(ctx context.Context, in Incoming, sess session.Session, text string, maxLen int, previewTitle, rewritePrompt string) (string, bool, error) {
	if sess.Data.Bool(keyConfirmed) {
		pending, _ := sess.Data.String(keyPendingText)
		delete(sess.Data, keyConfirmed)
		delete(sess.Data, keyPendingText)
		delete(sess.Data, keyPreview)
		delete(sess.Data, keyRewritePrompt)
		return pending, true, nil
	}

	clean := SanitizeText(text, maxLen)
	if clean == "" {
		err := e.msg.SendText(ctx, in.ChatID,
			fmt.Sprintf("⚠️ Текст не може бути порожнім або перевищувати %d символів.", maxLen),
			menu.Keyboard{})
		return "", false, err
	}

	preview := previewTitle + "\n\n" + clean
	sess.Data[keyPendingText] = clean
	sess.Data[keyPreview] = preview
	sess.Data[keyRewritePrompt] = rewritePrompt
	sess.Step = sess.Step.WithConfirm()
	e.sessions.Set(in.UserID, sess)
	return "", false, e.msg.SendText(ctx, in.ChatID, preview, menu.ConfirmSend())
}
