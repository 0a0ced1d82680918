package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"churchbot/core/logger"
	"churchbot/internal/domain"
	"churchbot/internal/lifecycle"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// StartNeed begins the help request form. Registered members go straight to
// the description; guests are asked for contact details first.
func (e *Engine) StartNeed(ctx context.Context, in Incoming) error {
	sess := session.New(session.At(session.FamilyNeed, stageTypeSelection))

	member, err := e.members.FindByID(ctx, in.UserID)
	if err == nil {
		sess.Data[keyMemberName] = member.Name
		sess.Data[keyMemberBaptism] = member.Baptism
		sess.Data[keyMemberPhone] = member.Phone
	} else if err != domain.ErrNotFound {
		return e.failSession(ctx, in, err)
	}

	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID, "🙏 Оберіть тип допомоги:", menu.NeedType())
}

func (e *Engine) needTypeSelection(ctx context.Context, in Incoming, sess session.Session, text string) error {
	var needType domain.NeedType
	switch text {
	case menu.BtnNeedHumanitarian:
		needType = domain.NeedHumanitarian
	case menu.BtnNeedOther:
		needType = domain.NeedOther
	default:
		return e.msg.SendText(ctx, in.ChatID, "🙏 Оберіть тип допомоги:", menu.NeedType())
	}

	sess.Data[keyNeedType] = string(needType)
	if _, isMember := sess.Data.String(keyMemberName); isMember {
		sess.Step = session.At(session.FamilyNeed, stageDescription)
		e.sessions.Set(in.UserID, sess)
		return e.msg.SendText(ctx, in.ChatID,
			"✍️ Опишіть, будь ласка, вашу потребу:", menu.Main(true))
	}

	sess.Step = session.At(session.FamilyNeed, stageGuestName)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID,
		"👋 Вкажіть, будь ласка, ваше ім'я та прізвище:", menu.Main(false))
}

func (e *Engine) needGuestName(ctx context.Context, in Incoming, sess session.Session, text string) error {
	name := ValidateName(text)
	if name == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Будь ласка, введіть коректне ім'я (2-100 символів, тільки букви).", menu.Keyboard{})
	}
	sess.Data[keyName] = name
	sess.Step = session.At(session.FamilyNeed, stageGuestPhone)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID, "📞 Вкажіть ваш номер телефону (+380...):", menu.Keyboard{})
}

func (e *Engine) needGuestPhone(ctx context.Context, in Incoming, sess session.Session, text string) error {
	phone := NormalizePhone(text)
	if phone == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Будь ласка, введіть коректний номер телефону у форматі +380XXXXXXXXX або 0XXXXXXXXX.",
			menu.Keyboard{})
	}
	sess.Data[keyPhone] = phone
	sess.Step = session.At(session.FamilyNeed, stageGuestDescription)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID, "✍️ Опишіть вашу потребу:", menu.Keyboard{})
}

func (e *Engine) needGuestDescription(ctx context.Context, in Incoming, sess session.Session, text string) error {
	desc := SanitizeText(text, maxDescriptionLen)
	if desc == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Опис не може бути порожнім або перевищувати 5000 символів.", menu.Keyboard{})
	}
	name, _ := sess.Data.String(keyName)
	phone, _ := sess.Data.String(keyPhone)
	return e.submitNeed(ctx, in, sess, &domain.Need{
		Name:        name,
		Baptism:     "Не член церкви",
		Phone:       phone,
		Description: desc,
	}, "✅ Дякуємо! Ваша заявка збережена. Ми з вами зв'яжемось 🙏", false)
}

func (e *Engine) needDescription(ctx context.Context, in Incoming, sess session.Session, text string) error {
	desc := SanitizeText(text, maxDescriptionLen)
	if desc == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Опис не може бути порожнім або перевищувати 5000 символів.", menu.Keyboard{})
	}
	name, _ := sess.Data.String(keyMemberName)
	baptism, _ := sess.Data.String(keyMemberBaptism)
	phone, _ := sess.Data.String(keyMemberPhone)
	return e.submitNeed(ctx, in, sess, &domain.Need{
		Name:        name,
		Baptism:     baptism,
		Phone:       phone,
		Description: desc,
	}, "✅ Ваша заявка на допомогу збережена 🙏", true)
}

func (e *Engine) submitNeed(ctx context.Context, in Incoming, sess session.Session, n *domain.Need, thanks string, registered bool) error {
	needType, _ := sess.Data.String(keyNeedType)
	if needType == "" {
		needType = string(domain.NeedOther)
	}
	n.ID = e.ids.Next()
	n.UserID = in.UserID
	n.Type = domain.NeedType(needType)
	n.Status = domain.StatusNew
	n.CreatedAt = e.now()

	if err := e.needs.Insert(ctx, n); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("insert need: %w", err))
	}

	e.sessions.Clear(in.UserID)
	if err := e.msg.SendText(ctx, in.ChatID, thanks, menu.Main(registered)); err != nil {
		return err
	}
	e.notifyAdmins(ctx, session.KindNeed, n.ID, needAdminNotification(n), menu.AdminReply())
	return nil
}

// startRoutedNeedReply handles the fixed "write reply" keyboard button.
// The target need comes from the admin's route entry, not the button.
func (e *Engine) startRoutedNeedReply(ctx context.Context, in Incoming) error {
	needID, ok := e.routes.Target(in.UserID, session.KindNeed)
	if !ok {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Не знайдено активної заявки. Очікуйте нове повідомлення.", menu.Keyboard{})
	}
	return e.beginNeedReply(ctx, in.UserID, in.ChatID, needID)
}

// beginNeedReply seeds the reply-compose stage for a need.
func (e *Engine) beginNeedReply(ctx context.Context, adminID, chatID, needID int64) error {
	need, err := e.needs.FindByID(ctx, needID)
	if err == domain.ErrNotFound {
		e.routes.ClearTarget(adminID, session.KindNeed)
		return e.msg.SendText(ctx, chatID, "⚠️ Заявка не знайдена.", menu.Keyboard{})
	}
	if err != nil {
		return err
	}
	if err := lifecycle.CanReply(need.Status, need.Archived); err != nil {
		return e.msg.SendText(ctx, chatID, "⚠️ На цю заявку вже неможливо відповісти.", menu.Keyboard{})
	}

	sess := session.New(session.At(session.FamilyNeed, stageReplyText))
	sess.Data[keyRecordID] = need.ID
	sess.Data[keyTargetUser] = need.UserID
	e.sessions.Set(adminID, sess)
	return e.msg.SendText(ctx, chatID,
		fmt.Sprintf("✍️ Введіть текст відповіді для %s:\n\n(Ви можете використати до 4000 символів)", need.Name),
		menu.Keyboard{})
}

// needReplyText composes the admin's reply, with preview confirmation,
// then delivers it and marks the need replied.
func (e *Engine) needReplyText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	reply, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд відповіді:*", "✍️ Введіть текст відповіді ще раз:")
	if !proceed {
		return err
	}

	needID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)

	if err := e.msg.SendText(ctx, targetUser,
		"📬 *Відповідь на вашу заявку:*\n\n"+reply, menu.Keyboard{}); err != nil {
		e.sessions.Clear(in.UserID)
		kb, _ := e.mainMenu(ctx, in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання відповіді. Можливо, користувач заблокував бота.", kb)
	}
	if err := e.needs.MarkReplied(ctx, needID, in.UserID, reply, e.now()); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("mark need replied: %w", err))
	}

	e.routes.ClearTarget(in.UserID, session.KindNeed)
	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Відповідь успішно надіслана!", kb)
}

// needStatusChange applies a status inline button on a need card.
func (e *Engine) needStatusChange(ctx context.Context, cb CallbackEvent, needID int64, which string) error {
	need, err := e.needs.FindByID(ctx, needID)
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Не знайдено заявку з цим ID.")
	}
	if err != nil {
		return err
	}

	switch which {
	case "waiting":
		if need.Status == domain.StatusWaiting {
			return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Цей статус уже встановлено.")
		}
		if err := lifecycle.CanMarkWaiting(need.Status, need.Archived); err != nil {
			return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Зміна статусу недоступна.")
		}
		now := e.now()
		if err := e.needs.MarkWaiting(ctx, needID, now); err != nil {
			return fmt.Errorf("mark need waiting: %w", err)
		}
		need.Status = domain.StatusWaiting
		need.WaitingAt = &now
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✅ Статус оновлено!"); err != nil {
			return err
		}
		// Courtesy note to the submitter; delivery failure is non-fatal.
		if err := e.msg.SendText(ctx, need.UserID,
			"🕓 Ваша заявка в обробці. Ми з вами зв'яжемось 🙏", menu.Keyboard{}); err != nil {
			logger.LogEvent(ctx, e.log, slog.LevelWarn, "need.courtesy_failed",
				slog.Int64("user_id", need.UserID), slog.String("err", err.Error()))
		}
		return e.msg.EditMessageText(ctx, cb.ChatID, cb.MessageID, needCard(need),
			menu.RecordActions("need", need.ID, need.Status, need.Archived))

	case "done":
		// Completion requires a closing message, so it re-enters the
		// compose flow instead of flipping the status directly.
		return e.beginDoneCompose(ctx, cb, session.FamilyNeed, needID, need.UserID, need.Status, need.Archived)
	}
	return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Невідомий статус.")
}

// beginDoneCompose seeds the done-message stage for a need or prayer.
func (e *Engine) beginDoneCompose(ctx context.Context, cb CallbackEvent, family session.Family, recordID, targetUser int64, status domain.Status, archived bool) error {
	if err := lifecycle.CanComplete(status, archived); err != nil {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Запис уже завершено.")
	}
	sess := session.New(session.At(family, stageDoneText))
	sess.Data[keyRecordID] = recordID
	sess.Data[keyTargetUser] = targetUser
	sess.Data[keyMessageID] = int64(cb.MessageID)
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✍️ Введіть завершальне повідомлення:"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		"✍️ Введіть завершальне повідомлення для користувача:\n\n(Після надсилання запис буде переміщено в архів)",
		menu.Keyboard{})
}

// needDoneText composes the closing message, archives the need, and
// strips the action buttons from the original card.
func (e *Engine) needDoneText(ctx context.Context, in Incoming, sess session.Session, text string) error {
	msg, proceed, err := e.stagePending(ctx, in, sess, text, maxReplyLen,
		"📋 *Перегляд завершального повідомлення:*", "✍️ Введіть завершальне повідомлення ще раз:")
	if !proceed {
		return err
	}

	needID, _ := sess.Data.Int64(keyRecordID)
	targetUser, _ := sess.Data.Int64(keyTargetUser)
	messageID, _ := sess.Data.Int64(keyMessageID)

	if err := e.msg.SendText(ctx, targetUser,
		"✅ *Ваша заявка виконана:*\n\n"+msg, menu.Keyboard{}); err != nil {
		e.sessions.Clear(in.UserID)
		kb, _ := e.mainMenu(ctx, in.UserID)
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Помилка надсилання повідомлення. Заявку не переміщено в архів.", kb)
	}
	if err := e.needs.MarkDone(ctx, needID, in.UserID, msg, e.now()); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("mark need done: %w", err))
	}
	if messageID != 0 {
		if err := e.msg.EditReplyMarkup(ctx, in.ChatID, int(messageID), menu.Keyboard{}); err != nil {
			logger.LogEvent(ctx, e.log, slog.LevelWarn, "need.strip_buttons_failed",
				slog.String("err", err.Error()))
		}
	}

	e.routes.ClearTarget(in.UserID, session.KindNeed)
	e.sessions.Clear(in.UserID)
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, "✅ Заявку завершено та переміщено в архів.", kb)
}

// SweepStaleNeeds moves needs that stayed "нове" longer than staleAfter to
// "в очікуванні". Called by the scheduler.
func (e *Engine) SweepStaleNeeds(ctx context.Context, staleAfter time.Duration) error {
	cutoff := e.now().Add(-staleAfter)
	stale, err := e.needs.ListStaleNew(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale needs: %w", err)
	}
	changed := 0
	for i := range stale {
		n := &stale[i]
		if err := lifecycle.CanMarkWaiting(n.Status, n.Archived); err != nil {
			continue
		}
		if err := e.needs.MarkWaiting(ctx, n.ID, e.now()); err != nil {
			logger.LogEvent(ctx, e.log, slog.LevelError, "sweep.mark_failed",
				slog.Int64("record_id", n.ID), slog.String("err", err.Error()))
			continue
		}
		changed++
	}
	if changed > 0 {
		logger.LogEvent(ctx, e.log, slog.LevelInfo, "sweep.updated",
			slog.Int("count", changed))
	}
	return nil
}
