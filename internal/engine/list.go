package engine

import (
	"context"
	"fmt"

	"churchbot/internal/domain"
	"churchbot/internal/menu"
)

// Admin chat listings cap the number of per-record messages sent at once.
const chatListLimit = 50

// ListNeeds handles /needs: offers chat or Excel rendering.
func (e *Engine) ListNeeds(ctx context.Context, in Incoming) error {
	needs, err := e.needs.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list needs: %w", err)
	}
	if len(needs) == 0 {
		return e.msg.SendText(ctx, in.ChatID, "📭 Наразі немає заявок на допомогу.",
			menu.ArchiveButton("needs"))
	}
	return e.msg.SendText(ctx, in.ChatID,
		fmt.Sprintf("📋 Заявки на допомогу\n\nЗнайдено заявок: %d\n\nОберіть формат відображення:", len(needs)),
		menu.FormatPickerWithArchive("needs"))
}

// ListPrayers handles /prayers.
func (e *Engine) ListPrayers(ctx context.Context, in Incoming) error {
	prayers, err := e.prayers.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list prayers: %w", err)
	}
	if len(prayers) == 0 {
		return e.msg.SendText(ctx, in.ChatID, "📭 Наразі немає молитвенних потреб.",
			menu.ArchiveButton("prayers"))
	}
	return e.msg.SendText(ctx, in.ChatID,
		fmt.Sprintf("🙏 Молитвенні потреби\n\nЗнайдено потреб: %d\n\nОберіть формат відображення:", len(prayers)),
		menu.FormatPickerWithArchive("prayers"))
}

// ListMembers handles /members: baptized members only.
func (e *Engine) ListMembers(ctx context.Context, in Incoming) error {
	members, err := e.members.ListBaptized(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if len(members) == 0 {
		return e.msg.SendText(ctx, in.ChatID, "📭 Поки що ніхто не зареєстрований.", menu.Keyboard{})
	}
	return e.msg.SendText(ctx, in.ChatID,
		fmt.Sprintf("📋 Список членів церкви\n\nЗнайдено членів: %d\n\nОберіть формат відображення:", len(members)),
		menu.FormatPicker("members"))
}

// ListCandidates handles /candidates: registered but not yet baptized.
func (e *Engine) ListCandidates(ctx context.Context, in Incoming) error {
	candidates, err := e.members.ListCandidates(ctx)
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return e.msg.SendText(ctx, in.ChatID, "📭 Поки що немає зареєстрованих нехрещених.", menu.Keyboard{})
	}
	return e.msg.SendText(ctx, in.ChatID,
		fmt.Sprintf("👥 Список нехрещених\n\nЗнайдено: %d\n\nОберіть формат відображення:", len(candidates)),
		menu.FormatPicker("candidates"))
}

func (e *Engine) needsFormat(ctx context.Context, cb CallbackEvent, format string) error {
	if format == "archive" {
		needs, err := e.needs.ListArchived(ctx)
		if err != nil {
			return fmt.Errorf("list archived needs: %w", err)
		}
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Показую архів заявок..."); err != nil {
			return err
		}
		if len(needs) == 0 {
			return e.msg.SendText(ctx, cb.ChatID, "📭 Архів порожній.", menu.Keyboard{})
		}
		return e.sendNeedCards(ctx, cb, needs)
	}

	needs, err := e.needs.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list needs: %w", err)
	}

	if format == "excel" {
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Генерую Excel файл..."); err != nil {
			return err
		}
		path, err := e.export.NeedsWorkbook(needs)
		if err != nil {
			return e.msg.SendText(ctx, cb.ChatID, "⚠️ Не вдалося згенерувати Excel файл.", menu.Keyboard{})
		}
		defer e.export.Cleanup(path)
		return e.msg.SendFile(ctx, cb.ChatID, path)
	}

	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Показую заявки в чаті..."); err != nil {
		return err
	}
	return e.sendNeedCards(ctx, cb, needs)
}

func (e *Engine) sendNeedCards(ctx context.Context, cb CallbackEvent, needs []domain.Need) error {
	for i := range needs {
		if i == chatListLimit {
			break
		}
		n := &needs[i]
		if err := e.msg.SendText(ctx, cb.ChatID, needCard(n),
			menu.RecordActions("need", n.ID, n.Status, n.Archived)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) prayersFormat(ctx context.Context, cb CallbackEvent, format string) error {
	if format == "archive" {
		prayers, err := e.prayers.ListArchived(ctx)
		if err != nil {
			return fmt.Errorf("list archived prayers: %w", err)
		}
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Показую архів молитов..."); err != nil {
			return err
		}
		if len(prayers) == 0 {
			return e.msg.SendText(ctx, cb.ChatID, "📭 Архів порожній.", menu.Keyboard{})
		}
		return e.sendPrayerCards(ctx, cb, prayers)
	}

	prayers, err := e.prayers.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list prayers: %w", err)
	}

	if format == "excel" {
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Генерую Excel файл..."); err != nil {
			return err
		}
		path, err := e.export.PrayersWorkbook(prayers)
		if err != nil {
			return e.msg.SendText(ctx, cb.ChatID, "⚠️ Не вдалося згенерувати Excel файл.", menu.Keyboard{})
		}
		defer e.export.Cleanup(path)
		return e.msg.SendFile(ctx, cb.ChatID, path)
	}

	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Показую молитви в чаті..."); err != nil {
		return err
	}
	return e.sendPrayerCards(ctx, cb, prayers)
}

func (e *Engine) sendPrayerCards(ctx context.Context, cb CallbackEvent, prayers []domain.Prayer) error {
	for i := range prayers {
		if i == chatListLimit {
			break
		}
		p := &prayers[i]
		if err := e.msg.SendText(ctx, cb.ChatID, prayerCard(p),
			menu.RecordActions("prayer", p.ID, p.Status, p.Archived)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) membersFormat(ctx context.Context, cb CallbackEvent, format string) error {
	members, err := e.members.ListBaptized(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	if format == "excel" {
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Генерую Excel файл..."); err != nil {
			return err
		}
		path, err := e.export.MembersWorkbook(members)
		if err != nil {
			return e.msg.SendText(ctx, cb.ChatID, "⚠️ Не вдалося згенерувати Excel файл.", menu.Keyboard{})
		}
		defer e.export.Cleanup(path)
		return e.msg.SendFile(ctx, cb.ChatID, path)
	}

	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Показую список членів в чаті..."); err != nil {
		return err
	}
	if err := e.msg.SendText(ctx, cb.ChatID,
		fmt.Sprintf("📋 *Список зареєстрованих братів і сестер:* %d", len(members)),
		menu.Keyboard{}); err != nil {
		return err
	}
	for i := range members {
		if i == chatListLimit {
			break
		}
		m := &members[i]
		if err := e.msg.SendText(ctx, cb.ChatID, memberCard(m),
			menu.MemberMove(m.TelegramID)); err != nil {
			return err
		}
	}
	if len(members) > chatListLimit {
		return e.msg.SendText(ctx, cb.ChatID,
			fmt.Sprintf("ℹ️ Показано %d з %d.", chatListLimit, len(members)), menu.Keyboard{})
	}
	return nil
}

func (e *Engine) candidatesFormat(ctx context.Context, cb CallbackEvent, format string) error {
	candidates, err := e.members.ListCandidates(ctx)
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}

	if format == "excel" {
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Генерую Excel файл..."); err != nil {
			return err
		}
		path, err := e.export.CandidatesWorkbook(candidates)
		if err != nil {
			return e.msg.SendText(ctx, cb.ChatID, "⚠️ Не вдалося згенерувати Excel файл.", menu.Keyboard{})
		}
		defer e.export.Cleanup(path)
		return e.msg.SendFile(ctx, cb.ChatID, path)
	}

	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Показую список нехрещених в чаті..."); err != nil {
		return err
	}
	text := "👥 *Список нехрещених:*\n\n"
	for i, c := range candidates {
		baptism := c.Baptism
		if baptism == "" {
			baptism = baptismNotYet
		}
		birthday := c.Birthday
		if birthday == "" {
			birthday = "не вказано"
		}
		text += fmt.Sprintf("%d. %s\n📅 Хрещення: %s\n🎂 День народження: %s\n📞 %s\n\n",
			i+1, c.Name, baptism, birthday, c.Phone)
	}
	return e.msg.SendText(ctx, cb.ChatID, text, menu.Keyboard{})
}

// ListLiteratureRequests handles /literature_requests: open requests only.
func (e *Engine) ListLiteratureRequests(ctx context.Context, in Incoming) error {
	requests, err := e.literature.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list literature requests: %w", err)
	}
	if len(requests) == 0 {
		return e.msg.SendText(ctx, in.ChatID, "📭 Наразі немає запитів на літературу.", menu.Keyboard{})
	}
	if err := e.msg.SendText(ctx, in.ChatID,
		fmt.Sprintf("📚 *Запити на літературу:* %d", len(requests)), menu.Keyboard{}); err != nil {
		return err
	}
	for i := range requests {
		if i == chatListLimit {
			break
		}
		r := &requests[i]
		if err := e.msg.SendText(ctx, in.ChatID, literatureCard(r),
			menu.LiteratureActions(r.ID)); err != nil {
			return err
		}
	}
	return nil
}

// memberMoveStart swaps the card's move button for an explicit confirmation.
func (e *Engine) memberMoveStart(ctx context.Context, cb CallbackEvent, telegramID int64) error {
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Підтвердіть дію"); err != nil {
		return err
	}
	return e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID, menu.MemberMoveConfirm(telegramID))
}

// memberMoveCancel restores the move button.
func (e *Engine) memberMoveCancel(ctx context.Context, cb CallbackEvent, telegramID int64) error {
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Скасовано"); err != nil {
		return err
	}
	return e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID, menu.MemberMove(telegramID))
}

// memberMoveConfirm demotes the member to the candidate list.
func (e *Engine) memberMoveConfirm(ctx context.Context, cb CallbackEvent, telegramID int64) error {
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Переміщую..."); err != nil {
		return err
	}
	err := e.members.MoveToCandidates(ctx, telegramID)
	if err == domain.ErrNotFound {
		if err := e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID, menu.Keyboard{}); err != nil {
			return err
		}
		return e.msg.SendText(ctx, cb.ChatID,
			"⚠️ Не знайдено в списку членів (можливо вже переміщено).", menu.Keyboard{})
	}
	if err != nil {
		return fmt.Errorf("move member %d to candidates: %w", telegramID, err)
	}
	text := cb.MessageText
	if text != "" {
		text += "\n\n"
	}
	return e.msg.EditMessageText(ctx, cb.ChatID, cb.MessageID,
		text+"✅ *Переміщено до нехрещених*", menu.Keyboard{})
}

// deleteRecordStart swaps the card's buttons for an explicit confirmation.
func (e *Engine) deleteRecordStart(ctx context.Context, cb CallbackEvent, kind string, id int64) error {
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Підтвердіть видалення"); err != nil {
		return err
	}
	return e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID, menu.ConfirmDelete(kind, id))
}

// deleteRecordCancel restores the card's action buttons.
func (e *Engine) deleteRecordCancel(ctx context.Context, cb CallbackEvent, kind string, id int64) error {
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "Скасовано"); err != nil {
		return err
	}

	var status domain.Status
	var archived bool
	switch kind {
	case "need":
		n, err := e.needs.FindByID(ctx, id)
		if err != nil {
			return e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID, menu.Keyboard{})
		}
		status, archived = n.Status, n.Archived
	case "prayer":
		p, err := e.prayers.FindByID(ctx, id)
		if err != nil {
			return e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID, menu.Keyboard{})
		}
		status, archived = p.Status, p.Archived
	}
	return e.msg.EditReplyMarkup(ctx, cb.ChatID, cb.MessageID,
		menu.RecordActions(kind, id, status, archived))
}

// deleteRecordConfirm performs the irreversible hard delete.
func (e *Engine) deleteRecordConfirm(ctx context.Context, cb CallbackEvent, kind string, id int64) error {
	var err error
	switch kind {
	case "need":
		err = e.needs.DeleteByID(ctx, id)
	case "prayer":
		err = e.prayers.DeleteByID(ctx, id)
	default:
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Невідомий тип запису.")
	}
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Запис уже видалено.")
	}
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}

	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "🗑 Видалено"); err != nil {
		return err
	}
	text := cb.MessageText
	if text != "" {
		text += "\n\n"
	}
	return e.msg.EditMessageText(ctx, cb.ChatID, cb.MessageID, text+"🗑 *Запис видалено*", menu.Keyboard{})
}
