// Package menu builds the bot's keyboards as plain data. Policies here are
// pure functions of user role and record state; the transport layer converts
// the result into Telegram markup.
package menu

import (
	"fmt"

	"churchbot/internal/domain"
	"churchbot/internal/lifecycle"
)

// Reply keyboard button labels. Text routing matches these exactly,
// so they live in one place.
const (
	BtnAskHelp      = "🙏 Попросити допомогу"
	BtnSubmitNeed   = "🙏 Подати заявку"
	BtnBibleSupport = "📖 Біблія та духовна підтримка"
	BtnContacts     = "📞 Зв'язатися з нами"
	BtnContactsAlt  = "📞 Контакти"
	BtnHelp         = "❓ Допомога"
	BtnRegister     = "📝 Зареєструватися"
	BtnMyProfile    = "👤 Мій профіль"

	BtnPrayer     = "💬 Молитвенна потреба"
	BtnLessons    = "📚 Біблійні уроки"
	BtnLiterature = "📖 Пошук літератури"
	BtnBackToMain = "🏠 Повернутися до головного меню"
	BtnExitToMain = "🏠 Вийти на головне меню"

	BtnChurchChat = "💬 Перейти в чат церкви"

	BtnNeedHumanitarian = "🛒 Гуманітарна допомога"
	BtnNeedOther        = "💬 Інше"

	BtnWriteReply = "💬 Написати відповідь"

	BtnConfirmSend    = "✅ Надіслати"
	BtnConfirmRewrite = "✏️ Переписати"
	BtnConfirmCancel  = "❌ Скасувати"
)

// Button is one inline keyboard button. Data carries the raw callback
// payload; URL buttons leave Data empty.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard describes either a reply keyboard (rows of labels) or an inline
// keyboard (rows of buttons). Remove clears the current reply keyboard.
type Keyboard struct {
	Reply  [][]string
	Inline [][]Button
	Remove bool
}

// Main is the persistent main menu. The last button depends on whether
// the user is already registered.
func Main(registered bool) Keyboard {
	dynamic := BtnRegister
	if registered {
		dynamic = BtnMyProfile
	}
	return Keyboard{Reply: [][]string{
		{BtnAskHelp, BtnBibleSupport},
		{BtnContacts, dynamic},
	}}
}

// Contact is shown after the contact info message.
func Contact() Keyboard {
	return Keyboard{Reply: [][]string{
		{BtnChurchChat, BtnExitToMain},
	}}
}

// BibleSupport is the spiritual support submenu.
func BibleSupport() Keyboard {
	return Keyboard{Reply: [][]string{
		{BtnPrayer, BtnLessons},
		{BtnLiterature},
		{BtnBackToMain},
	}}
}

// NeedType offers the help request categories.
func NeedType() Keyboard {
	return Keyboard{Reply: [][]string{
		{BtnNeedHumanitarian, BtnNeedOther},
		{BtnBackToMain},
	}}
}

// AdminReply is attached to admin notifications about a new need.
func AdminReply() Keyboard {
	return Keyboard{Reply: [][]string{
		{BtnWriteReply},
	}}
}

// ConfirmSend is the outbound-text confirmation triplet.
func ConfirmSend() Keyboard {
	return Keyboard{Reply: [][]string{
		{BtnConfirmSend, BtnConfirmRewrite},
		{BtnConfirmCancel},
	}}
}

// RegisterBaptism asks for the baptism status during registration.
func RegisterBaptism() Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "✅ Так, я в Христі", Data: "register_baptism|yes"},
		{Text: "⏳ Ще не хрещений", Data: "register_baptism|no"},
	}}}
}

// FormatPicker offers chat or Excel rendering for an admin listing.
// The prefix names the listing (needs, prayers, members, candidates).
func FormatPicker(prefix string) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "💬 Показати в чаті", Data: prefix + "_format|chat"},
		{Text: "📊 Excel файл", Data: prefix + "_format|excel"},
	}}}
}

// FormatPickerWithArchive adds the archive view to the format picker for
// listings whose records outlive their active phase.
func FormatPickerWithArchive(prefix string) Keyboard {
	kb := FormatPicker(prefix)
	kb.Inline = append(kb.Inline, ArchiveButton(prefix).Inline[0])
	return kb
}

// ArchiveButton links to the archive view alone, shown when the active
// listing is empty.
func ArchiveButton(prefix string) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "🗂 Архів", Data: prefix + "_format|archive"},
	}}}
}

// AnnounceAudience offers the broadcast audiences.
func AnnounceAudience() Keyboard {
	return Keyboard{Inline: [][]Button{
		{{Text: "✅ Для членів церкви (хрещені)", Data: "announce_aud|baptized"}},
		{{Text: "⏳ Для нехрещених (кандидатів)", Data: "announce_aud|unbaptized"}},
		{{Text: "👥 Для всіх зареєстрованих", Data: "announce_aud|all"}},
	}}
}

// MemberMove is attached to a member card in the admin chat listing.
func MemberMove(telegramID int64) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "➡️ Перемістити до нехрещених", Data: fmt.Sprintf("member_to_candidate|%d", telegramID)},
	}}}
}

// MemberMoveConfirm replaces the move button until the admin confirms.
func MemberMoveConfirm(telegramID int64) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "✅ Підтвердити", Data: fmt.Sprintf("member_to_candidate_confirm|%d", telegramID)},
		{Text: "❌ Скасувати", Data: fmt.Sprintf("member_to_candidate_cancel|%d", telegramID)},
	}}}
}

// LiteratureActions is attached to admin notifications about a new
// literature request.
func LiteratureActions(requestID int64) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "❓ Уточнити", Data: fmt.Sprintf("clarify_literature|%d", requestID)},
		{Text: "💬 Відповісти", Data: fmt.Sprintf("reply_literature|%d", requestID)},
	}}}
}

// PrayerActions is attached to admin notifications about a new prayer.
func PrayerActions(prayerID int64) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "❓ Уточнити", Data: fmt.Sprintf("clarify_prayer|%d", prayerID)},
		{Text: "💬 Відповісти", Data: fmt.Sprintf("reply_prayer|%d", prayerID)},
	}}}
}

// ReplyButton is a single "answer" inline button with a prepared payload.
func ReplyButton(data string) Keyboard {
	return Keyboard{Inline: [][]Button{{
		{Text: "💬 Відповісти", Data: data},
	}}}
}

// Lessons lists available bible lessons, one button per lesson.
func Lessons(lessons []domain.Lesson) Keyboard {
	rows := make([][]Button, 0, len(lessons))
	for i, l := range lessons {
		rows = append(rows, []Button{{
			Text: fmt.Sprintf("%d. %s", i+1, l.Title),
			Data: fmt.Sprintf("lesson|%d", l.ID),
		}})
	}
	return Keyboard{Inline: rows}
}

// RecordActions builds the action row for a record card. Only transitions
// allowed by the record's lifecycle state become buttons.
func RecordActions(kind string, id int64, status domain.Status, archived bool) Keyboard {
	var row []Button
	for _, a := range lifecycle.Actions(status, archived) {
		switch a {
		case lifecycle.ActionWaiting:
			row = append(row, Button{Text: "🕓 В очікуванні", Data: fmt.Sprintf("status|%d|waiting", id)})
		case lifecycle.ActionReply:
			row = append(row, Button{Text: "💬 Відповісти", Data: fmt.Sprintf("reply_%s|%d", kind, id)})
		case lifecycle.ActionDone:
			row = append(row, Button{Text: "✅ Виконано", Data: fmt.Sprintf("done_%s|%d", kind, id)})
		case lifecycle.ActionDelete:
			row = append(row, Button{Text: "🗑 Видалити", Data: fmt.Sprintf("delete_%s|%d", kind, id)})
		}
	}
	return Keyboard{Inline: [][]Button{row}}
}

// ConfirmDelete replaces a record's action row after a delete press.
func ConfirmDelete(kind string, id int64) Keyboard {
	return Keyboard{Inline: [][]Button{
		{{Text: "✅ Підтвердити видалення", Data: fmt.Sprintf("confirm_delete_%s|%d", kind, id)}},
		{{Text: "❌ Скасувати", Data: fmt.Sprintf("cancel_delete_%s|%d", kind, id)}},
	}}
}

// IsGlobalButton reports whether the label is a reply keyboard button
// handled before any in-progress conversation step.
func IsGlobalButton(label string) bool {
	switch label {
	case BtnRegister, BtnMyProfile, BtnSubmitNeed, BtnAskHelp, BtnPrayer,
		BtnLessons, BtnLiterature, BtnContacts, BtnContactsAlt, BtnHelp,
		BtnBibleSupport, BtnChurchChat, BtnBackToMain, BtnExitToMain:
		return true
	}
	return false
}
