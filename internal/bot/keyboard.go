package bot

import (
	tele "gopkg.in/telebot.v4"

	"churchbot/internal/menu"
)

// toMarkup converts the engine's transport-neutral keyboard into Telebot
// markup. An empty keyboard yields nil, which leaves the chat keyboard as
// is.
func toMarkup(kb menu.Keyboard) *tele.ReplyMarkup {
	switch {
	case kb.Remove:
		return &tele.ReplyMarkup{RemoveKeyboard: true}

	case len(kb.Reply) > 0:
		m := &tele.ReplyMarkup{ResizeKeyboard: true}
		rows := make([]tele.Row, 0, len(kb.Reply))
		for _, row := range kb.Reply {
			btns := make([]tele.Btn, 0, len(row))
			for _, label := range row {
				btns = append(btns, m.Text(label))
			}
			rows = append(rows, m.Row(btns...))
		}
		m.Reply(rows...)
		return m

	case len(kb.Inline) > 0:
		m := &tele.ReplyMarkup{}
		inline := make([][]tele.InlineButton, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			r := make([]tele.InlineButton, 0, len(row))
			for _, b := range row {
				r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
			}
			inline = append(inline, r)
		}
		m.InlineKeyboard = inline
		return m
	}
	return nil
}
