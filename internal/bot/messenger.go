package bot

import (
	"context"
	"path/filepath"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"churchbot/internal/menu"
)

// Messenger delivers engine output through the Telegram Bot API. All text
// goes out with Markdown parse mode, matching the formatting the cards and
// prompts use.
type Messenger struct {
	tb *tele.Bot
}

func (m *Messenger) SendText(_ context.Context, chatID int64, text string, kb menu.Keyboard) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if markup := toMarkup(kb); markup != nil {
		opts.ReplyMarkup = markup
	}
	_, err := m.tb.Send(tele.ChatID(chatID), text, opts)
	return err
}

func (m *Messenger) SendDocument(_ context.Context, chatID int64, fileID, caption string) error {
	doc := &tele.Document{File: tele.File{FileID: fileID}, Caption: caption}
	_, err := m.tb.Send(tele.ChatID(chatID), doc)
	return err
}

func (m *Messenger) SendFile(_ context.Context, chatID int64, path string) error {
	doc := &tele.Document{File: tele.FromDisk(path), FileName: filepath.Base(path)}
	_, err := m.tb.Send(tele.ChatID(chatID), doc)
	return err
}

func (m *Messenger) EditMessageText(_ context.Context, chatID int64, messageID int, text string, kb menu.Keyboard) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if markup := toMarkup(kb); markup != nil {
		opts.ReplyMarkup = markup
	}
	_, err := m.tb.Edit(msg, text, opts)
	return err
}

func (m *Messenger) EditReplyMarkup(_ context.Context, chatID int64, messageID int, kb menu.Keyboard) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := m.tb.EditReplyMarkup(msg, toMarkup(kb))
	return err
}

func (m *Messenger) AnswerCallback(_ context.Context, callbackID, text string) error {
	return m.tb.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{Text: text})
}
