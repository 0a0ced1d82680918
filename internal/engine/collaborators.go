package engine

import (
	"context"

	"churchbot/internal/domain"
	"churchbot/internal/menu"
)

// Messenger is the chat transport consumed by the engine. The bot layer
// implements it over Telegram; tests substitute a recording fake.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb menu.Keyboard) error
	// SendDocument forwards a file already stored on Telegram's servers.
	SendDocument(ctx context.Context, chatID int64, fileID, caption string) error
	// SendFile uploads a local file and removes nothing; the caller owns cleanup.
	SendFile(ctx context.Context, chatID int64, path string) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, kb menu.Keyboard) error
	EditReplyMarkup(ctx context.Context, chatID int64, messageID int, kb menu.Keyboard) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Exporter builds spreadsheet files for admin listings. Paths returned are
// temporary; Cleanup removes them after sending.
type Exporter interface {
	MembersWorkbook(members []domain.Member) (string, error)
	CandidatesWorkbook(candidates []domain.Member) (string, error)
	NeedsWorkbook(needs []domain.Need) (string, error)
	PrayersWorkbook(prayers []domain.Prayer) (string, error)
	Cleanup(path string)
}

// RoleProvider answers whether a user is an administrator.
type RoleProvider interface {
	IsAdmin(userID int64) bool
}

// Incoming is a text message event.
type Incoming struct {
	UserID    int64
	ChatID    int64
	Text      string
	FirstName string
	LastName  string
}

// CallbackEvent is an inline-button press.
type CallbackEvent struct {
	UserID      int64
	ChatID      int64
	CallbackID  string
	Data        string
	MessageID   int
	MessageText string
}

// DocumentEvent is a file upload.
type DocumentEvent struct {
	UserID   int64
	ChatID   int64
	FileID   string
	FileName string
}
