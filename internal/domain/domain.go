// Package domain declares the persistent entities of the church bot and
// the repository contracts the engine consumes. Workflow fields (status,
// archived, replied/done marks) belong to administrators; content fields
// belong to the submitting user.
package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a record id no longer resolves, typically
// because a stale button or route entry outlived the record.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyRegistered is returned on a duplicate member registration.
var ErrAlreadyRegistered = errors.New("member already registered")

// Status is the workflow label of a triaged record.
type Status string

const (
	StatusNew     Status = "нове"
	StatusWaiting Status = "в очікуванні"
	StatusReplied Status = "відповідь надіслана"
	StatusDone    Status = "виконано"
)

// NeedType distinguishes help request categories.
type NeedType string

const (
	NeedHumanitarian NeedType = "humanitarian"
	NeedOther        NeedType = "other"
)

// Member is a registered person; Baptized splits members from candidates.
type Member struct {
	TelegramID int64     `db:"telegram_id"`
	Name       string    `db:"name"`
	Baptized   bool      `db:"baptized"`
	Baptism    string    `db:"baptism"`
	Birthday   string    `db:"birthday"`
	Phone      string    `db:"phone"`
	CreatedAt  time.Time `db:"created_at"`
}

// Need is a help request submitted by a member or a guest.
type Need struct {
	ID          int64    `db:"id"`
	UserID      int64    `db:"user_id"`
	Name        string   `db:"name"`
	Baptism     string   `db:"baptism"`
	Phone       string   `db:"phone"`
	Type        NeedType `db:"need_type"`
	Description string   `db:"description"`

	Status    Status    `db:"status"`
	Archived  bool      `db:"archived"`
	CreatedAt time.Time `db:"created_at"`

	WaitingAt    *time.Time `db:"waiting_at"`
	RepliedAt    *time.Time `db:"replied_at"`
	RepliedBy    *int64     `db:"replied_by"`
	ReplyMessage *string    `db:"reply_message"`
	DoneAt       *time.Time `db:"done_at"`
	DoneBy       *int64     `db:"done_by"`
	DoneMessage  *string    `db:"done_message"`
}

// Prayer is a prayer request, optionally anonymous.
type Prayer struct {
	ID          int64   `db:"id"`
	UserID      int64   `db:"user_id"`
	Name        *string `db:"name"`
	Description string  `db:"description"`

	Status    Status    `db:"status"`
	Archived  bool      `db:"archived"`
	CreatedAt time.Time `db:"created_at"`

	ClarifyingAdminID       *int64  `db:"clarifying_admin_id"`
	ClarificationText       *string `db:"clarification_text"`
	NeedsClarificationReply bool    `db:"needs_clarification_reply"`

	RepliedAt    *time.Time `db:"replied_at"`
	RepliedBy    *int64     `db:"replied_by"`
	ReplyMessage *string    `db:"reply_message"`
	DoneAt       *time.Time `db:"done_at"`
	DoneBy       *int64     `db:"done_by"`
	DoneMessage  *string    `db:"done_message"`
}

// LiteratureRequest is a request to find spiritual literature.
type LiteratureRequest struct {
	ID      int64   `db:"id"`
	UserID  int64   `db:"user_id"`
	Name    *string `db:"name"`
	Request string  `db:"request"`

	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`

	ClarifyingAdminID *int64     `db:"clarifying_admin_id"`
	ClarificationText *string    `db:"clarification_text"`
	RepliedAt         *time.Time `db:"replied_at"`
	RepliedBy         *int64     `db:"replied_by"`
}

// Lesson is a bible lesson backed by a PDF stored on Telegram's servers.
type Lesson struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	PDFFileID   string    `db:"pdf_file_id"`
	PDFFileName string    `db:"pdf_file_name"`
	UploadedAt  time.Time `db:"uploaded_at"`
}
