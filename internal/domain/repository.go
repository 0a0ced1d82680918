package domain

import (
	"context"
	"time"
)

// MemberRepo stores registered members and candidates.
type MemberRepo interface {
	FindByID(ctx context.Context, telegramID int64) (*Member, error)
	Insert(ctx context.Context, m *Member) error
	ListBaptized(ctx context.Context) ([]Member, error)
	ListCandidates(ctx context.Context) ([]Member, error)
	ListAll(ctx context.Context) ([]Member, error)
	// MoveToCandidates clears the baptized mark; ErrNotFound when the id
	// does not resolve to a baptized member.
	MoveToCandidates(ctx context.Context, telegramID int64) error
}

// NeedRepo stores help requests and their triage state.
type NeedRepo interface {
	FindByID(ctx context.Context, id int64) (*Need, error)
	Insert(ctx context.Context, n *Need) error
	MarkWaiting(ctx context.Context, id int64, at time.Time) error
	MarkReplied(ctx context.Context, id int64, adminID int64, message string, at time.Time) error
	MarkDone(ctx context.Context, id int64, adminID int64, message string, at time.Time) error
	DeleteByID(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]Need, error)
	ListArchived(ctx context.Context) ([]Need, error)
	// ListStaleNew returns non-archived records still "нове" created before the cutoff.
	ListStaleNew(ctx context.Context, before time.Time) ([]Need, error)
}

// PrayerRepo stores prayer requests.
type PrayerRepo interface {
	FindByID(ctx context.Context, id int64) (*Prayer, error)
	Insert(ctx context.Context, p *Prayer) error
	SetClarification(ctx context.Context, id int64, adminID int64, question string) error
	SetClarificationReply(ctx context.Context, id int64, answer string) error
	MarkReplied(ctx context.Context, id int64, adminID int64, message string, at time.Time) error
	MarkDone(ctx context.Context, id int64, adminID int64, message string, at time.Time) error
	DeleteByID(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]Prayer, error)
	ListArchived(ctx context.Context) ([]Prayer, error)
}

// LiteratureRepo stores literature requests. These have a short lifecycle:
// they are answered or clarified, never archived.
type LiteratureRepo interface {
	FindByID(ctx context.Context, id int64) (*LiteratureRequest, error)
	Insert(ctx context.Context, r *LiteratureRequest) error
	SetClarification(ctx context.Context, id int64, adminID int64, question string) error
	AppendClarificationReply(ctx context.Context, id int64, answer string) error
	MarkReplied(ctx context.Context, id int64, adminID int64, at time.Time) error
	ListOpen(ctx context.Context) ([]LiteratureRequest, error)
}

// LessonRepo stores uploaded bible lessons.
type LessonRepo interface {
	FindByID(ctx context.Context, id int64) (*Lesson, error)
	Insert(ctx context.Context, l *Lesson) error
	ReplaceFile(ctx context.Context, id int64, fileID, fileName string, at time.Time) error
	List(ctx context.Context) ([]Lesson, error)
}
