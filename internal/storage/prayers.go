package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"churchbot/internal/domain"
)

// Prayers is the PostgreSQL prayer request repository.
type Prayers struct {
	db *sqlx.DB
}

func NewPrayers(db *sqlx.DB) *Prayers {
	return &Prayers{db: db}
}

const prayerColumns = `id, user_id, name, description, status, archived, created_at,
	clarifying_admin_id, clarification_text, needs_clarification_reply,
	replied_at, replied_by, reply_message, done_at, done_by, done_message`

func (r *Prayers) FindByID(ctx context.Context, id int64) (*domain.Prayer, error) {
	var p domain.Prayer
	err := r.db.GetContext(ctx, &p,
		"SELECT "+prayerColumns+" FROM prayers WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *Prayers) Insert(ctx context.Context, p *domain.Prayer) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO prayers (id, user_id, name, description, status, archived, created_at)
		VALUES (:id, :user_id, :name, :description, :status, :archived, :created_at)`, p)
	return mapErr(err)
}

func (r *Prayers) SetClarification(ctx context.Context, id int64, adminID int64, question string) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE prayers
		SET clarifying_admin_id = $1, clarification_text = $2, needs_clarification_reply = TRUE
		WHERE id = $3`,
		adminID, question, id))
}

func (r *Prayers) SetClarificationReply(ctx context.Context, id int64, answer string) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE prayers
		SET clarification_text = $1, needs_clarification_reply = FALSE
		WHERE id = $2`,
		answer, id))
}

func (r *Prayers) MarkReplied(ctx context.Context, id int64, adminID int64, message string, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE prayers SET status = $1, replied_at = $2, replied_by = $3, reply_message = $4
		WHERE id = $5`,
		domain.StatusReplied, at, adminID, message, id))
}

func (r *Prayers) MarkDone(ctx context.Context, id int64, adminID int64, message string, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE prayers SET status = $1, archived = TRUE, done_at = $2, done_by = $3, done_message = $4
		WHERE id = $5`,
		domain.StatusDone, at, adminID, message, id))
}

func (r *Prayers) DeleteByID(ctx context.Context, id int64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM prayers WHERE id = $1", id))
}

func (r *Prayers) ListActive(ctx context.Context) ([]domain.Prayer, error) {
	var out []domain.Prayer
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+prayerColumns+" FROM prayers WHERE NOT archived ORDER BY created_at DESC")
	return out, err
}

func (r *Prayers) ListArchived(ctx context.Context) ([]domain.Prayer, error) {
	var out []domain.Prayer
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+prayerColumns+" FROM prayers WHERE archived ORDER BY created_at DESC")
	return out, err
}
