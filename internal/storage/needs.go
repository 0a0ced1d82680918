package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"churchbot/internal/domain"
)

// Needs is the PostgreSQL help request repository.
type Needs struct {
	db *sqlx.DB
}

func NewNeeds(db *sqlx.DB) *Needs {
	return &Needs{db: db}
}

const needColumns = `id, user_id, name, baptism, phone, need_type, description,
	status, archived, created_at, waiting_at,
	replied_at, replied_by, reply_message, done_at, done_by, done_message`

func (r *Needs) FindByID(ctx context.Context, id int64) (*domain.Need, error) {
	var n domain.Need
	err := r.db.GetContext(ctx, &n,
		"SELECT "+needColumns+" FROM needs WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

func (r *Needs) Insert(ctx context.Context, n *domain.Need) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO needs (id, user_id, name, baptism, phone, need_type, description, status, archived, created_at)
		VALUES (:id, :user_id, :name, :baptism, :phone, :need_type, :description, :status, :archived, :created_at)`, n)
	return mapErr(err)
}

func (r *Needs) MarkWaiting(ctx context.Context, id int64, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE needs SET status = $1, waiting_at = $2 WHERE id = $3`,
		domain.StatusWaiting, at, id))
}

func (r *Needs) MarkReplied(ctx context.Context, id int64, adminID int64, message string, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE needs SET status = $1, replied_at = $2, replied_by = $3, reply_message = $4
		WHERE id = $5`,
		domain.StatusReplied, at, adminID, message, id))
}

func (r *Needs) MarkDone(ctx context.Context, id int64, adminID int64, message string, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE needs SET status = $1, archived = TRUE, done_at = $2, done_by = $3, done_message = $4
		WHERE id = $5`,
		domain.StatusDone, at, adminID, message, id))
}

func (r *Needs) DeleteByID(ctx context.Context, id int64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM needs WHERE id = $1", id))
}

func (r *Needs) ListActive(ctx context.Context) ([]domain.Need, error) {
	var out []domain.Need
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+needColumns+" FROM needs WHERE NOT archived ORDER BY created_at DESC")
	return out, err
}

func (r *Needs) ListArchived(ctx context.Context) ([]domain.Need, error) {
	var out []domain.Need
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+needColumns+" FROM needs WHERE archived ORDER BY created_at DESC")
	return out, err
}

func (r *Needs) ListStaleNew(ctx context.Context, before time.Time) ([]domain.Need, error) {
	var out []domain.Need
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+needColumns+" FROM needs WHERE status = $1 AND NOT archived AND created_at < $2",
		domain.StatusNew, before)
	return out, err
}
