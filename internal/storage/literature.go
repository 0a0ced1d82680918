package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"churchbot/internal/domain"
)

// Literature is the PostgreSQL literature request repository.
type Literature struct {
	db *sqlx.DB
}

func NewLiterature(db *sqlx.DB) *Literature {
	return &Literature{db: db}
}

const literatureColumns = `id, user_id, name, request, status, created_at,
	clarifying_admin_id, clarification_text, replied_at, replied_by`

func (r *Literature) FindByID(ctx context.Context, id int64) (*domain.LiteratureRequest, error) {
	var lr domain.LiteratureRequest
	err := r.db.GetContext(ctx, &lr,
		"SELECT "+literatureColumns+" FROM literature_requests WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &lr, nil
}

func (r *Literature) Insert(ctx context.Context, lr *domain.LiteratureRequest) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO literature_requests (id, user_id, name, request, status, created_at)
		VALUES (:id, :user_id, :name, :request, :status, :created_at)`, lr)
	return mapErr(err)
}

func (r *Literature) SetClarification(ctx context.Context, id int64, adminID int64, question string) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE literature_requests
		SET clarifying_admin_id = $1, clarification_text = $2
		WHERE id = $3`,
		adminID, question, id))
}

// AppendClarificationReply keeps the clarification thread in one column so
// the admin card shows the whole exchange.
func (r *Literature) AppendClarificationReply(ctx context.Context, id int64, answer string) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE literature_requests
		SET clarification_text = COALESCE(clarification_text || E'\n', '') || $1
		WHERE id = $2`,
		answer, id))
}

func (r *Literature) MarkReplied(ctx context.Context, id int64, adminID int64, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE literature_requests SET status = $1, replied_at = $2, replied_by = $3
		WHERE id = $4`,
		domain.StatusReplied, at, adminID, id))
}

func (r *Literature) ListOpen(ctx context.Context) ([]domain.LiteratureRequest, error) {
	var out []domain.LiteratureRequest
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+literatureColumns+" FROM literature_requests WHERE status <> $1 ORDER BY created_at DESC",
		domain.StatusReplied)
	return out, err
}
