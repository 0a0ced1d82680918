package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"churchbot/internal/domain"
)

// Members is the PostgreSQL member repository.
type Members struct {
	db *sqlx.DB
}

func NewMembers(db *sqlx.DB) *Members {
	return &Members{db: db}
}

const memberColumns = "telegram_id, name, baptized, baptism, birthday, phone, created_at"

func (r *Members) FindByID(ctx context.Context, telegramID int64) (*domain.Member, error) {
	var m domain.Member
	err := r.db.GetContext(ctx, &m,
		"SELECT "+memberColumns+" FROM members WHERE telegram_id = $1", telegramID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *Members) Insert(ctx context.Context, m *domain.Member) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO members (telegram_id, name, baptized, baptism, birthday, phone, created_at)
		VALUES (:telegram_id, :name, :baptized, :baptism, :birthday, :phone, :created_at)`, m)
	return mapErr(err)
}

func (r *Members) ListBaptized(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+memberColumns+" FROM members WHERE baptized ORDER BY name")
	return out, err
}

func (r *Members) ListCandidates(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+memberColumns+" FROM members WHERE NOT baptized ORDER BY name")
	return out, err
}

func (r *Members) MoveToCandidates(ctx context.Context, telegramID int64) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE members SET baptized = FALSE, baptism = '' WHERE telegram_id = $1 AND baptized`,
		telegramID))
}

func (r *Members) ListAll(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+memberColumns+" FROM members ORDER BY name")
	return out, err
}
