package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"churchbot/internal/domain"
)

// Lessons is the PostgreSQL bible lesson repository.
type Lessons struct {
	db *sqlx.DB
}

func NewLessons(db *sqlx.DB) *Lessons {
	return &Lessons{db: db}
}

const lessonColumns = "id, title, pdf_file_id, pdf_file_name, uploaded_at"

func (r *Lessons) FindByID(ctx context.Context, id int64) (*domain.Lesson, error) {
	var l domain.Lesson
	err := r.db.GetContext(ctx, &l,
		"SELECT "+lessonColumns+" FROM lessons WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

func (r *Lessons) Insert(ctx context.Context, l *domain.Lesson) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO lessons (id, title, pdf_file_id, pdf_file_name, uploaded_at)
		VALUES (:id, :title, :pdf_file_id, :pdf_file_name, :uploaded_at)`, l)
	return mapErr(err)
}

func (r *Lessons) ReplaceFile(ctx context.Context, id int64, fileID, fileName string, at time.Time) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE lessons SET pdf_file_id = $1, pdf_file_name = $2, uploaded_at = $3
		WHERE id = $4`,
		fileID, fileName, at, id))
}

// List returns lessons in upload order; the menu numbers them by position.
func (r *Lessons) List(ctx context.Context) ([]domain.Lesson, error) {
	var out []domain.Lesson
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+lessonColumns+" FROM lessons ORDER BY uploaded_at, id")
	return out, err
}
