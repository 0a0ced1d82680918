// Package storage implements the domain repository contracts over
// PostgreSQL with sqlx. Each repository is a thin query layer; workflow
// rules live in the engine and lifecycle packages.
package storage

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"churchbot/internal/domain"
)

var (
	_ domain.MemberRepo     = (*Members)(nil)
	_ domain.NeedRepo       = (*Needs)(nil)
	_ domain.PrayerRepo     = (*Prayers)(nil)
	_ domain.LiteratureRepo = (*Literature)(nil)
	_ domain.LessonRepo     = (*Lessons)(nil)
)

const pgUniqueViolation = "23505"

// mapErr translates driver errors into domain sentinels.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return domain.ErrAlreadyRegistered
	}
	return err
}

// affected enforces that a write touched a row; a miss means the record id
// is stale.
func affected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
