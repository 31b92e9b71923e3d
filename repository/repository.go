// Package repository wraps GORM access to each table behind a small interface.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("duplicate key")
)

// Page limits a list query. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func paginate(q *gorm.DB, p Page) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	return q
}
