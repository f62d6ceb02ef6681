package database

import (
	"context"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by single-row lookups.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = gorm.ErrDuplicatedKey
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) conn(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}
