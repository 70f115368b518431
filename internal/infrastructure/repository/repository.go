// Package repository is the data-access layer: one interface per entity,
// all implemented on a single GORM store.
package repository

import (
	"context"
	"errors"
	"fmt"

	"agriconnect-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicate is returned (wrapping the driver error) when an insert or
// update hits a unique index.
var ErrDuplicate = errors.New("duplicate record")

// Filters are exact-match column filters for FindAll.
type Filters map[string]interface{}

// Repository is the contract shared by every entity.
type Repository[T any] interface {
	Create(ctx context.Context, v *T) error
	// FindByID returns nil, nil when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	// Update merges fields (column name keys) and returns the fresh row, or nil, nil when missing.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*T, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// FindAll returns rows matching filters, newest first.
	FindAll(ctx context.Context, filters Filters) ([]T, error)
}

const newestFirst = `"createdAt" DESC`

type crud[T any] struct {
	db   *gorm.DB
	name string
}

func (r *crud[T]) Create(ctx context.Context, v *T) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return r.wrap("create", err)
	}
	return nil
}

func (r *crud[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *crud[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*T, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, r.wrap("update", res.Error)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *crud[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, r.wrap("delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *crud[T]) FindAll(ctx context.Context, filters Filters) ([]T, error) {
	return r.find(r.where(r.db.WithContext(ctx), filters).Order(newestFirst))
}

func (r *crud[T]) where(q *gorm.DB, filters Filters) *gorm.DB {
	for col, v := range filters {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	return q
}

func (r *crud[T]) first(q *gorm.DB) (*T, error) {
	var v T
	if err := q.First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.wrap("find", err)
	}
	return &v, nil
}

func (r *crud[T]) find(q *gorm.DB) ([]T, error) {
	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, r.wrap("find", err)
	}
	return out, nil
}

func (r *crud[T]) wrap(op string, err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s %s: %w: %w", op, r.name, ErrDuplicate, err)
	}
	return fmt.Errorf("%s %s: %w", op, r.name, err)
}
