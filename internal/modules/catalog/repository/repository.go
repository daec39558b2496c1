package repository

import (
	"context"
	"errors"

	"anoa.com/mediannsp/internal/entity"
	"gorm.io/gorm"
)

// Item is any reference-data row with an id, a unique name and a description.
type Item interface {
	entity.Role | entity.DeviceType | entity.ComponentType
}

type CatalogRepository[T Item] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type catalogRepository[T Item] struct {
	db *gorm.DB
}

func NewCatalogRepository[T Item](db *gorm.DB) CatalogRepository[T] {
	return &catalogRepository[T]{db: db}
}

func (r *catalogRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *catalogRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return findOne[T](r.db.WithContext(ctx), "id = ?", id)
}

func (r *catalogRepository[T]) FindByName(ctx context.Context, name string) (*T, error) {
	return findOne[T](r.db.WithContext(ctx), "name = ?", name)
}

func (r *catalogRepository[T]) Create(ctx context.Context, item *T) (*T, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *catalogRepository[T]) Update(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findOne[T](tx, "id = ?", id)
		if err != nil || existing == nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(new(T)).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}

		updated, err = findOne[T](tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *catalogRepository[T]) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	return result.RowsAffected, result.Error
}

// findOne returns nil, nil when no row matches.
func findOne[T Item](db *gorm.DB, query string, args ...any) (*T, error) {
	var item T
	err := db.Where(query, args...).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
