package repository

import (
	"context"
	"errors"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PhotoRepository interface {
	// Create stores photo; the first photo of an entity becomes its primary photo.
	Create(ctx context.Context, photo *entity.Photo) (*entity.Photo, error)
	FindByID(ctx context.Context, id uint) (*entity.Photo, error)
	ListByEntity(ctx context.Context, ref entity.EntityRef) ([]entity.Photo, error)
	FindPrimary(ctx context.Context, ref entity.EntityRef) (*entity.Photo, error)
	// SetAsPrimary makes id the only primary photo of ref.
	SetAsPrimary(ctx context.Context, id uint, ref entity.EntityRef) (*entity.Photo, error)
	// Delete removes the row and promotes the oldest remaining photo if it was primary.
	Delete(ctx context.Context, id uint) (int64, error)
	EntityExists(ctx context.Context, ref entity.EntityRef) (bool, error)
	// FindOrphans returns photos whose device or component no longer exists.
	FindOrphans(ctx context.Context) ([]entity.Photo, error)
	FilePaths(ctx context.Context) ([]string, error)
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func forEntity(ref entity.EntityRef) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID)
	}
}

func (r *photoRepository) Create(ctx context.Context, photo *entity.Photo) (*entity.Photo, error) {
	primary, err := r.FindPrimary(ctx, photo.Ref())
	if err != nil {
		return nil, err
	}
	photo.IsPrimary = primary == nil

	err = r.db.WithContext(ctx).Create(photo).Error
	if photo.IsPrimary && database.IsDuplicate(err) {
		// Another upload became primary first.
		photo.ID = 0
		photo.IsPrimary = false
		err = r.db.WithContext(ctx).Create(photo).Error
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, photo.ID)
}

func findOne(db *gorm.DB, query string, args ...any) (*entity.Photo, error) {
	var photo entity.Photo
	err := db.Where(query, args...).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) FindByID(ctx context.Context, id uint) (*entity.Photo, error) {
	return findOne(r.db.WithContext(ctx), "id = ?", id)
}

func (r *photoRepository) ListByEntity(ctx context.Context, ref entity.EntityRef) ([]entity.Photo, error) {
	photos := []entity.Photo{}
	err := r.db.WithContext(ctx).Scopes(forEntity(ref)).
		Order("is_primary DESC").Order("uploaded_at ASC").Order("id ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) FindPrimary(ctx context.Context, ref entity.EntityRef) (*entity.Photo, error) {
	return findOne(r.db.WithContext(ctx).Scopes(forEntity(ref)), "is_primary = ?", true)
}

func (r *photoRepository) SetAsPrimary(ctx context.Context, id uint, ref entity.EntityRef) (*entity.Photo, error) {
	var updated *entity.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent toggles for the same entity.
		var ids []uint
		if err := tx.Model(&entity.Photo{}).Scopes(forEntity(ref)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Photo{}).Scopes(forEntity(ref)).
			Where("is_primary = ? AND id <> ?", true, id).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.Photo{}).Scopes(forEntity(ref)).
			Where("id = ?", id).
			Update("is_primary", true)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}

		var err error
		updated, err = findOne(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photo, err := findOne(tx, "id = ?", id)
		if err != nil || photo == nil {
			return err
		}

		result := tx.Delete(&entity.Photo{}, id)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if !photo.IsPrimary {
			return nil
		}

		next, err := findOne(tx.Scopes(forEntity(photo.Ref())).Order("uploaded_at ASC").Order("id ASC"), "1 = 1")
		if err != nil || next == nil {
			return err
		}
		return tx.Model(&entity.Photo{}).Where("id = ?", next.ID).Update("is_primary", true).Error
	})
	return affected, err
}

func (r *photoRepository) EntityExists(ctx context.Context, ref entity.EntityRef) (bool, error) {
	table := ref.Type.Table()
	if table == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Table(table).Where("id = ?", ref.ID).Count(&count).Error
	return count > 0, err
}

func (r *photoRepository) FindOrphans(ctx context.Context) ([]entity.Photo, error) {
	var photos []entity.Photo
	err := r.db.WithContext(ctx).
		Where("(entity_type = ? AND NOT EXISTS (SELECT 1 FROM devices WHERE devices.id = photos.entity_id))", entity.EntityDevice).
		Or("(entity_type = ? AND NOT EXISTS (SELECT 1 FROM components WHERE components.id = photos.entity_id))", entity.EntityComponent).
		Order("id ASC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) FilePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&entity.Photo{}).Pluck("file_path", &paths).Error
	return paths, err
}
