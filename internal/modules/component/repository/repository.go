package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"gorm.io/gorm"
)

// Filter narrows a component list. Zero values are ignored.
type Filter struct {
	commonDto.ListQuery
	ComponentTypeID uint
	Status          string
}

type ComponentRepository interface {
	List(ctx context.Context, filter Filter) (*commonDto.Page[entity.Component], error)
	FindByID(ctx context.Context, id uint) (*entity.Component, error)
	Create(ctx context.Context, component *entity.Component) (*entity.Component, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*entity.Component, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type componentRepository struct {
	db *gorm.DB
}

func NewComponentRepository(db *gorm.DB) ComponentRepository {
	return &componentRepository{db: db}
}

// LabelColumns selects a component with its resolved labels.
const LabelColumns = "components.*, component_types.name AS component_type_name, " +
	"creators.username AS created_by_username, updaters.username AS updated_by_username"

// WithLabels joins the tables that resolve a component's display labels.
func WithLabels(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Component{}).
		Joins("LEFT JOIN component_types ON component_types.id = components.component_type_id").
		Joins("LEFT JOIN users AS creators ON creators.id = components.created_by").
		Joins("LEFT JOIN users AS updaters ON updaters.id = components.updated_by")
}

func filtered(f Filter) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		db = database.MatchAny(f.Search,
			"components.name", "components.serial_number", "components.manufacturer", "components.model")(db)
		if f.ComponentTypeID != 0 {
			db = db.Where("components.component_type_id = ?", f.ComponentTypeID)
		}
		if f.Status != "" {
			db = db.Where("components.status = ?", f.Status)
		}
		return db
	}
}

func (r *componentRepository) List(ctx context.Context, f Filter) (*commonDto.Page[entity.Component], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Component{}).Scopes(filtered(f)).Count(&total).Error; err != nil {
		return nil, err
	}

	var components []entity.Component
	if err := r.db.WithContext(ctx).
		Scopes(WithLabels, filtered(f), database.Paginate(f.Page, f.Limit)).
		Select(LabelColumns).
		Order("components.created_at DESC").Order("components.id DESC").
		Find(&components).Error; err != nil {
		return nil, err
	}

	return commonDto.NewPage(components, total, f.Page, f.Limit), nil
}

func findOne(db *gorm.DB, id uint) (*entity.Component, error) {
	var component entity.Component
	err := db.Scopes(WithLabels).Select(LabelColumns).Where("components.id = ?", id).First(&component).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *componentRepository) FindByID(ctx context.Context, id uint) (*entity.Component, error) {
	return findOne(r.db.WithContext(ctx), id)
}

func (r *componentRepository) Create(ctx context.Context, component *entity.Component) (*entity.Component, error) {
	if err := r.db.WithContext(ctx).Create(component).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, component.ID)
}

func (r *componentRepository) Update(ctx context.Context, id uint, fields map[string]any) (*entity.Component, error) {
	fields["updated_at"] = time.Now()

	var updated *entity.Component
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Component{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}

		var err error
		updated, err = findOne(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *componentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Component{})
	return result.RowsAffected, result.Error
}
