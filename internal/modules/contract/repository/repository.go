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

type ContractRepository interface {
	List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.Contract], error)
	FindByID(ctx context.Context, id uint) (*entity.Contract, error)
	Create(ctx context.Context, contract *entity.Contract) (*entity.Contract, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*entity.Contract, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func withOwner(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Contract{}).
		Joins("LEFT JOIN users ON users.id = contracts.user_id")
}

func search(term string) database.Scope {
	return database.MatchAny(term, "contracts.contract_number", "CAST(contracts.contract_date AS TEXT)", "users.username")
}

func (r *contractRepository) List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.Contract], error) {
	var total int64
	if err := r.db.WithContext(ctx).Scopes(withOwner, search(query.Search)).Count(&total).Error; err != nil {
		return nil, err
	}

	var contracts []entity.Contract
	if err := r.db.WithContext(ctx).
		Scopes(withOwner, search(query.Search), database.Paginate(query.Page, query.Limit)).
		Select("contracts.*, users.username AS user_name").
		Order("contracts.created_at DESC").Order("contracts.id DESC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}

	return commonDto.NewPage(contracts, total, query.Page, query.Limit), nil
}

func findOne(db *gorm.DB, id uint) (*entity.Contract, error) {
	var contract entity.Contract
	err := db.Scopes(withOwner).
		Select("contracts.*, users.username AS user_name").
		Where("contracts.id = ?", id).
		First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*entity.Contract, error) {
	return findOne(r.db.WithContext(ctx), id)
}

func (r *contractRepository) Create(ctx context.Context, contract *entity.Contract) (*entity.Contract, error) {
	if err := r.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, contract.ID)
}

func (r *contractRepository) Update(ctx context.Context, id uint, fields map[string]any) (*entity.Contract, error) {
	fields["updated_at"] = time.Now()

	var updated *entity.Contract
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Contract{}).Where("id = ?", id).Updates(fields)
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

func (r *contractRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Contract{})
	return result.RowsAffected, result.Error
}
