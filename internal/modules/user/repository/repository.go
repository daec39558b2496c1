package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

type UserRepository interface {
	List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.User], error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create hashes password and stores the user.
	Create(ctx context.Context, user *entity.User, password string) (*entity.User, error)
	// Update applies fields; a non-empty "password" entry is replaced by its hash.
	Update(ctx context.Context, id uint, fields map[string]any) (*entity.User, error)
	Delete(ctx context.Context, id uint) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether plain matches the stored hash.
func ComparePassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func withRole(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.User{}).
		Select("users.*, COALESCE(roles.name, '') AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id")
}

func (r *userRepository) List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.User], error) {
	search := database.MatchAny(query.Search, "users.username", "users.email")

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Scopes(search).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []entity.User
	if err := r.db.WithContext(ctx).
		Scopes(withRole, search, database.Paginate(query.Page, query.Limit)).
		Order("users.created_at DESC").Order("users.id DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return commonDto.NewPage(users, total, query.Page, query.Limit), nil
}

func (r *userRepository) findOne(db *gorm.DB, query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := db.Scopes(withRole).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx), "users.id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx), "users.username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx), "users.email = ?", email)
}

func (r *userRepository) Create(ctx context.Context, user *entity.User, password string) (*entity.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, user.ID)
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]any) (*entity.User, error) {
	columns := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if k == "password" {
			plain, _ := v.(string)
			if plain == "" {
				continue
			}
			hash, err := HashPassword(plain)
			if err != nil {
				return nil, err
			}
			columns["password_hash"] = hash
			continue
		}
		columns[k] = v
	}
	columns["updated_at"] = time.Now()

	var updated *entity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.User{}).Where("id = ?", id).Updates(columns)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}

		var err error
		updated, err = r.findOne(tx, "users.id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	return result.RowsAffected, result.Error
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", role).
		Count(&count).Error
	return count, err
}
