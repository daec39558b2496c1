package user

import (
	"context"
	"net/http"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/modules/user/dto"
	"anoa.com/mediannsp/internal/modules/user/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
)

var errUserNotFound = apperror.NotFound("User not found")

type UserService interface {
	List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.User], error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*entity.User, error)
	Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*entity.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.User], error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *userService) Get(ctx context.Context, id uint) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*entity.User, error) {
	user := &entity.User{
		Username: req.Username,
		Email:    req.Email,
		RoleID:   req.RoleID,
	}

	created, err := s.repo.Create(ctx, user, req.Password)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (s *userService) Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*entity.User, error) {
	updated, err := s.repo.Update(ctx, id, req.Fields())
	if err != nil {
		return nil, mapWriteError(err)
	}
	if updated == nil {
		return nil, errUserNotFound
	}
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.New(http.StatusConflict, "User still owns contracts", apperror.ErrConflict)
		}
		return err
	}
	if affected == 0 {
		return errUserNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case database.IsDuplicate(err):
		return apperror.New(http.StatusConflict, "Username or email already exists", apperror.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return apperror.BadRequest("Role not found")
	default:
		return err
	}
}
