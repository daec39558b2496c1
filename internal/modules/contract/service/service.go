package contract

import (
	"context"
	"net/http"
	"strings"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/modules/contract/dto"
	"anoa.com/mediannsp/internal/modules/contract/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
)

var errContractNotFound = apperror.NotFound("Contract not found")

type ContractService interface {
	List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.Contract], error)
	Get(ctx context.Context, id uint) (*entity.Contract, error)
	Create(ctx context.Context, req dto.CreateContractRequest) (*entity.Contract, error)
	Update(ctx context.Context, id uint, req dto.UpdateContractRequest) (*entity.Contract, error)
	Delete(ctx context.Context, id uint) error
}

type contractService struct {
	repo repository.ContractRepository
}

func NewContractService(repo repository.ContractRepository) ContractService {
	return &contractService{repo: repo}
}

func (s *contractService) List(ctx context.Context, query commonDto.ListQuery) (*commonDto.Page[entity.Contract], error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *contractService) Get(ctx context.Context, id uint) (*entity.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, errContractNotFound
	}
	return contract, nil
}

func (s *contractService) Create(ctx context.Context, req dto.CreateContractRequest) (*entity.Contract, error) {
	contract := &entity.Contract{
		ContractNumber: strings.TrimSpace(req.ContractNumber),
		ContractDate:   *req.ContractDate,
		UserID:         req.UserID,
	}

	created, err := s.repo.Create(ctx, contract)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (s *contractService) Update(ctx context.Context, id uint, req dto.UpdateContractRequest) (*entity.Contract, error) {
	updated, err := s.repo.Update(ctx, id, req.Fields())
	if err != nil {
		return nil, mapWriteError(err)
	}
	if updated == nil {
		return nil, errContractNotFound
	}
	return updated, nil
}

func (s *contractService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.New(http.StatusConflict, "Contract is still referenced by devices", apperror.ErrConflict)
		}
		return err
	}
	if affected == 0 {
		return errContractNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperror.BadRequest("User not found")
	}
	return err
}
