package dto

import "anoa.com/mediannsp/internal/entity"

type CreateContractRequest struct {
	ContractNumber string       `json:"contract_number" binding:"required,max=100"`
	ContractDate   *entity.Date `json:"contract_date" binding:"required"`
	UserID         uint         `json:"user_id" binding:"required,gt=0"`
}

type UpdateContractRequest struct {
	ContractNumber *string      `json:"contract_number" binding:"omitempty,min=1,max=100"`
	ContractDate   *entity.Date `json:"contract_date"`
	UserID         *uint        `json:"user_id" binding:"omitempty,gt=0"`
}

func (r UpdateContractRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.ContractNumber != nil {
		fields["contract_number"] = *r.ContractNumber
	}
	if r.ContractDate != nil {
		fields["contract_date"] = *r.ContractDate
	}
	if r.UserID != nil {
		fields["user_id"] = *r.UserID
	}
	return fields
}
