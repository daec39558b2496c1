package dto

import (
	"time"

	"anoa.com/mediannsp/internal/entity"
)

type BatchRequest struct {
	EntityType string `json:"entity_type"`
	IDs        []uint `json:"ids"`
}

// DeviceDocument is a printable device sheet with its installed components.
type DeviceDocument struct {
	Type string `json:"type"`
	*entity.DeviceDetail
	PrintDate time.Time `json:"printDate"`
	PrintedBy string    `json:"printedBy"`
}

type ComponentDocument struct {
	Type string `json:"type"`
	*entity.Component
	PrintDate time.Time `json:"printDate"`
	PrintedBy string    `json:"printedBy"`
}

// BatchDocument holds several records of one entity type; Entities is a slice of
// devices with components or of components.
type BatchDocument struct {
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type"`
	Entities   any       `json:"entities"`
	PrintDate  time.Time `json:"printDate"`
	PrintedBy  string    `json:"printedBy"`
}
