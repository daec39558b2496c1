package dto

// SearchQuery binds GET /search.
type SearchQuery struct {
	Query      string `form:"query"`
	EntityType string `form:"entity_type" binding:"omitempty,oneof=device component all"`
	Page       int    `form:"page" binding:"omitempty,min=1,max=10000"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type AdvancedFilters struct {
	Search          string `json:"search"`
	DeviceTypeID    uint   `json:"device_type_id"`
	ComponentTypeID uint   `json:"component_type_id"`
	Status          string `json:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
	Location        string `json:"location"`
}

// AdvancedSearchRequest binds POST /search/advanced.
type AdvancedSearchRequest struct {
	Filters    AdvancedFilters `json:"filters"`
	EntityType string          `json:"entity_type" binding:"omitempty,oneof=device component all"`
	Page       int             `json:"page" binding:"omitempty,min=1,max=10000"`
	Limit      int             `json:"limit" binding:"omitempty,min=1,max=100"`
}
