package dto

type CreateCatalogRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description"`
}

type UpdateCatalogRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description"`
}

// Fields returns only the columns present in the request.
func (r UpdateCatalogRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	return fields
}
