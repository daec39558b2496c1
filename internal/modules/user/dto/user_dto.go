package dto

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6"`
	RoleID   uint   `json:"role_id" binding:"required,gt=0"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	RoleID   *uint   `json:"role_id" binding:"omitempty,gt=0"`
}

// Fields returns only the columns present in the request.
func (r UpdateUserRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Username != nil {
		fields["username"] = *r.Username
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.RoleID != nil {
		fields["role_id"] = *r.RoleID
	}
	if r.Password != nil && *r.Password != "" {
		fields["password"] = *r.Password
	}
	return fields
}
