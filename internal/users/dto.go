package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
)

// CreateUserRequest provisions an admin user with an initial role set.
type CreateUserRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	FullName string      `json:"full_name" validate:"required"`
	Phone    *string     `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
	RoleIDs  []uuid.UUID `json:"role_ids" validate:"required,min=1"`
}

// UpdateUserRequest patches mutable profile fields.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AssignRolesRequest replaces a user's role set.
type AssignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" validate:"required,min=1"`
}

// UserResponse is the API shape of an admin user.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Phone     *string    `json:"phone,omitempty"`
	IsActive  bool       `json:"is_active"`
	Roles     []RoleRef  `json:"roles"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// RoleRef is a role summary embedded in user payloads.
type RoleRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toResponse(user *models.User) UserResponse {
	roles := make([]RoleRef, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, RoleRef{ID: role.ID, Name: role.Name})
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		IsActive:  user.IsActive,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		DeletedAt: user.DeletedAt,
	}
}
