package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
)

// UpdateProfileRequest patches the customer's own profile.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
}

// CustomerResponse is the API shape of a storefront account.
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(customer *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Email:     customer.Email,
		FullName:  customer.FullName,
		Phone:     customer.Phone,
		IsActive:  customer.IsActive,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}
