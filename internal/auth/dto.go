package auth

// LoginRequest carries credentials for both admin and storefront logins.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterCustomerRequest creates a storefront account.
type RegisterCustomerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
}

// TokenResponse is the payload returned by every successful authentication.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Authorities []string `json:"authorities"`
}
