package models

import "time"

type AccountType string

const (
	AccountTypeSnacker AccountType = "snacker"
	AccountTypeOffice  AccountType = "office"
	AccountTypeStartup AccountType = "startup"
)

type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email" validate:"required,email"`
	Name         string      `json:"name,omitempty"`
	AccountType  AccountType `json:"account_type"`
	Company      string      `json:"company,omitempty"`
	Bio          string      `json:"bio,omitempty"`
	Location     string      `json:"location,omitempty"`
	PhoneNumber  string      `json:"phone_number,omitempty"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required"`
	AccountType string `json:"account_type" validate:"required,oneof=snacker office startup"`
	Company     string `json:"company,omitempty"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	AccountType string `json:"account_type"`
	Company     string `json:"company,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the emailed plaintext token back to the API.
// The password length policy is enforced here, before any store lookup.
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	Company     *string `json:"company,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Location    *string `json:"location,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
