package dto

import (
	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateAdminRequest shares the register rules.
type CreateAdminRequest = RegisterRequest

// UserResponse is the public projection returned with tokens.
type UserResponse struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Avatar string      `json:"avatar,omitempty"`
	Role   domain.Role `json:"role"`
}

// MeResponse adds the contact fields shown on the account page.
type MeResponse struct {
	UserResponse
	Address domain.Address `json:"address"`
	Phone   string         `json:"phone,omitempty"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// GoogleProfile is what the OAuth provider tells us about the account.
type GoogleProfile struct {
	ID      string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
	}
}

func NewMeResponse(u *domain.User) MeResponse {
	return MeResponse{
		UserResponse: NewUserResponse(u),
		Address:      u.Address,
		Phone:        u.Phone,
	}
}
