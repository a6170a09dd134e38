package domain

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // "admin", "operator" or "user"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterUserDTO struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	Role     string `json:"role,omitempty"`
}

type LoginUserDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RequestOTPDTO struct {
	Phone string `json:"phone" binding:"required,min=6,max=20"`
}

type VerifyOTPDTO struct {
	Phone string `json:"phone" binding:"required,min=6,max=20"`
	Code  string `json:"code" binding:"required"`
}

type AuthResponseDTO struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}
