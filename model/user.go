package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address"`
	Zipcode      string    `json:"zipcode"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phone_number" validate:"required,thphone"`
	Address     string `json:"address" validate:"required,address"`
	Zipcode     string `json:"zipcode" validate:"required,zipcode"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserReq represents a profile edit. Password is optional; empty
// keeps the current one.
type UpdateUserReq struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=6"`
	PhoneNumber string `json:"phone_number" validate:"required,thphone"`
	Address     string `json:"address" validate:"required,address"`
	Zipcode     string `json:"zipcode" validate:"required,zipcode"`
}
