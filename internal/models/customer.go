package models

import "time"

type Customer struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	NationalID  string    `json:"national_id"`
	CompanyName string    `json:"company_name"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerRequest is the request body for creating or updating a customer
type CustomerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Phone       string `json:"phone" validate:"required,max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	NationalID  string `json:"national_id" validate:"max=50"`
	CompanyName string `json:"company_name" validate:"max=200"`
	Address     string `json:"address"`
}
