package models

import (
	"github.com/go-playground/validator/v10"
)

type Admin struct {
	ID        string `json:"id,omitempty"`
	AdminUID  string `json:"adminUid"`
	AuthUID   string `json:"authUid"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	UID       string `json:"uid"`
	CreatedAt string `json:"createdAt"`
}

func (a *Admin) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}
