package models

import (
	"github.com/go-playground/validator/v10"
)

type Subject struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name" validate:"required"`
	Code      string `json:"code" validate:"required,max=8"`
	CreatedAt string `json:"createdAt"`
}

type Class struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name" validate:"required"`
	TeacherUID string `json:"teacherUid"`
	Capacity   int    `json:"capacity" validate:"omitempty,min=1"`
	CreatedAt  string `json:"createdAt"`
}

func (s *Subject) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

func (c *Class) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
