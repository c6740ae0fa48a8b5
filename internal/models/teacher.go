package models

import (
	"github.com/go-playground/validator/v10"
)

type Teacher struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name" validate:"required"`
	UID               string   `json:"uid"`
	Email             string   `json:"email" validate:"omitempty,email"`
	Phone             string   `json:"phone"`
	DOB               string   `json:"dob"`
	Qualifications    string   `json:"qualifications"`
	StateOfOrigin     string   `json:"stateOfOrigin"`
	SchoolAttended    string   `json:"schoolAttended"`
	YearsOfExperience string   `json:"yearsOfExperience"`
	Status            string   `json:"status" validate:"omitempty,oneof=active inactive"`
	DateJoined        string   `json:"dateJoined"`
	Address           string   `json:"address"`
	NextOfKin         string   `json:"nextOfKin"`
	NextOfKinPhone    string   `json:"nextOfKinPhone"`
	Relationship      string   `json:"relationship"`
	AssignedClass     string   `json:"assignedClass"`
	Subjects          []string `json:"subjects"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt,omitempty"`
}

func (t *Teacher) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}
