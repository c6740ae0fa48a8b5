package models

import (
	"github.com/go-playground/validator/v10"
)

// SubjectScore is one row of a result sheet. Code or ID is used to resolve
// the human-readable name against the subjects collection.
type SubjectScore struct {
	Code       string  `json:"code"`
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name,omitempty"`
	CA         float64 `json:"ca,omitempty"`
	Exam       float64 `json:"exam,omitempty"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage,omitempty"`
	Grade      string  `json:"grade,omitempty"`
	Remark     string  `json:"remark,omitempty"`
}

type Result struct {
	ID               string         `json:"id,omitempty"`
	StudentID        string         `json:"studentId" validate:"required"`
	StudentName      string         `json:"studentName,omitempty"`
	StudentUID       string         `json:"studentUid,omitempty"`
	StudentClass     string         `json:"studentClass,omitempty"`
	Session          string         `json:"session" validate:"required"`
	Term             string         `json:"term" validate:"required"`
	Subjects         []SubjectScore `json:"subjects" validate:"required,min=1"`
	TotalPercentage  float64        `json:"totalPercentage"`
	TeacherComment   string         `json:"teacherComment"`
	PrincipalComment string         `json:"principalComment"`
	TeacherUID       string         `json:"teacherUid" validate:"required"`
	CommentStatus    bool           `json:"commentStatus"`
	Published        string         `json:"published"`
	PublishedAt      string         `json:"publishedAt,omitempty"`
	ScratchPin       string         `json:"scratchPin,omitempty"`
	CreatedAt        string         `json:"createdAt"`
}

// ResultKey namespaces a result on the student's results map.
func ResultKey(session, term string) string {
	return session + "_" + term
}

func (r *Result) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
