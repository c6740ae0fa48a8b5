package models

import (
	"fmt"
	"strings"
	"time"
)

// Guardian is one of up to three contacts on a student record. A guardian
// counts as present when at least one of name/phone/email survives trimming.
type Guardian struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

// ResultRef is the denormalized summary of a result document kept on the
// student for cheap listing. The result document stays authoritative.
type ResultRef struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"createdAt"`
	Session      string `json:"session"`
	Term         string `json:"term"`
	SubjectCount int    `json:"subjectCount"`
}

type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Student struct {
	ID                    string               `json:"id,omitempty"`
	Name                  string               `json:"name"`
	UID                   string               `json:"uid"`
	LinNumber             string               `json:"linNumber"`
	DOB                   string               `json:"dob"`
	Age                   *int                 `json:"age"`
	Gender                bool                 `json:"gender"`
	Class                 string               `json:"class"`
	Guardians             []Guardian           `json:"guardians"`
	Address               string               `json:"address"`
	StateOfOrigin         string               `json:"stateOfOrigin"`
	LGA                   string               `json:"lga"`
	BloodGroup            string               `json:"bloodGroup"`
	Allergies             string               `json:"allergies"`
	MedicalConditions     string               `json:"medicalConditions"`
	EmergencyContactName  string               `json:"emergencyContactName"`
	EmergencyContactPhone string               `json:"emergencyContactPhone"`
	Subjects              []SubjectRef         `json:"subjects"`
	Religion              string               `json:"religion"`
	Results               map[string]ResultRef `json:"results"`
	CreatedAt             string               `json:"createdAt"`
	UpdatedAt             string               `json:"updatedAt"`
}

// NormalizeGender maps common spellings to the stored boolean (true = male).
func NormalizeGender(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "m", "true":
		return true, nil
	case "female", "f", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: invalid gender", ErrInvalid)
}

// NormalizeReligion returns the canonical value, "" when not provided,
// or rejects unrecognized input.
func NormalizeReligion(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case "christian", "christianity", "chr":
		return "Christian", nil
	case "muslim", "islam", "muslimah":
		return "Muslim", nil
	case "other", "others", "none":
		return "Other", nil
	}
	return "", fmt.Errorf("%w: invalid religion", ErrInvalid)
}

// NormalizeGuardians trims every field, drops entries with no contact
// information at all, and requires 1 to 3 remaining guardians.
func NormalizeGuardians(input []Guardian) ([]Guardian, error) {
	guardians := make([]Guardian, 0, len(input))
	for _, g := range input {
		g.Name = strings.TrimSpace(g.Name)
		g.Phone = strings.TrimSpace(g.Phone)
		g.Email = strings.TrimSpace(g.Email)
		g.Relationship = strings.TrimSpace(g.Relationship)
		if g.Name == "" && g.Phone == "" && g.Email == "" {
			continue
		}
		guardians = append(guardians, g)
	}

	if len(guardians) < 1 || len(guardians) > 3 {
		return nil, fmt.Errorf("%w: 1 to 3 guardians required", ErrInvalid)
	}
	return guardians, nil
}

// CalculateAgeFromDOB computes full years between dob and now, nil when the
// date is missing, unparseable, or in the future.
func CalculateAgeFromDOB(dob string, now time.Time) *int {
	if dob == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", dob)
	if err != nil {
		d, err = time.Parse(time.RFC3339, dob)
		if err != nil {
			return nil
		}
	}

	age := now.Year() - d.Year()
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}
