// Package school holds the entity repositories: field normalization,
// identifier minting and persistence for students, teachers, admins and
// results, plus the result/student reference synchronizer.
package school

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/registry"
	"github.com/yms-edu/registrar/internal/store"
)

const collStudents = "students"

// StudentInput is the client payload for creating a student. Gender and
// religion arrive as free-form strings and are normalized here; subjects
// arrive as names and are resolved against the subjects collection.
type StudentInput struct {
	Name                  string            `json:"name"`
	LinNumber             string            `json:"linNumber"`
	DOB                   string            `json:"dob"`
	Gender                string            `json:"gender"`
	Class                 string            `json:"class"`
	Guardians             []models.Guardian `json:"guardians"`
	Address               string            `json:"address"`
	StateOfOrigin         string            `json:"stateOfOrigin"`
	LGA                   string            `json:"lga"`
	BloodGroup            string            `json:"bloodGroup"`
	Allergies             string            `json:"allergies"`
	MedicalConditions     string            `json:"medicalConditions"`
	EmergencyContactName  string            `json:"emergencyContactName"`
	EmergencyContactPhone string            `json:"emergencyContactPhone"`
	Subjects              []string          `json:"subjects"`
	Religion              string            `json:"religion"`
}

type StudentRepo struct {
	Store    store.DocStore
	Registry *registry.Registry
	Kind     registry.Kind
	Subjects *SubjectRepo
	Now      func() time.Time
}

func NewStudentRepo(s store.DocStore, reg *registry.Registry, kind registry.Kind, subjects *SubjectRepo) *StudentRepo {
	return &StudentRepo{
		Store:    s,
		Registry: reg,
		Kind:     kind,
		Subjects: subjects,
		Now:      time.Now,
	}
}

func (r *StudentRepo) Create(input StudentInput) (*models.Student, error) {
	gender, err := models.NormalizeGender(input.Gender)
	if err != nil {
		return nil, err
	}
	guardians, err := models.NormalizeGuardians(input.Guardians)
	if err != nil {
		return nil, err
	}
	religion, err := models.NormalizeReligion(input.Religion)
	if err != nil {
		return nil, err
	}

	uid, err := r.Registry.Mint(r.Kind)
	if err != nil {
		return nil, err
	}

	now := r.Now().UTC().Format(time.RFC3339)
	student := models.Student{
		Name:                  input.Name,
		UID:                   uid,
		LinNumber:             input.LinNumber,
		DOB:                   input.DOB,
		Age:                   models.CalculateAgeFromDOB(input.DOB, r.Now()),
		Gender:                gender,
		Class:                 input.Class,
		Guardians:             guardians,
		Address:               input.Address,
		StateOfOrigin:         input.StateOfOrigin,
		LGA:                   input.LGA,
		BloodGroup:            input.BloodGroup,
		Allergies:             input.Allergies,
		MedicalConditions:     input.MedicalConditions,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
		Subjects:              r.Subjects.ResolveNames(input.Subjects),
		Religion:              religion,
		Results:               map[string]models.ResultRef{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	data, err := json.Marshal(student)
	if err != nil {
		return nil, fmt.Errorf("failed to encode student: %w", err)
	}
	doc, err := r.Store.Add(collStudents, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collStudents, "add").Inc()

	student.ID = doc.ID
	return &student, nil
}

func (r *StudentRepo) Get(id string) (*models.Student, error) {
	doc, err := r.Store.Get(collStudents, id)
	if err != nil {
		return nil, err
	}
	return decodeStudent(doc)
}

func (r *StudentRepo) List() ([]models.Student, error) {
	docs, err := r.Store.Query(collStudents, store.Query{Desc: true})
	if err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(docs))
	for _, doc := range docs {
		s, err := decodeStudent(&doc)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, nil
}

// Update re-runs the create-time normalization for every field present in
// the patch and leaves absent fields untouched.
func (r *StudentRepo) Update(id string, patch map[string]any) (*models.Student, error) {
	if _, err := r.Store.Get(collStudents, id); err != nil {
		return nil, err
	}

	if v, ok := patch["gender"]; ok {
		gender, err := normalizeGenderValue(v)
		if err != nil {
			return nil, err
		}
		patch["gender"] = gender
	}

	if v, ok := patch["guardians"]; ok {
		var input []models.Guardian
		if err := reencode(v, &input); err != nil {
			return nil, fmt.Errorf("%w: malformed guardians", models.ErrInvalid)
		}
		guardians, err := models.NormalizeGuardians(input)
		if err != nil {
			return nil, err
		}
		patch["guardians"] = guardians
	}

	if v, ok := patch["subjects"]; ok {
		var names []string
		if err := reencode(v, &names); err != nil {
			return nil, fmt.Errorf("%w: malformed subjects", models.ErrInvalid)
		}
		patch["subjects"] = r.Subjects.ResolveNames(names)
	}

	if v, ok := patch["dob"]; ok {
		dob, _ := v.(string)
		patch["age"] = models.CalculateAgeFromDOB(dob, r.Now())
	}

	if v, ok := patch["religion"]; ok {
		s, _ := v.(string)
		religion, err := models.NormalizeReligion(s)
		if err != nil {
			return nil, err
		}
		patch["religion"] = religion
	}

	allowed := map[string]bool{
		"name": true, "linNumber": true, "dob": true, "gender": true,
		"class": true, "guardians": true, "address": true,
		"stateOfOrigin": true, "lga": true, "bloodGroup": true,
		"allergies": true, "medicalConditions": true,
		"emergencyContactName": true, "emergencyContactPhone": true,
		"subjects": true, "age": true, "religion": true,
	}
	update := make(map[string]any)
	for k, v := range patch {
		if allowed[k] {
			update[k] = v
		}
	}
	update["updatedAt"] = r.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode student patch: %w", err)
	}
	if err := r.Store.Merge(collStudents, id, data); err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collStudents, "merge").Inc()

	return r.Get(id)
}

// Delete removes only the student document. Linked result documents stay
// behind; cmd/reconcile is the repair tool for the other direction.
func (r *StudentRepo) Delete(id string) error {
	if err := r.Store.Delete(collStudents, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collStudents, "delete").Inc()
	return nil
}

func decodeStudent(doc *store.Document) (*models.Student, error) {
	var student models.Student
	if err := json.Unmarshal(doc.Data, &student); err != nil {
		return nil, fmt.Errorf("failed to decode student %s: %w", doc.ID, err)
	}
	student.ID = doc.ID
	return &student, nil
}

// normalizeGenderValue accepts the boolean form (already normalized) as
// well as the string spellings.
func normalizeGenderValue(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return models.NormalizeGender(t)
	}
	return false, fmt.Errorf("%w: invalid gender", models.ErrInvalid)
}

// reencode round-trips a decoded JSON value into a typed destination.
func reencode(v any, dst any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
