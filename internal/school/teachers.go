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

const collTeachers = "teachers"

type TeacherRepo struct {
	Store    store.DocStore
	Registry *registry.Registry
	Kind     registry.Kind
	Now      func() time.Time
}

func NewTeacherRepo(s store.DocStore, reg *registry.Registry, kind registry.Kind) *TeacherRepo {
	return &TeacherRepo{Store: s, Registry: reg, Kind: kind, Now: time.Now}
}

// Create mints a UID when the payload does not carry one. A caller-supplied
// UID is kept as-is, matching the staff-import flow.
func (r *TeacherRepo) Create(teacher models.Teacher) (*models.Teacher, error) {
	if err := teacher.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}

	if teacher.UID == "" {
		uid, err := r.Registry.Mint(r.Kind)
		if err != nil {
			return nil, err
		}
		teacher.UID = uid
	}

	if teacher.Status == "" {
		teacher.Status = "inactive"
	}
	now := r.Now().UTC().Format(time.RFC3339)
	if teacher.DateJoined == "" {
		teacher.DateJoined = now
	}
	if teacher.Subjects == nil {
		teacher.Subjects = []string{}
	}
	teacher.ID = ""
	teacher.CreatedAt = now

	data, err := json.Marshal(teacher)
	if err != nil {
		return nil, fmt.Errorf("failed to encode teacher: %w", err)
	}
	doc, err := r.Store.Add(collTeachers, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collTeachers, "add").Inc()

	teacher.ID = doc.ID
	return &teacher, nil
}

func (r *TeacherRepo) Get(id string) (*models.Teacher, error) {
	doc, err := r.Store.Get(collTeachers, id)
	if err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := json.Unmarshal(doc.Data, &teacher); err != nil {
		return nil, fmt.Errorf("failed to decode teacher %s: %w", doc.ID, err)
	}
	teacher.ID = doc.ID
	return &teacher, nil
}

func (r *TeacherRepo) List() ([]models.Teacher, error) {
	docs, err := r.Store.Query(collTeachers, store.Query{Desc: true})
	if err != nil {
		return nil, err
	}
	teachers := make([]models.Teacher, 0, len(docs))
	for _, doc := range docs {
		var teacher models.Teacher
		if err := json.Unmarshal(doc.Data, &teacher); err != nil {
			return nil, fmt.Errorf("failed to decode teacher %s: %w", doc.ID, err)
		}
		teacher.ID = doc.ID
		teachers = append(teachers, teacher)
	}
	return teachers, nil
}

func (r *TeacherRepo) Update(id string, patch map[string]any) (*models.Teacher, error) {
	if _, err := r.Store.Get(collTeachers, id); err != nil {
		return nil, err
	}
	patch["updatedAt"] = r.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode teacher patch: %w", err)
	}
	if err := r.Store.Merge(collTeachers, id, data); err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collTeachers, "merge").Inc()
	return r.Get(id)
}

func (r *TeacherRepo) Delete(id string) error {
	if err := r.Store.Delete(collTeachers, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collTeachers, "delete").Inc()
	return nil
}
