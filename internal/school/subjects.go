package school

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/store"
)

const collSubjects = "subjects"

type SubjectRepo struct {
	Store store.DocStore
	Now   func() time.Time
}

func NewSubjectRepo(s store.DocStore) *SubjectRepo {
	return &SubjectRepo{Store: s, Now: time.Now}
}

func (r *SubjectRepo) Create(subj models.Subject) (*models.Subject, error) {
	if err := subj.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}
	subj.ID = ""
	subj.CreatedAt = r.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(subj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subject: %w", err)
	}
	doc, err := r.Store.Add(collSubjects, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collSubjects, "add").Inc()
	subj.ID = doc.ID
	return &subj, nil
}

func (r *SubjectRepo) Get(id string) (*models.Subject, error) {
	doc, err := r.Store.Get(collSubjects, id)
	if err != nil {
		return nil, err
	}
	var subj models.Subject
	if err := json.Unmarshal(doc.Data, &subj); err != nil {
		return nil, fmt.Errorf("failed to decode subject %s: %w", id, err)
	}
	subj.ID = doc.ID
	return &subj, nil
}

func (r *SubjectRepo) List() ([]models.Subject, error) {
	docs, err := r.Store.Query(collSubjects, store.Query{Desc: true})
	if err != nil {
		return nil, err
	}
	subjects := make([]models.Subject, 0, len(docs))
	for _, doc := range docs {
		var subj models.Subject
		if err := json.Unmarshal(doc.Data, &subj); err != nil {
			return nil, fmt.Errorf("failed to decode subject %s: %w", doc.ID, err)
		}
		subj.ID = doc.ID
		subjects = append(subjects, subj)
	}
	return subjects, nil
}

func (r *SubjectRepo) Update(id string, patch map[string]any) (*models.Subject, error) {
	if _, err := r.Store.Get(collSubjects, id); err != nil {
		return nil, err
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subject patch: %w", err)
	}
	if err := r.Store.Merge(collSubjects, id, data); err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collSubjects, "merge").Inc()
	return r.Get(id)
}

func (r *SubjectRepo) Delete(id string) error {
	if err := r.Store.Delete(collSubjects, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collSubjects, "delete").Inc()
	return nil
}

// ResolveNames maps subject names onto references. The resolution is a
// lossy soft-reference: unmatched names are dropped, not errors.
func (r *SubjectRepo) ResolveNames(names []string) []models.SubjectRef {
	refs := make([]models.SubjectRef, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		docs, err := r.Store.Query(collSubjects, store.Query{
			Filters: []store.Eq{{Field: "name", Value: name}},
			Limit:   1,
		})
		if err != nil || len(docs) == 0 {
			continue
		}
		var subj models.Subject
		if err := json.Unmarshal(docs[0].Data, &subj); err != nil {
			continue
		}
		refs = append(refs, models.SubjectRef{ID: docs[0].ID, Name: subj.Name})
	}
	return refs
}

// NameIndex returns a lookup of subject code and id to name, used when
// enriching result sheets.
func (r *SubjectRepo) NameIndex() (map[string]string, error) {
	subjects, err := r.List()
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(subjects)*2)
	for _, subj := range subjects {
		if subj.Code != "" {
			index[subj.Code] = subj.Name
		}
		if subj.ID != "" {
			index[subj.ID] = subj.Name
		}
	}
	return index, nil
}
