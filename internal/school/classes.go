package school

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/store"
)

const collClasses = "classes"

type ClassRepo struct {
	Store store.DocStore
	Now   func() time.Time
}

func NewClassRepo(s store.DocStore) *ClassRepo {
	return &ClassRepo{Store: s, Now: time.Now}
}

func (r *ClassRepo) Create(class models.Class) (*models.Class, error) {
	if err := class.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}
	class.ID = ""
	class.CreatedAt = r.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(class)
	if err != nil {
		return nil, fmt.Errorf("failed to encode class: %w", err)
	}
	doc, err := r.Store.Add(collClasses, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collClasses, "add").Inc()
	class.ID = doc.ID
	return &class, nil
}

func (r *ClassRepo) Get(id string) (*models.Class, error) {
	doc, err := r.Store.Get(collClasses, id)
	if err != nil {
		return nil, err
	}
	var class models.Class
	if err := json.Unmarshal(doc.Data, &class); err != nil {
		return nil, fmt.Errorf("failed to decode class %s: %w", doc.ID, err)
	}
	class.ID = doc.ID
	return &class, nil
}

func (r *ClassRepo) List() ([]models.Class, error) {
	docs, err := r.Store.Query(collClasses, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	classes := make([]models.Class, 0, len(docs))
	for _, doc := range docs {
		var class models.Class
		if err := json.Unmarshal(doc.Data, &class); err != nil {
			return nil, fmt.Errorf("failed to decode class %s: %w", doc.ID, err)
		}
		class.ID = doc.ID
		classes = append(classes, class)
	}
	return classes, nil
}

func (r *ClassRepo) Update(id string, patch map[string]any) (*models.Class, error) {
	if _, err := r.Store.Get(collClasses, id); err != nil {
		return nil, err
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode class patch: %w", err)
	}
	if err := r.Store.Merge(collClasses, id, data); err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collClasses, "merge").Inc()
	return r.Get(id)
}

func (r *ClassRepo) Delete(id string) error {
	if err := r.Store.Delete(collClasses, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collClasses, "delete").Inc()
	return nil
}
