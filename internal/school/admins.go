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

const collAdmins = "admins"

type AdminRepo struct {
	Store    store.DocStore
	Registry *registry.Registry
	Kind     registry.Kind
	Now      func() time.Time
}

func NewAdminRepo(s store.DocStore, reg *registry.Registry, kind registry.Kind) *AdminRepo {
	return &AdminRepo{Store: s, Registry: reg, Kind: kind, Now: time.Now}
}

func (r *AdminRepo) Create(admin models.Admin) (*models.Admin, error) {
	if err := admin.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}

	adminUID, err := r.Registry.Mint(r.Kind)
	if err != nil {
		return nil, err
	}
	admin.AdminUID = adminUID
	if admin.AuthUID == "" {
		admin.AuthUID = "system"
	}
	admin.ID = ""
	admin.CreatedAt = r.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(admin)
	if err != nil {
		return nil, fmt.Errorf("failed to encode admin: %w", err)
	}
	doc, err := r.Store.Add(collAdmins, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collAdmins, "add").Inc()

	admin.ID = doc.ID
	return &admin, nil
}

func (r *AdminRepo) Get(id string) (*models.Admin, error) {
	doc, err := r.Store.Get(collAdmins, id)
	if err != nil {
		return nil, err
	}
	var admin models.Admin
	if err := json.Unmarshal(doc.Data, &admin); err != nil {
		return nil, fmt.Errorf("failed to decode admin %s: %w", doc.ID, err)
	}
	admin.ID = doc.ID
	return &admin, nil
}

func (r *AdminRepo) List() ([]models.Admin, error) {
	docs, err := r.Store.Query(collAdmins, store.Query{Desc: true})
	if err != nil {
		return nil, err
	}
	admins := make([]models.Admin, 0, len(docs))
	for _, doc := range docs {
		var admin models.Admin
		if err := json.Unmarshal(doc.Data, &admin); err != nil {
			return nil, fmt.Errorf("failed to decode admin %s: %w", doc.ID, err)
		}
		admin.ID = doc.ID
		admins = append(admins, admin)
	}
	return admins, nil
}

func (r *AdminRepo) Delete(id string) error {
	if err := r.Store.Delete(collAdmins, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collAdmins, "delete").Inc()
	return nil
}
