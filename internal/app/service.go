package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/yms-edu/registrar/internal/registry"
	"github.com/yms-edu/registrar/internal/school"
	"github.com/yms-edu/registrar/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.DocStore
	Registry *registry.Registry
	Guard    *PinGuard

	Students *school.StudentRepo
	Teachers *school.TeacherRepo
	Admins   *school.AdminRepo
	Results  *school.ResultRepo
	Subjects *school.SubjectRepo
	Classes  *school.ClassRepo
	Cards    *school.CardRepo
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	docStore, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	guard, err := NewPinGuard(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init pin guard: %w", err)
	}

	reg := registry.New(docStore)
	kinds := registry.Kinds(config.Registry.SchoolPrefix)

	subjects := school.NewSubjectRepo(docStore)

	return &Service{
		Config:   config,
		Store:    docStore,
		Registry: reg,
		Guard:    guard,
		Students: school.NewStudentRepo(docStore, reg, kinds["student"], subjects),
		Teachers: school.NewTeacherRepo(docStore, reg, kinds["teacher"]),
		Admins:   school.NewAdminRepo(docStore, reg, kinds["admin"]),
		Results:  school.NewResultRepo(docStore, subjects, config.Scoring.MaxScorePerSubject),
		Subjects: subjects,
		Classes:  school.NewClassRepo(docStore),
		Cards:    school.NewCardRepo(docStore),
	}, nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Guard.Close(); err != nil {
		errs = append(errs, fmt.Errorf("pin guard: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
