package medservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/store"
)

// ListFilter narrows the catalog listing. IncludeInactive is reserved
// for the admin surface; the public listing always filters it out.
type ListFilter struct {
	Search          string
	Department      string
	IncludeInactive bool
}

// Service manages the catalog of medical services offered by the hospital.
type Service interface {
	Create(ctx context.Context, m *MedicalService) error
	Get(ctx context.Context, id string) (*MedicalService, error)
	Update(ctx context.Context, m *MedicalService) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]MedicalService, error)
}

type service struct {
	store store.Store
	audit audit.Service
}

func NewService(st store.Store, auditService audit.Service) Service {
	return &service{store: st, audit: auditService}
}

func (s *service) Create(ctx context.Context, m *MedicalService) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Features == nil {
		m.Features = []string{}
	}
	if err := s.store.Create(ctx, store.CollectionServices, m); err != nil {
		return err
	}
	s.logEvent(ctx, audit.EventModify, "CREATE_SERVICE", m.ID, m)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*MedicalService, error) {
	var m MedicalService
	if err := s.store.Get(ctx, store.CollectionServices, id, &m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *service) Update(ctx context.Context, m *MedicalService) error {
	if err := m.Validate(); err != nil {
		return err
	}
	features := m.Features
	if features == nil {
		features = []string{}
	}
	fields := map[string]interface{}{
		"name":        m.Name,
		"description": m.Description,
		"department":  m.Department,
		"price":       m.Price,
		"duration":    m.Duration,
		"image":       m.Image,
		"features":    features,
		"isActive":    m.IsActive,
	}
	if err := s.store.Update(ctx, store.CollectionServices, m.ID, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrServiceNotFound
		}
		return err
	}
	s.logEvent(ctx, audit.EventModify, "UPDATE_SERVICE", m.ID, m)
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.CollectionServices, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrServiceNotFound
		}
		return err
	}
	s.logEvent(ctx, audit.EventDelete, "DELETE_SERVICE", id, nil)
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]MedicalService, error) {
	var all []MedicalService
	opts := store.ListOptions{SortField: "name"}
	if err := s.store.List(ctx, store.CollectionServices, opts, &all); err != nil {
		return nil, err
	}
	filtered := make([]MedicalService, 0, len(all))
	for _, m := range all {
		if !filter.IncludeInactive && !m.IsActive {
			continue
		}
		if !m.MatchesSearch(filter.Search) {
			continue
		}
		if filter.Department != "" && m.Department != filter.Department {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered, nil
}

func (s *service) logEvent(ctx context.Context, eventType audit.EventType, action, id string, payload interface{}) {
	var details json.RawMessage
	if payload != nil {
		details, _ = json.Marshal(payload)
	}
	_ = s.audit.LogEvent(ctx, &audit.AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Action:     action,
		Resource:   store.CollectionServices,
		ResourceID: id,
		Status:     "SUCCESS",
		Details:    details,
	})
}
