package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/store"
)

// Service manages patient records for the admin surface.
type Service interface {
	Create(ctx context.Context, p *Patient) error
	Get(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string) ([]Patient, error)
}

type service struct {
	store store.Store
	audit audit.Service
}

func NewService(st store.Store, auditService audit.Service) Service {
	return &service{store: st, audit: auditService}
}

func (s *service) Create(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []string{}
	}
	p.CreatedAt = time.Now().UTC()
	if err := s.store.Create(ctx, store.CollectionPatients, p); err != nil {
		return err
	}
	s.logEvent(ctx, audit.EventModify, "CREATE_PATIENT", p.ID)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	if err := s.store.Get(ctx, store.CollectionPatients, id, &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update rewrites the editable fields. CreatedAt is never touched.
func (s *service) Update(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	history := p.MedicalHistory
	if history == nil {
		history = []string{}
	}
	fields := map[string]interface{}{
		"name":             p.Name,
		"email":            p.Email,
		"phone":            p.Phone,
		"dateOfBirth":      p.DateOfBirth,
		"gender":           p.Gender,
		"address":          p.Address,
		"emergencyContact": p.EmergencyContact,
		"medicalHistory":   history,
	}
	if err := s.store.Update(ctx, store.CollectionPatients, p.ID, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	s.logEvent(ctx, audit.EventModify, "UPDATE_PATIENT", p.ID)
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.CollectionPatients, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	s.logEvent(ctx, audit.EventDelete, "DELETE_PATIENT", id)
	return nil
}

func (s *service) List(ctx context.Context, search string) ([]Patient, error) {
	var all []Patient
	opts := store.ListOptions{SortField: "createdAt", SortDesc: true}
	if err := s.store.List(ctx, store.CollectionPatients, opts, &all); err != nil {
		return nil, err
	}
	if search == "" {
		return all, nil
	}
	filtered := make([]Patient, 0, len(all))
	for _, p := range all {
		if p.MatchesSearch(search) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Patient demographics never go into audit details, only the record id.
func (s *service) logEvent(ctx context.Context, eventType audit.EventType, action, id string) {
	_ = s.audit.LogEvent(ctx, &audit.AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Action:     action,
		Resource:   store.CollectionPatients,
		ResourceID: id,
		Status:     "SUCCESS",
	})
}
