package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/store"
)

// Service manages the doctor roster.
type Service interface {
	Create(ctx context.Context, d *Doctor) error
	Get(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search, department string) ([]Doctor, error)
}

type service struct {
	store store.Store
	audit audit.Service
}

func NewService(st store.Store, auditService audit.Service) Service {
	return &service{store: st, audit: auditService}
}

func (s *service) Create(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if err := s.store.Create(ctx, store.CollectionDoctors, d); err != nil {
		return err
	}
	s.logEvent(ctx, audit.EventModify, "CREATE_DOCTOR", d.ID, d)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*Doctor, error) {
	var d Doctor
	if err := s.store.Get(ctx, store.CollectionDoctors, id, &d); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *service) Update(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	fields := map[string]interface{}{
		"name":       d.Name,
		"specialty":  d.Specialty,
		"department": d.Department,
		"experience": d.Experience,
		"rating":     d.Rating,
		"reviews":    d.Reviews,
		"bio":        d.Bio,
		"education":  d.Education,
		"email":      d.Email,
		"phone":      d.Phone,
		"image":      d.Image,
	}
	if err := s.store.Update(ctx, store.CollectionDoctors, d.ID, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return err
	}
	s.logEvent(ctx, audit.EventModify, "UPDATE_DOCTOR", d.ID, d)
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.CollectionDoctors, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return err
	}
	s.logEvent(ctx, audit.EventDelete, "DELETE_DOCTOR", id, nil)
	return nil
}

// List returns doctors matching the search term and, when set, the exact
// department. The roster is small so filtering happens in memory.
func (s *service) List(ctx context.Context, search, department string) ([]Doctor, error) {
	var all []Doctor
	opts := store.ListOptions{SortField: "name"}
	if err := s.store.List(ctx, store.CollectionDoctors, opts, &all); err != nil {
		return nil, err
	}
	filtered := make([]Doctor, 0, len(all))
	for _, d := range all {
		if !d.MatchesSearch(search) {
			continue
		}
		if department != "" && d.Department != department {
			continue
		}
		filtered = append(filtered, d)
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
		Resource:   store.CollectionDoctors,
		ResourceID: id,
		Status:     "SUCCESS",
		Details:    details,
	})
}
