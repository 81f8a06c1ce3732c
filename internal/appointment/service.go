package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/doctor"
	"github.com/medicore/hospital-portal/internal/medservice"
	"github.com/medicore/hospital-portal/internal/store"
)

// BookingInput is what the public booking form submits. Department is
// optional; when empty it is derived from the chosen doctor, falling
// back to the chosen service.
type BookingInput struct {
	PatientName  string `json:"patientName"`
	PatientEmail string `json:"patientEmail"`
	PatientPhone string `json:"patientPhone"`
	DoctorID     string `json:"doctorId"`
	ServiceID    string `json:"serviceId"`
	Department   string `json:"department"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes"`
}

// Service owns the booking flow and the status lifecycle.
type Service interface {
	Book(ctx context.Context, in BookingInput) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	Confirm(ctx context.Context, id string) (*Appointment, error)
	Cancel(ctx context.Context, id string) (*Appointment, error)
	Complete(ctx context.Context, id string) (*Appointment, error)
	Reopen(ctx context.Context, id string) (*Appointment, error)
}

type service struct {
	store store.Store
	audit audit.Service

	// now is swapped out in tests to pin the booking window.
	now func() time.Time
}

func NewService(st store.Store, auditService audit.Service) Service {
	return &service{store: st, audit: auditService, now: time.Now}
}

func (s *service) Book(ctx context.Context, in BookingInput) (*Appointment, error) {
	if err := s.validateBooking(in); err != nil {
		return nil, err
	}

	ap := &Appointment{
		ID:           uuid.New().String(),
		PatientName:  in.PatientName,
		PatientEmail: in.PatientEmail,
		PatientPhone: in.PatientPhone,
		DoctorID:     in.DoctorID,
		ServiceID:    in.ServiceID,
		Department:   in.Department,
		Date:         in.Date,
		Time:         in.Time,
		Notes:        in.Notes,
		Status:       StatusPending,
		CreatedAt:    s.now().UTC(),
	}

	// Denormalize names from the current roster and catalog. A stale id
	// leaves the name empty rather than failing the booking.
	if in.DoctorID != "" {
		var d doctor.Doctor
		err := s.store.Get(ctx, store.CollectionDoctors, in.DoctorID, &d)
		switch {
		case err == nil:
			ap.DoctorName = d.Name
			if ap.Department == "" {
				ap.Department = d.Department
			}
		case errors.Is(err, store.ErrNotFound):
			// leave DoctorName empty
		default:
			return nil, err
		}
	}
	if in.ServiceID != "" {
		var m medservice.MedicalService
		err := s.store.Get(ctx, store.CollectionServices, in.ServiceID, &m)
		switch {
		case err == nil:
			ap.ServiceName = m.Name
			if ap.Department == "" {
				ap.Department = m.Department
			}
		case errors.Is(err, store.ErrNotFound):
			// leave ServiceName empty
		default:
			return nil, err
		}
	}

	if in.DoctorID != "" {
		taken, err := s.slotTaken(ctx, in.DoctorID, in.Date, in.Time)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlotTaken
		}
	}

	if err := s.store.Create(ctx, store.CollectionAppointments, ap); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]string{
		"doctor_id": ap.DoctorID, "date": ap.Date, "time": ap.Time,
	})
	_ = s.audit.LogEvent(ctx, &audit.AuditEvent{
		Timestamp:  s.now().UTC(),
		EventType:  audit.EventBooking,
		Action:     "BOOK_APPOINTMENT",
		Resource:   store.CollectionAppointments,
		ResourceID: ap.ID,
		Status:     "SUCCESS",
		Details:    details,
	})
	return ap, nil
}

func (s *service) validateBooking(in BookingInput) error {
	if in.PatientName == "" || in.PatientEmail == "" || in.PatientPhone == "" {
		return fmt.Errorf("%w: patient name, email and phone are required", ErrInvalidBooking)
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidBooking)
	}
	if in.Date < s.now().Format(DateLayout) {
		return fmt.Errorf("%w: date must not be in the past", ErrInvalidBooking)
	}
	if !IsValidSlot(in.Time) {
		return fmt.Errorf("%w: time must be one of the offered slots", ErrInvalidBooking)
	}
	return nil
}

// slotTaken reports whether the doctor already has a non-cancelled
// appointment at the given date and time. The check races with
// concurrent bookings; the compound index keeps lookups cheap and the
// window is acceptable for a booking desk that confirms manually.
func (s *service) slotTaken(ctx context.Context, doctorID, date, timeSlot string) (bool, error) {
	var existing []Appointment
	opts := store.ListOptions{Filter: map[string]interface{}{
		"doctorId": doctorID,
		"date":     date,
		"time":     timeSlot,
	}}
	if err := s.store.List(ctx, store.CollectionAppointments, opts, &existing); err != nil {
		return false, err
	}
	for _, ap := range existing {
		if ap.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) Get(ctx context.Context, id string) (*Appointment, error) {
	var ap Appointment
	if err := s.store.Get(ctx, store.CollectionAppointments, id, &ap); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &ap, nil
}

// List returns every appointment, newest first.
func (s *service) List(ctx context.Context) ([]Appointment, error) {
	var all []Appointment
	opts := store.ListOptions{SortField: "createdAt", SortDesc: true}
	if err := s.store.List(ctx, store.CollectionAppointments, opts, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *service) Confirm(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusConfirmed, "CONFIRM_APPOINTMENT")
}

func (s *service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCancelled, "CANCEL_APPOINTMENT")
}

func (s *service) Complete(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCompleted, "COMPLETE_APPOINTMENT")
}

func (s *service) Reopen(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusPending, "REOPEN_APPOINTMENT")
}

// transition moves the appointment to the target status. Only the
// status field is written; everything else, CreatedAt included, stays
// as booked.
func (s *service) transition(ctx context.Context, id string, to Status, action string) (*Appointment, error) {
	ap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ap.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, ap.Status, to)
	}
	fields := map[string]interface{}{"status": string(to)}
	if err := s.store.Update(ctx, store.CollectionAppointments, id, fields); err != nil {
		return nil, err
	}
	from := ap.Status
	ap.Status = to

	details, _ := json.Marshal(map[string]string{"from": string(from), "to": string(to)})
	_ = s.audit.LogEvent(ctx, &audit.AuditEvent{
		Timestamp:  s.now().UTC(),
		EventType:  audit.EventStatusChange,
		Action:     action,
		Resource:   store.CollectionAppointments,
		ResourceID: id,
		Status:     "SUCCESS",
		Details:    details,
	})
	return ap, nil
}
