package appointment

import (
	"errors"
	"time"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidBooking      = errors.New("invalid booking request")
	ErrSlotTaken           = errors.New("time slot already booked for this doctor")
)

// TimeSlots are the bookable times of day, in order. Mornings break for
// lunch between 11:00 and 14:00.
var TimeSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// DateLayout is the wire format for appointment dates. ISO dates compare
// correctly as strings, which the conflict check relies on.
const DateLayout = "2006-01-02"

func IsValidSlot(t string) bool {
	for _, slot := range TimeSlots {
		if t == slot {
			return true
		}
	}
	return false
}

// Appointment is a document in the appointments collection. DoctorName,
// ServiceName and Department are denormalized at booking time so the
// admin list renders without joins and survives roster edits.
type Appointment struct {
	ID           string    `json:"id" bson:"_id"`
	PatientName  string    `json:"patientName" bson:"patientName"`
	PatientEmail string    `json:"patientEmail" bson:"patientEmail"`
	PatientPhone string    `json:"patientPhone" bson:"patientPhone"`
	DoctorID     string    `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	DoctorName   string    `json:"doctorName" bson:"doctorName"`
	ServiceID    string    `json:"serviceId,omitempty" bson:"serviceId,omitempty"`
	ServiceName  string    `json:"serviceName" bson:"serviceName"`
	Department   string    `json:"department" bson:"department"`
	Date         string    `json:"date" bson:"date"`
	Time         string    `json:"time" bson:"time"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Status       Status    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
