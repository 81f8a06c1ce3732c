package patient

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrInvalidPatientData = errors.New("invalid patient data")
)

// Patient is a document in the patients collection, maintained by staff
// through the admin surface.
type Patient struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	Phone            string    `json:"phone" bson:"phone"`
	DateOfBirth      string    `json:"dateOfBirth" bson:"dateOfBirth"`
	Gender           string    `json:"gender" bson:"gender"`
	Address          string    `json:"address" bson:"address"`
	EmergencyContact string    `json:"emergencyContact" bson:"emergencyContact"`
	MedicalHistory   []string  `json:"medicalHistory" bson:"medicalHistory"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

func (p *Patient) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPatientData)
	}
	if p.Email == "" && p.Phone == "" {
		return fmt.Errorf("%w: an email or phone number is required", ErrInvalidPatientData)
	}
	return nil
}

// MatchesSearch reports whether the patient matches a case-insensitive
// substring search over name, email and phone.
func (p *Patient) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Email), term) ||
		strings.Contains(p.Phone, term)
}
