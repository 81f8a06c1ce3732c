package doctor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrInvalidDoctorData = errors.New("invalid doctor data")
)

// Doctor is a document in the doctors collection. Appointments copy the
// name and department at booking time, so edits here never rewrite history.
type Doctor struct {
	ID         string  `json:"id" bson:"_id"`
	Name       string  `json:"name" bson:"name"`
	Specialty  string  `json:"specialty" bson:"specialty"`
	Department string  `json:"department" bson:"department"`
	Experience int     `json:"experience" bson:"experience"`
	Rating     float64 `json:"rating" bson:"rating"`
	Reviews    int     `json:"reviews" bson:"reviews"`
	Bio        string  `json:"bio" bson:"bio"`
	Education  string  `json:"education" bson:"education"`
	Email      string  `json:"email" bson:"email"`
	Phone      string  `json:"phone" bson:"phone"`
	Image      string  `json:"image" bson:"image"`
}

// Validate rejects malformed doctors at the boundary instead of letting
// bad values default their way into the collection.
func (d *Doctor) Validate() error {
	if d.Name == "" || d.Specialty == "" || d.Department == "" {
		return fmt.Errorf("%w: name, specialty and department are required", ErrInvalidDoctorData)
	}
	if d.Experience < 0 {
		return fmt.Errorf("%w: experience must not be negative", ErrInvalidDoctorData)
	}
	if d.Rating < 0 || d.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidDoctorData)
	}
	if d.Reviews < 0 {
		return fmt.Errorf("%w: reviews must not be negative", ErrInvalidDoctorData)
	}
	return nil
}

// MatchesSearch reports whether the doctor matches a case-insensitive
// substring search over name, specialty and department.
func (d *Doctor) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.Specialty), term) ||
		strings.Contains(strings.ToLower(d.Department), term)
}
