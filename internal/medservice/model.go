package medservice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrInvalidServiceData = errors.New("invalid service data")
)

// MedicalService is a document in the services collection. Inactive
// services stay in the catalog for the admin view but are hidden from
// the public listing.
type MedicalService struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Department  string   `json:"department" bson:"department"`
	Price       float64  `json:"price" bson:"price"`
	Duration    string   `json:"duration" bson:"duration"`
	Image       string   `json:"image" bson:"image"`
	Features    []string `json:"features" bson:"features"`
	IsActive    bool     `json:"isActive" bson:"isActive"`
}

func (m *MedicalService) Validate() error {
	if m.Name == "" || m.Department == "" {
		return fmt.Errorf("%w: name and department are required", ErrInvalidServiceData)
	}
	if m.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidServiceData)
	}
	return nil
}

// MatchesSearch reports whether the service matches a case-insensitive
// substring search over name, description and department.
func (m *MedicalService) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(m.Name), term) ||
		strings.Contains(strings.ToLower(m.Description), term) ||
		strings.Contains(strings.ToLower(m.Department), term)
}
