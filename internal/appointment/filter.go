package appointment

import "strings"

// Filter narrows a list of appointments to those matching both the
// search term and the status. An empty term or status matches
// everything; order is preserved.
func Filter(appointments []Appointment, search string, status Status) []Appointment {
	filtered := make([]Appointment, 0, len(appointments))
	for _, ap := range appointments {
		if !matchesSearch(ap, search) {
			continue
		}
		if status != "" && ap.Status != status {
			continue
		}
		filtered = append(filtered, ap)
	}
	return filtered
}

func matchesSearch(ap Appointment, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(ap.PatientName), term) ||
		strings.Contains(strings.ToLower(ap.DoctorName), term) ||
		strings.Contains(strings.ToLower(ap.Department), term)
}
