package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	appointments := []Appointment{
		{ID: "a", PatientName: "Ravi Kumar", DoctorName: "Dr. Asha Verma", Department: "Cardiology", Status: StatusPending},
		{ID: "b", PatientName: "Meena Iyer", DoctorName: "Dr. Paul Rodrigues", Department: "Orthopedics", Status: StatusConfirmed},
		{ID: "c", PatientName: "Arjun Nair", DoctorName: "Dr. Asha Verma", Department: "Cardiology", Status: StatusCancelled},
	}

	ids := func(list []Appointment) []string {
		out := make([]string, len(list))
		for i, ap := range list {
			out[i] = ap.ID
		}
		return out
	}

	t.Run("no filters returns everything", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(appointments, "", "")))
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"a"}, ids(Filter(appointments, "RAVI", "")))
	})

	t.Run("search covers doctor name", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, ids(Filter(appointments, "asha", "")))
	})

	t.Run("search covers department", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, ids(Filter(appointments, "ortho", "")))
	})

	t.Run("status is exact", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, ids(Filter(appointments, "", StatusConfirmed)))
	})

	t.Run("search and status are a conjunction", func(t *testing.T) {
		assert.Equal(t, []string{"c"}, ids(Filter(appointments, "asha", StatusCancelled)))
		assert.Empty(t, Filter(appointments, "asha", StatusConfirmed))
	})

	t.Run("order preserved", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, ids(Filter(appointments, "cardio", "")))
	})
}
