package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/store"
)

func TestPatientValidate(t *testing.T) {
	assert.ErrorIs(t, (&Patient{Email: "a@b.c"}).Validate(), ErrInvalidPatientData)
	assert.ErrorIs(t, (&Patient{Name: "Ravi"}).Validate(), ErrInvalidPatientData)
	assert.NoError(t, (&Patient{Name: "Ravi", Email: "a@b.c"}).Validate())
	assert.NoError(t, (&Patient{Name: "Ravi", Phone: "9876543210"}).Validate())
}

func TestPatientCRUD(t *testing.T) {
	svc := NewService(store.NewMemory(), audit.NewNop())
	ctx := context.Background()

	p := &Patient{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210"}
	require.NoError(t, svc.Create(ctx, p))
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())

	t.Run("update keeps createdAt", func(t *testing.T) {
		updated := *p
		updated.Address = "12 MG Road"
		require.NoError(t, svc.Update(ctx, &updated))

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "12 MG Road", got.Address)
		assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, p.ID))
		assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrPatientNotFound)
	})
}

func TestPatientSearch(t *testing.T) {
	svc := NewService(store.NewMemory(), audit.NewNop())
	ctx := context.Background()

	seed := []*Patient{
		{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210"},
		{Name: "Meena Iyer", Email: "meena@example.com", Phone: "9123456780"},
		{Name: "Arjun Nair", Email: "arjun@other.org", Phone: "9000011111"},
	}
	for _, p := range seed {
		require.NoError(t, svc.Create(ctx, p))
	}

	t.Run("by name", func(t *testing.T) {
		list, err := svc.List(ctx, "meena")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Meena Iyer", list[0].Name)
	})

	t.Run("by email domain", func(t *testing.T) {
		list, err := svc.List(ctx, "example.com")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("by phone", func(t *testing.T) {
		list, err := svc.List(ctx, "90000")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Arjun Nair", list[0].Name)
	})

	t.Run("no match", func(t *testing.T) {
		list, err := svc.List(ctx, "zzz")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
