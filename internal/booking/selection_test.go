package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facialService() SelectedService {
	return SelectedService{ServiceID: 101, Name: "Signature Facial", DurationMinutes: 30, Price: "45.00"}
}

func peelService() SelectedService {
	return SelectedService{ServiceID: 102, Name: "Chemical Peel", DurationMinutes: 20, Price: "15.00"}
}

func TestAddServiceRejectsDuplicates(t *testing.T) {
	var sel Selection
	require.NoError(t, sel.AddService(facialService()))
	assert.ErrorIs(t, sel.AddService(facialService()), ErrDuplicateService)
	assert.Len(t, sel.Services, 1)
}

func TestRemoveService(t *testing.T) {
	var sel Selection
	require.NoError(t, sel.AddService(facialService()))
	require.NoError(t, sel.AddService(peelService()))

	require.NoError(t, sel.RemoveService(101))
	assert.False(t, sel.HasService(101))
	assert.True(t, sel.HasService(102))

	assert.ErrorIs(t, sel.RemoveService(101), ErrServiceNotSelected)
}

func TestTotals(t *testing.T) {
	var sel Selection
	require.NoError(t, sel.AddService(facialService()))
	require.NoError(t, sel.AddService(peelService()))

	assert.Equal(t, 50, sel.TotalDuration())
	assert.Equal(t, int64(6000), sel.TotalPriceCents())
}

func TestTotalsHonorOverrides(t *testing.T) {
	svc := facialService()
	svc.CustomDuration = 45
	svc.CustomPrice = "40.00"

	var sel Selection
	require.NoError(t, sel.AddService(svc))

	assert.Equal(t, 45, sel.TotalDuration())
	assert.Equal(t, int64(4000), sel.TotalPriceCents())
}

func TestEmptySelectionTotalsZero(t *testing.T) {
	var sel Selection
	assert.Equal(t, 0, sel.TotalDuration())
	assert.Equal(t, int64(0), sel.TotalPriceCents())
}

func TestServiceChangeInvalidatesSlot(t *testing.T) {
	var sel Selection
	require.NoError(t, sel.AddService(facialService()))
	sel.Slot = &Slot{StartTime: time.Now(), StaffID: 7}

	require.NoError(t, sel.AddService(peelService()))
	assert.Nil(t, sel.Slot, "adding a service must clear the slot")

	sel.Slot = &Slot{StartTime: time.Now(), StaffID: 7}
	require.NoError(t, sel.RemoveService(102))
	assert.Nil(t, sel.Slot, "removing a service must clear the slot")

	// A rejected duplicate leaves the slot alone.
	sel.Slot = &Slot{StartTime: time.Now(), StaffID: 7}
	assert.ErrorIs(t, sel.AddService(facialService()), ErrDuplicateService)
	assert.NotNil(t, sel.Slot)
}

func TestStaffChangeInvalidatesSlot(t *testing.T) {
	sel := Selection{Slot: &Slot{StartTime: time.Now(), StaffID: 7}}

	sel.SetStaffPreference(&StaffPreference{ID: 9, Name: "Dana"})
	assert.Nil(t, sel.Slot, "named preference change must clear the slot")

	sel.Slot = &Slot{StartTime: time.Now(), StaffID: 9}
	sel.SetStaffPreference(nil)
	assert.Nil(t, sel.Slot, "switching back to anyone must clear the slot")
}

func TestSetDateInvalidatesSlot(t *testing.T) {
	sel := Selection{Slot: &Slot{StartTime: time.Now()}}
	require.NoError(t, sel.SetDate("2025-12-01"))
	assert.Equal(t, "2025-12-01", sel.Date)
	assert.Nil(t, sel.Slot)

	assert.Error(t, sel.SetDate("12/01/2025"))
}

func TestReset(t *testing.T) {
	var sel Selection
	require.NoError(t, sel.AddService(facialService()))
	require.NoError(t, sel.SetDate("2025-12-01"))
	sel.SetStaffPreference(&StaffPreference{ID: 3, Name: "Lee"})
	sel.Slot = &Slot{StartTime: time.Now()}
	sel.Notes = "first visit"
	sel.SetClient(&ClientInfo{FirstName: "Ana", Phone: "5551234"})

	sel.Reset()
	assert.Equal(t, Selection{}, sel)
}
