package booking

import (
	"errors"
	"time"
)

// ErrDuplicateService is returned when a service is added twice; membership
// is keyed by the underlying catalog service id, not by line item.
var ErrDuplicateService = errors.New("booking: service already selected")

// ErrServiceNotSelected is returned when removing a service that is not in
// the selection.
var ErrServiceNotSelected = errors.New("booking: service not selected")

// DateLayout is the calendar-date wire format used throughout the flow.
const DateLayout = "2006-01-02"

// Selection is the booking aggregate: the ordered set of chosen services,
// the staff preference, the chosen date and slot, free-text notes, and the
// resolved client. All slot-invalidation rules live here so call sites can
// never forget them.
type Selection struct {
	Services []SelectedService `json:"services"`
	Staff    *StaffPreference  `json:"staff,omitempty"`
	Date     string            `json:"date,omitempty"` // DateLayout, empty = unset
	Slot     *Slot             `json:"slot,omitempty"`
	Notes    string            `json:"notes,omitempty"`
	Client   *ClientInfo       `json:"client,omitempty"`
}

// AddService appends a line for the given catalog snapshot. Adding a service
// that is already selected fails with ErrDuplicateService, so repeated
// toggles can never produce duplicate lines. A successful add invalidates
// any chosen slot: availability depends on the aggregate duration, and the
// composed timeline no longer covers the new line.
func (sel *Selection) AddService(svc SelectedService) error {
	for i := range sel.Services {
		if sel.Services[i].ServiceID == svc.ServiceID {
			return ErrDuplicateService
		}
	}
	sel.Services = append(sel.Services, svc)
	sel.Slot = nil
	return nil
}

// RemoveService drops the line matching the underlying service id and, like
// AddService, invalidates any chosen slot.
func (sel *Selection) RemoveService(serviceID int64) error {
	for i := range sel.Services {
		if sel.Services[i].ServiceID == serviceID {
			sel.Services = append(sel.Services[:i], sel.Services[i+1:]...)
			sel.Slot = nil
			return nil
		}
	}
	return ErrServiceNotSelected
}

// HasService reports whether the catalog service is currently selected.
func (sel *Selection) HasService(serviceID int64) bool {
	for i := range sel.Services {
		if sel.Services[i].ServiceID == serviceID {
			return true
		}
	}
	return false
}

// ServiceIDs returns the selected catalog ids in insertion order.
func (sel *Selection) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(sel.Services))
	for i := range sel.Services {
		ids = append(ids, sel.Services[i].ServiceID)
	}
	return ids
}

// TotalDuration sums the effective duration of every selected service, in
// minutes. An empty selection totals zero.
func (sel *Selection) TotalDuration() int {
	total := 0
	for i := range sel.Services {
		total += sel.Services[i].EffectiveDuration()
	}
	return total
}

// TotalPriceCents sums the effective price of every selected service.
func (sel *Selection) TotalPriceCents() int64 {
	var total int64
	for i := range sel.Services {
		total += sel.Services[i].EffectivePriceCents()
	}
	return total
}

// SetStaffPreference replaces the staff preference. Any change invalidates a
// previously chosen slot: availability is staff-dependent, so a slot picked
// under the old preference no longer holds. Passing nil means "Anyone".
func (sel *Selection) SetStaffPreference(staff *StaffPreference) {
	sel.Staff = staff
	sel.Slot = nil
}

// SetDate replaces the chosen calendar date and invalidates any chosen slot.
// The empty string clears the date.
func (sel *Selection) SetDate(date string) error {
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return err
		}
	}
	sel.Date = date
	sel.Slot = nil
	return nil
}

// SetClient attaches or clears the resolved customer identity. Services,
// date, and slot are unaffected.
func (sel *Selection) SetClient(client *ClientInfo) {
	sel.Client = client
}

// Reset returns the aggregate to its initial empty state.
func (sel *Selection) Reset() {
	*sel = Selection{}
}
