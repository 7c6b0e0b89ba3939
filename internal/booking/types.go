// Package booking implements the appointment wizard core: the selection
// aggregate, the slot composition engine, the step state machine, and the
// submission assembler. A Session owns all wizard state for one visitor and
// is the single place where cross-field invariants (slot invalidation on
// upstream changes) are enforced.
package booking

import "time"

// StaffPreference is an explicit request for a named technician. A nil
// preference means "Anyone" and lets the platform pick the assignment.
type StaffPreference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Slot is one availability candidate: a concrete start time implicitly bound
// to the technician the platform would assign.
type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	StaffID   int64     `json:"staff_id"`
}

// ClientInfo is the resolved customer identity, either looked up by phone or
// captured during the customer-info step.
type ClientInfo struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
}

// FullName joins first and last name for display and validation.
func (c *ClientInfo) FullName() string {
	if c == nil {
		return ""
	}
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// SelectedService is one line item of the in-progress booking: a snapshot of
// the catalog service taken at selection time, plus the staff assignment and
// start/end timestamps derived once a slot is chosen. LineID is regenerated
// on every composition and carries no business meaning.
type SelectedService struct {
	LineID           string    `json:"line_id,omitempty"`
	ServiceID        int64     `json:"service_id"`
	Name             string    `json:"name"`
	DurationMinutes  int       `json:"duration_minutes"`
	Price            string    `json:"price"`
	ColorCode        string    `json:"color_code,omitempty"`
	CustomDuration   int       `json:"custom_duration,omitempty"`
	CustomPrice      string    `json:"custom_price,omitempty"`
	StaffID          int64     `json:"staff_id,omitempty"`
	StaffName        string    `json:"staff_name,omitempty"`
	IsStaffRequest   bool      `json:"is_staff_request"`
	StartAt          time.Time `json:"start_at,omitzero"`
	EndAt            time.Time `json:"end_at,omitzero"`
}

// EffectiveDuration returns the custom duration override when set, else the
// catalog duration.
func (s *SelectedService) EffectiveDuration() int {
	if s.CustomDuration > 0 {
		return s.CustomDuration
	}
	return s.DurationMinutes
}

// EffectivePriceCents returns the custom price override when set, else the
// catalog price, parsed to cents. Malformed prices count as zero.
func (s *SelectedService) EffectivePriceCents() int64 {
	if s.CustomPrice != "" {
		return ParsePriceCents(s.CustomPrice)
	}
	return ParsePriceCents(s.Price)
}
