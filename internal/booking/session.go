package booking

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SlotQuery tags one availability request with the aggregate state that
// produced it and a monotonically increasing sequence number. Responses are
// only applied while both still match the session, which drops out-of-order
// answers from rapid date/staff changes.
type SlotQuery struct {
	Seq        uint64  `json:"seq"`
	Date       string  `json:"date"`
	ServiceIDs []int64 `json:"service_ids"`
	Duration   int     `json:"duration"`
	StaffID    int64   `json:"staff_id,omitempty"` // 0 = anyone
}

// Session owns all wizard state for one visitor: the selection aggregate,
// the current step, and the last offered slot list. It is single-writer; the
// store serializes it as one JSON value.
type Session struct {
	ID         string    `json:"id"`
	BusinessID int64     `json:"business_id"`
	Step       Step      `json:"step"`
	Selection  Selection `json:"selection"`

	// SlotQuerySeq counts issued availability queries; OfferedQuery tags the
	// query whose results are currently offered to the visitor.
	SlotQuerySeq uint64     `json:"slot_query_seq"`
	OfferedQuery *SlotQuery `json:"offered_query,omitempty"`
	OfferedSlots []Slot     `json:"offered_slots,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession starts an empty wizard session for a business.
func NewSession(businessID int64) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Step:       StepServiceSelection,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddService adds a catalog snapshot to the selection and withdraws any
// offered slot list, which was computed for the old service set.
func (s *Session) AddService(svc SelectedService) error {
	if err := s.Selection.AddService(svc); err != nil {
		return err
	}
	s.OfferedQuery = nil
	s.OfferedSlots = nil
	return nil
}

// RemoveService drops a selected service and withdraws any offered slots.
func (s *Session) RemoveService(serviceID int64) error {
	if err := s.Selection.RemoveService(serviceID); err != nil {
		return err
	}
	s.OfferedQuery = nil
	s.OfferedSlots = nil
	return nil
}

// CanProceedToTimeSlotStep reports whether service selection is complete.
func (s *Session) CanProceedToTimeSlotStep() bool {
	return len(s.Selection.Services) > 0
}

// CanProceedToCustomerInfoStep reports whether a date and slot are chosen.
func (s *Session) CanProceedToCustomerInfoStep() bool {
	return s.Selection.Date != "" && s.Selection.Slot != nil
}

// Next advances one step when the current step's readiness guard holds. The
// jump into Confirmation is reserved for the confirm action and never
// granted here. Returns false, leaving the step unchanged, when the guard
// fails.
func (s *Session) Next() bool {
	switch s.Step {
	case StepServiceSelection:
		if !s.CanProceedToTimeSlotStep() {
			return false
		}
		s.Step = StepTimeSlotSelection
	case StepTimeSlotSelection:
		if !s.CanProceedToCustomerInfoStep() {
			return false
		}
		s.Step = StepCustomerInfo
	default:
		return false
	}
	return true
}

// Previous moves one step back. It is permitted everywhere except the first
// step, and always clears the chosen slot: the visitor may change services
// or dates, which would invalidate it.
func (s *Session) Previous() bool {
	if s.Step <= StepServiceSelection {
		return false
	}
	s.Selection.Slot = nil
	s.Step--
	return true
}

// SetStep jumps directly to a step, bypassing guards. Reserved for trusted
// internal transitions (confirm, reset), never free navigation.
func (s *Session) SetStep(step Step) {
	s.Step = step
}

// ResetBooking discards the whole aggregate and returns to the first step,
// as after "book another".
func (s *Session) ResetBooking() {
	s.Selection.Reset()
	s.SlotQuerySeq = 0
	s.OfferedQuery = nil
	s.OfferedSlots = nil
	s.Step = StepServiceSelection
}

// currentSlotQuery captures the aggregate inputs a slot query depends on.
func (s *Session) currentSlotQuery() SlotQuery {
	q := SlotQuery{
		Date:       s.Selection.Date,
		ServiceIDs: s.Selection.ServiceIDs(),
		Duration:   s.Selection.TotalDuration(),
	}
	if s.Selection.Staff != nil {
		q.StaffID = s.Selection.Staff.ID
	}
	return q
}

// BeginSlotQuery issues a new tagged availability query for the current
// aggregate state. Requires at least one service and a chosen date (a
// zero-duration query is meaningless).
func (s *Session) BeginSlotQuery() (SlotQuery, error) {
	if len(s.Selection.Services) == 0 {
		return SlotQuery{}, ErrNoServicesSelected
	}
	if s.Selection.Date == "" {
		return SlotQuery{}, ErrNoDateChosen
	}
	s.SlotQuerySeq++
	q := s.currentSlotQuery()
	q.Seq = s.SlotQuerySeq
	return q, nil
}

// matchesCurrent reports whether the tag still describes the latest query
// against the current aggregate state.
func (s *Session) matchesCurrent(q SlotQuery) bool {
	if q.Seq != s.SlotQuerySeq {
		return false
	}
	cur := s.currentSlotQuery()
	return q.Date == cur.Date &&
		q.Duration == cur.Duration &&
		q.StaffID == cur.StaffID &&
		slices.Equal(q.ServiceIDs, cur.ServiceIDs)
}

// ApplySlots installs a query's results as the offered slot list. A
// response whose tag no longer matches the session is discarded silently
// and reported as stale.
func (s *Session) ApplySlots(q SlotQuery, slots []Slot) (applied bool) {
	if !s.matchesCurrent(q) {
		return false
	}
	s.OfferedQuery = &q
	s.OfferedSlots = slots
	return true
}

// ChooseSlot selects one of the offered slots by start time and staff, then
// recomposes every service line from it. The offer must still match the
// current aggregate state; otherwise the slot list the visitor saw is stale
// and choosing from it is rejected.
func (s *Session) ChooseSlot(startTime time.Time, staffID int64) error {
	if s.OfferedQuery == nil || !s.matchesCurrent(*s.OfferedQuery) {
		return ErrStaleSlotOffer
	}
	for i := range s.OfferedSlots {
		slot := s.OfferedSlots[i]
		if slot.StartTime.Equal(startTime) && slot.StaffID == staffID {
			s.Selection.Slot = &slot
			return s.Selection.Compose()
		}
	}
	return ErrSlotNotOffered
}

// Touch refreshes the modification timestamp before persisting.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
