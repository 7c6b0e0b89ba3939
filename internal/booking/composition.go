package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoSlotChosen is returned when composition runs without a chosen slot.
var ErrNoSlotChosen = errors.New("booking: no time slot chosen")

// ErrNoServicesSelected is returned when composition runs on an empty
// selection; a valid slot cannot exist without at least one service.
var ErrNoServicesSelected = errors.New("booking: no services selected")

// Compose lays out every selected service back-to-back from the chosen
// slot's start time: each line starts where the previous one ends, carries
// the slot's staff assignment, and is flagged as a staff request when a
// named preference is set. The whole layout is recomputed from scratch on
// every call, so re-composition after a slot change can never drift.
//
// After Compose, the last line's EndAt equals Slot.StartTime plus
// TotalDuration minutes exactly.
func (sel *Selection) Compose() error {
	if sel.Slot == nil {
		return ErrNoSlotChosen
	}
	if len(sel.Services) == 0 {
		return ErrNoServicesSelected
	}

	staffName := ""
	if sel.Staff != nil {
		staffName = sel.Staff.Name
	}

	cursor := sel.Slot.StartTime
	for i := range sel.Services {
		line := &sel.Services[i]
		line.LineID = uuid.NewString()
		line.StartAt = cursor
		line.EndAt = cursor.Add(time.Duration(line.EffectiveDuration()) * time.Minute)
		line.StaffID = sel.Slot.StaffID
		line.StaffName = staffName
		line.IsStaffRequest = sel.Staff != nil
		cursor = line.EndAt
	}
	return nil
}

// AppointmentEnd returns the end of the overall appointment span for the
// current slot and selection, without composing.
func (sel *Selection) AppointmentEnd() (time.Time, error) {
	if sel.Slot == nil {
		return time.Time{}, ErrNoSlotChosen
	}
	return sel.Slot.StartTime.Add(time.Duration(sel.TotalDuration()) * time.Minute), nil
}
