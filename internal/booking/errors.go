package booking

import "errors"

var (
	// ErrNoDateChosen is returned when an operation needs a chosen calendar
	// date and none is set.
	ErrNoDateChosen = errors.New("booking: no date chosen")

	// ErrStaleSlotOffer is returned when the offered slot list no longer
	// matches the aggregate state that produced it.
	ErrStaleSlotOffer = errors.New("booking: offered slots are stale")

	// ErrSlotNotOffered is returned when a chosen slot is not in the
	// currently offered list.
	ErrSlotNotOffered = errors.New("booking: slot was not offered")

	// ErrNotReadyToConfirm is returned when confirmation runs before the
	// customer-info step is reached.
	ErrNotReadyToConfirm = errors.New("booking: session not ready to confirm")

	// ErrMissingClientInfo is returned when confirmation runs without a
	// client phone and full name.
	ErrMissingClientInfo = errors.New("booking: client phone and full name required")
)
