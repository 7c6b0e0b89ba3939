package booking

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/snapsbooking/bookngon-api/internal/snaps"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

var submitTracer = otel.Tracer("bookngon.internal.booking")

// timestampLayout is the wire format for appointment timestamps: ISO-8601
// with an explicit UTC offset.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// AppointmentCreator is the slice of the platform client the submitter
// needs.
type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, req snaps.CreateAppointmentRequest) (*snaps.Appointment, error)
}

// ConfirmationRecorder persists a local record of a confirmed appointment.
// Recording is best-effort and never fails the booking.
type ConfirmationRecorder interface {
	RecordConfirmed(ctx context.Context, appt *snaps.Appointment, sess *Session) error
}

// Submitter assembles the appointment-creation payload from a composed
// session and drives the final confirm transition.
type Submitter struct {
	platform AppointmentCreator
	recorder ConfirmationRecorder
	logger   *logging.Logger
}

// NewSubmitter constructs a submitter. The recorder is optional.
func NewSubmitter(platform AppointmentCreator, recorder ConfirmationRecorder, logger *logging.Logger) *Submitter {
	if platform == nil {
		panic("booking: platform client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{platform: platform, recorder: recorder, logger: logger}
}

// BuildCreateAppointmentRequest assembles the creation payload from a
// composed session. Metadata defaults are merged under explicit overrides.
func BuildCreateAppointmentRequest(sess *Session, overrides map[string]any) (snaps.CreateAppointmentRequest, error) {
	sel := &sess.Selection
	if sel.Slot == nil {
		return snaps.CreateAppointmentRequest{}, ErrNoSlotChosen
	}
	if len(sel.Services) == 0 {
		return snaps.CreateAppointmentRequest{}, ErrNoServicesSelected
	}
	if sel.Date == "" {
		return snaps.CreateAppointmentRequest{}, ErrNoDateChosen
	}

	end, err := sel.AppointmentEnd()
	if err != nil {
		return snaps.CreateAppointmentRequest{}, err
	}

	lines := make([]snaps.AppointmentServiceLine, 0, len(sel.Services))
	for i := range sel.Services {
		svc := &sel.Services[i]
		lines = append(lines, snaps.AppointmentServiceLine{
			ID:               svc.LineID,
			Service:          svc.ServiceID,
			ServiceName:      svc.Name,
			ServiceDuration:  svc.DurationMinutes,
			ServicePrice:     svc.Price,
			ServiceColorCode: svc.ColorCode,
			Staff:            svc.StaffID,
			StaffName:        svc.StaffName,
			IsStaffRequest:   svc.IsStaffRequest,
			CustomPrice:      svc.CustomPrice,
			CustomDuration:   svc.CustomDuration,
			StartAt:          svc.StartAt.Format(timestampLayout),
			EndAt:            svc.EndAt.Format(timestampLayout),
			IsActive:         true,
		})
	}

	metadata := map[string]any{
		"is_rescheduled":           false,
		"is_cancelled":             false,
		"is_send_confirmation_sms": true,
	}
	for k, v := range overrides {
		metadata[k] = v
	}

	req := snaps.CreateAppointmentRequest{
		BusinessID:          sess.BusinessID,
		AppointmentDate:     sel.Date,
		StartAt:             sel.Slot.StartTime.Format(timestampLayout),
		EndAt:               end.Format(timestampLayout),
		AppointmentServices: lines,
		Notes:               sel.Notes,
		Metadata:            metadata,
	}
	if sel.Client != nil {
		req.ClientID = sel.Client.ID
	}
	return req, nil
}

// Confirm submits the appointment and, on success, advances the session to
// the confirmation step. On failure the step and aggregate are left intact
// so the visitor can retry without re-entering anything.
func (s *Submitter) Confirm(ctx context.Context, sess *Session, overrides map[string]any) (*snaps.Appointment, error) {
	ctx, span := submitTracer.Start(ctx, "booking.confirm")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("bookngon.business_id", sess.BusinessID),
		attribute.String("bookngon.session_id", sess.ID),
	)

	if sess.Step != StepCustomerInfo {
		return nil, ErrNotReadyToConfirm
	}
	if sess.Selection.Client == nil || sess.Selection.Client.Phone == "" || sess.Selection.Client.FullName() == "" {
		return nil, ErrMissingClientInfo
	}

	req, err := BuildCreateAppointmentRequest(sess, overrides)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	appt, err := s.platform.CreateAppointment(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("appointment submission failed",
			"business_id", sess.BusinessID,
			"session_id", sess.ID,
			"error", err,
		)
		return nil, fmt.Errorf("submit appointment: %w", err)
	}

	sess.SetStep(StepConfirmation)
	s.logger.Info("appointment confirmed",
		"business_id", sess.BusinessID,
		"session_id", sess.ID,
		"appointment_id", appt.ID,
		"services", len(req.AppointmentServices),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if s.recorder != nil {
		if err := s.recorder.RecordConfirmed(ctx, appt, sess); err != nil {
			s.logger.Warn("failed to archive confirmed appointment",
				"business_id", sess.BusinessID,
				"appointment_id", appt.ID,
				"error", err,
			)
		}
	}
	return appt, nil
}
