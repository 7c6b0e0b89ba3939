package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snapsbooking/bookngon-api/internal/booking"
	"github.com/snapsbooking/bookngon-api/internal/observability/metrics"
	"github.com/snapsbooking/bookngon-api/internal/sessions"
	"github.com/snapsbooking/bookngon-api/internal/snaps"
	"github.com/snapsbooking/bookngon-api/internal/tenancy"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

// BookingPlatform is the slice of the platform client the wizard needs.
type BookingPlatform interface {
	GetCategoriesServices(ctx context.Context, businessID int64) ([]snaps.Category, error)
	GetTimeSlots(ctx context.Context, query snaps.TimeSlotsQuery) ([]snaps.TimeSlot, error)
	CreateClient(ctx context.Context, client snaps.ClientRecord) (*snaps.ClientRecord, error)
	UpdateClient(ctx context.Context, id int64, client snaps.ClientRecord) (*snaps.ClientRecord, error)
	CreateAppointment(ctx context.Context, req snaps.CreateAppointmentRequest) (*snaps.Appointment, error)
}

// SessionHandler drives the booking wizard over HTTP. Every request loads
// the session, applies one aggregate operation, and saves it back.
type SessionHandler struct {
	store     sessions.Store
	platform  BookingPlatform
	submitter *booking.Submitter
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

// NewSessionHandler wires the wizard endpoints. The recorder is optional.
func NewSessionHandler(
	store sessions.Store,
	platform BookingPlatform,
	recorder booking.ConfirmationRecorder,
	m *metrics.BookingMetrics,
	logger *logging.Logger,
) *SessionHandler {
	if store == nil {
		panic("handlers: session store required")
	}
	if platform == nil {
		panic("handlers: booking platform required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionHandler{
		store:     store,
		platform:  platform,
		submitter: booking.NewSubmitter(platform, recorder, logger),
		metrics:   m,
		logger:    logger,
	}
}

// CreateSession starts a new wizard session for the tenant business.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}

	sess := booking.NewSession(businessID)
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save new session", "business_id", businessID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveSessionStarted()
	writeJSON(w, http.StatusCreated, sess)
}

// GetSession returns the current wizard state.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession discards a session entirely.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), sess.ID); err != nil {
		h.logger.Error("failed to delete session", "session_id", sess.ID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addServiceRequest struct {
	ServiceID      int64  `json:"service_id"`
	CustomDuration int    `json:"custom_duration,omitempty"`
	CustomPrice    string `json:"custom_price,omitempty"`
}

// AddService snapshots a catalog service into the selection. The catalog is
// fetched fresh so the snapshot reflects current pricing.
func (h *SessionHandler) AddService(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req addServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ServiceID <= 0 {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	svc, err := h.findCatalogService(r, sess.BusinessID, req.ServiceID)
	if err != nil {
		h.logger.Error("catalog lookup failed", "business_id", sess.BusinessID, "error", err)
		jsonError(w, "failed to load catalog", http.StatusBadGateway)
		return
	}
	if svc == nil {
		jsonError(w, "unknown service", http.StatusNotFound)
		return
	}

	line := booking.SelectedService{
		ServiceID:       svc.ID,
		Name:            svc.Name,
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		ColorCode:       svc.ColorCode,
		CustomDuration:  req.CustomDuration,
		CustomPrice:     req.CustomPrice,
	}
	if err := sess.AddService(line); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	h.saveAndRespond(w, r, sess)
}

// RemoveService drops a selected service.
func (h *SessionHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	serviceID, err := strconv.ParseInt(chi.URLParam(r, "serviceID"), 10, 64)
	if err != nil {
		jsonError(w, "invalid service id", http.StatusBadRequest)
		return
	}
	if err := sess.RemoveService(serviceID); err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.saveAndRespond(w, r, sess)
}

type setStaffRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// SetStaff replaces the staff preference. A zero id means "Anyone".
func (h *SessionHandler) SetStaff(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var req setStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ID <= 0 {
		sess.Selection.SetStaffPreference(nil)
	} else {
		sess.Selection.SetStaffPreference(&booking.StaffPreference{ID: req.ID, Name: req.Name})
	}
	h.saveAndRespond(w, r, sess)
}

type setDateRequest struct {
	Date string `json:"date"`
}

// SetDate replaces the chosen calendar date.
func (h *SessionHandler) SetDate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var req setDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := sess.Selection.SetDate(strings.TrimSpace(req.Date)); err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	h.saveAndRespond(w, r, sess)
}

type slotsResponse struct {
	Slots []booking.Slot `json:"slots"`
}

// QuerySlots fetches availability for the current selection. The query is
// tagged before the upstream call and its results are applied only if the
// selection is still unchanged afterwards; otherwise the response is
// discarded and the visitor should retry against the new state.
func (h *SessionHandler) QuerySlots(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	q, err := sess.BeginSlotQuery()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "session_id", sess.ID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	upstream, err := h.platform.GetTimeSlots(r.Context(), snaps.TimeSlotsQuery{
		BusinessID: sess.BusinessID,
		Date:       q.Date,
		ServiceIDs: q.ServiceIDs,
		Duration:   q.Duration,
		StaffID:    q.StaffID,
	})
	h.metrics.ObserveSlotQueryLatency(time.Since(start).Seconds())
	if err != nil {
		h.logger.Error("slot query failed", "business_id", sess.BusinessID, "error", err)
		jsonError(w, "failed to load availability", http.StatusBadGateway)
		return
	}

	slots := make([]booking.Slot, 0, len(upstream))
	for _, ts := range upstream {
		startTime, err := time.Parse(time.RFC3339, ts.StartTime)
		if err != nil {
			h.logger.Warn("skipping malformed slot", "start_time", ts.StartTime)
			continue
		}
		endTime, err := time.Parse(time.RFC3339, ts.EndTime)
		if err != nil {
			h.logger.Warn("malformed slot end time, keeping slot without one", "end_time", ts.EndTime)
		}
		slots = append(slots, booking.Slot{StartTime: startTime, EndTime: endTime, StaffID: ts.StaffID})
	}

	// Reload: the selection may have changed while the upstream call ran.
	sess, ok = h.loadSession(w, r)
	if !ok {
		return
	}
	if !sess.ApplySlots(q, slots) {
		h.metrics.ObserveStaleSlotResponse()
		jsonError(w, "selection changed while loading availability", http.StatusConflict)
		return
	}
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "session_id", sess.ID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, slotsResponse{Slots: slots})
}

type chooseSlotRequest struct {
	StartTime time.Time `json:"start_time"`
	StaffID   int64     `json:"staff_id"`
}

// ChooseSlot picks one of the offered slots and composes the service lines.
func (h *SessionHandler) ChooseSlot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var req chooseSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StartTime.IsZero() {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := sess.ChooseSlot(req.StartTime, req.StaffID); err != nil {
		switch {
		case errors.Is(err, booking.ErrStaleSlotOffer):
			h.metrics.ObserveStaleSlotResponse()
			jsonError(w, "offered slots are out of date, reload availability", http.StatusConflict)
		case errors.Is(err, booking.ErrSlotNotOffered):
			jsonError(w, "slot is not in the offered list", http.StatusUnprocessableEntity)
		default:
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	h.saveAndRespond(w, r, sess)
}

// SetClient attaches the customer identity captured in the customer-info
// step. The identity is registered with the platform first: new visitors get
// a client record created, returning ones get theirs refreshed, and the
// platform id comes back into the session so the submission carries it.
func (h *SessionHandler) SetClient(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var client booking.ClientInfo
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(client.Phone) == "" || client.FullName() == "" {
		jsonError(w, "phone and name are required", http.StatusBadRequest)
		return
	}

	rec := snaps.ClientRecord{
		BusinessID: sess.BusinessID,
		FirstName:  client.FirstName,
		LastName:   client.LastName,
		Email:      client.Email,
		Phone:      client.Phone,
		IsActive:   true,
	}
	var saved *snaps.ClientRecord
	var err error
	if client.ID > 0 {
		saved, err = h.platform.UpdateClient(r.Context(), client.ID, rec)
	} else {
		saved, err = h.platform.CreateClient(r.Context(), rec)
	}
	if err != nil {
		h.logger.Error("client registration failed",
			"business_id", sess.BusinessID,
			"session_id", sess.ID,
			"error", err,
		)
		jsonError(w, "failed to save client", http.StatusBadGateway)
		return
	}
	if saved != nil && saved.ID > 0 {
		client.ID = saved.ID
	}

	sess.Selection.SetClient(&client)
	h.saveAndRespond(w, r, sess)
}

type setNotesRequest struct {
	Notes string `json:"notes"`
}

// SetNotes stores free-text notes for the appointment.
func (h *SessionHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var req setNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	sess.Selection.Notes = req.Notes
	h.saveAndRespond(w, r, sess)
}

// Next advances the wizard one step.
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if !sess.Next() {
		jsonError(w, "current step is not complete", http.StatusConflict)
		return
	}
	h.saveAndRespond(w, r, sess)
}

// Previous moves the wizard one step back.
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if !sess.Previous() {
		jsonError(w, "already at the first step", http.StatusConflict)
		return
	}
	h.saveAndRespond(w, r, sess)
}

type confirmRequest struct {
	Metadata map[string]any `json:"metadata,omitempty"`
}

type confirmResponse struct {
	Appointment *snaps.Appointment `json:"appointment"`
	Session     *booking.Session   `json:"session"`
}

// Confirm submits the composed appointment to the platform.
func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var req confirmRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	appt, err := h.submitter.Confirm(r.Context(), sess, req.Metadata)
	if err != nil {
		h.metrics.ObserveSubmission("error")
		switch {
		case errors.Is(err, booking.ErrNotReadyToConfirm),
			errors.Is(err, booking.ErrMissingClientInfo),
			errors.Is(err, booking.ErrNoSlotChosen),
			errors.Is(err, booking.ErrNoServicesSelected),
			errors.Is(err, booking.ErrNoDateChosen):
			jsonError(w, err.Error(), http.StatusConflict)
		default:
			jsonError(w, "appointment submission failed", http.StatusBadGateway)
		}
		return
	}

	h.metrics.ObserveSubmission("success")
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save confirmed session", "session_id", sess.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, confirmResponse{Appointment: appt, Session: sess})
}

// Reset discards the booking and returns to the first step, as after "book
// another appointment".
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	sess.ResetBooking()
	h.saveAndRespond(w, r, sess)
}

func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request) (*booking.Session, bool) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return nil, false
	}
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if id == "" {
		jsonError(w, "missing session id", http.StatusBadRequest)
		return nil, false
	}
	sess, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			jsonError(w, "session not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("failed to load session", "session_id", id, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	// Sessions are tenant-scoped; a mismatched business id behaves like a miss.
	if sess.BusinessID != businessID {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) saveAndRespond(w http.ResponseWriter, r *http.Request, sess *booking.Session) {
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "session_id", sess.ID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) findCatalogService(r *http.Request, businessID, serviceID int64) (*snaps.Service, error) {
	categories, err := h.platform.GetCategoriesServices(r.Context(), businessID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		for j := range categories[i].Services {
			if svc := &categories[i].Services[j]; svc.ID == serviceID && svc.IsActive {
				return svc, nil
			}
		}
	}
	return nil, nil
}
