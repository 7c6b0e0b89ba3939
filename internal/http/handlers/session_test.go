package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapsbooking/bookngon-api/internal/booking"
	"github.com/snapsbooking/bookngon-api/internal/observability/metrics"
	"github.com/snapsbooking/bookngon-api/internal/sessions"
	"github.com/snapsbooking/bookngon-api/internal/snaps"
	"github.com/snapsbooking/bookngon-api/internal/tenancy"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

type fakePlatform struct {
	categories []snaps.Category
	slots      []snaps.TimeSlot
	slotsErr   error

	createdClient   *snaps.ClientRecord
	updatedClientID int64
	clientErr       error

	// onGetTimeSlots runs during the upstream call, simulating a visitor
	// mutating the session while availability is in flight.
	onGetTimeSlots func()
}

func (p *fakePlatform) GetCategoriesServices(context.Context, int64) ([]snaps.Category, error) {
	return p.categories, nil
}

func (p *fakePlatform) GetTimeSlots(context.Context, snaps.TimeSlotsQuery) ([]snaps.TimeSlot, error) {
	if p.onGetTimeSlots != nil {
		p.onGetTimeSlots()
	}
	return p.slots, p.slotsErr
}

func (p *fakePlatform) CreateClient(_ context.Context, rec snaps.ClientRecord) (*snaps.ClientRecord, error) {
	if p.clientErr != nil {
		return nil, p.clientErr
	}
	p.createdClient = &rec
	saved := rec
	saved.ID = 88
	return &saved, nil
}

func (p *fakePlatform) UpdateClient(_ context.Context, id int64, rec snaps.ClientRecord) (*snaps.ClientRecord, error) {
	if p.clientErr != nil {
		return nil, p.clientErr
	}
	p.updatedClientID = id
	saved := rec
	saved.ID = id
	return &saved, nil
}

func (p *fakePlatform) CreateAppointment(context.Context, snaps.CreateAppointmentRequest) (*snaps.Appointment, error) {
	return &snaps.Appointment{ID: 1, Status: "scheduled"}, nil
}

func testCatalog() []snaps.Category {
	return []snaps.Category{{
		ID: 1, Name: "Skin", IsActive: true,
		Services: []snaps.Service{
			{ID: 101, Name: "Signature Facial", DurationMinutes: 30, Price: "45.00", IsActive: true},
			{ID: 102, Name: "Chemical Peel", DurationMinutes: 20, Price: "15.00", IsActive: true},
			{ID: 103, Name: "Retired Treatment", DurationMinutes: 60, Price: "90.00", IsActive: false},
		},
	}}
}

func newHandlerHarness(platform *fakePlatform) (*SessionHandler, *sessions.MemoryStore, http.Handler) {
	store := sessions.NewMemoryStore()
	m := metrics.NewBookingMetrics(prometheus.NewRegistry())
	h := NewSessionHandler(store, platform, nil, m, logging.Default())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(tenancy.WithBusinessID(req.Context(), 42)))
		})
	})
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(sr chi.Router) {
		sr.Post("/services", h.AddService)
		sr.Put("/date", h.SetDate)
		sr.Get("/slots", h.QuerySlots)
		sr.Post("/slot", h.ChooseSlot)
		sr.Put("/client", h.SetClient)
		sr.Post("/confirm", h.Confirm)
	})
	return h, store, r
}

func seedSession(t *testing.T, store *sessions.MemoryStore) *booking.Session {
	t.Helper()
	sess := booking.NewSession(42)
	require.NoError(t, sess.Selection.AddService(booking.SelectedService{
		ServiceID: 101, Name: "Signature Facial", DurationMinutes: 30, Price: "45.00",
	}))
	require.NoError(t, sess.Selection.SetDate("2025-12-01"))
	require.NoError(t, store.Save(context.Background(), sess))
	return sess
}

func TestAddServiceSnapshotsCatalog(t *testing.T) {
	platform := &fakePlatform{categories: testCatalog()}
	_, store, r := newHandlerHarness(platform)

	sess := booking.NewSession(42)
	require.NoError(t, store.Save(context.Background(), sess))

	body := bytes.NewBufferString(`{"service_id":101,"custom_duration":45}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/services", sess.ID), body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got booking.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got.Selection.Services, 1)
	line := got.Selection.Services[0]
	assert.Equal(t, "Signature Facial", line.Name)
	assert.Equal(t, "45.00", line.Price)
	assert.Equal(t, 45, line.CustomDuration)
}

func TestAddServiceRejectsInactive(t *testing.T) {
	platform := &fakePlatform{categories: testCatalog()}
	_, store, r := newHandlerHarness(platform)

	sess := booking.NewSession(42)
	require.NoError(t, store.Save(context.Background(), sess))

	body := bytes.NewBufferString(`{"service_id":103}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/services", sess.ID), body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQuerySlotsReturnsOffers(t *testing.T) {
	platform := &fakePlatform{
		categories: testCatalog(),
		slots: []snaps.TimeSlot{
			{StartTime: "2025-12-01T09:00:00-05:00", EndTime: "2025-12-01T09:30:00-05:00", StaffID: 7},
			{StartTime: "2025-12-01T10:00:00-05:00", EndTime: "soon", StaffID: 7},
			{StartTime: "bogus", EndTime: "", StaffID: 7},
		},
	}
	_, store, r := newHandlerHarness(platform)
	sess := seedSession(t, store)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/sessions/%s/slots", sess.ID), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Slots []booking.Slot `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	// A slot without a usable start is dropped; one with only a bad end time
	// survives without an end.
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, int64(7), resp.Slots[0].StaffID)
	assert.True(t, resp.Slots[1].EndTime.IsZero())
}

func TestQuerySlotsDiscardsWhenSelectionChangesMidFlight(t *testing.T) {
	store := sessions.NewMemoryStore()
	sess := booking.NewSession(42)
	require.NoError(t, sess.Selection.AddService(booking.SelectedService{
		ServiceID: 101, DurationMinutes: 30, Price: "45.00",
	}))
	require.NoError(t, sess.Selection.SetDate("2025-12-01"))
	require.NoError(t, store.Save(context.Background(), sess))

	platform := &fakePlatform{
		slots: []snaps.TimeSlot{{StartTime: "2025-12-01T09:00:00-05:00", StaffID: 7}},
		onGetTimeSlots: func() {
			// The visitor switches dates while the upstream call is running.
			changed, err := store.Load(context.Background(), sess.ID)
			if err != nil {
				panic(err)
			}
			_ = changed.Selection.SetDate("2025-12-02")
			_ = store.Save(context.Background(), changed)
		},
	}

	m := metrics.NewBookingMetrics(prometheus.NewRegistry())
	h := NewSessionHandler(store, platform, nil, m, logging.Default())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(tenancy.WithBusinessID(req.Context(), 42)))
		})
	})
	r.Get("/sessions/{sessionID}/slots", h.QuerySlots)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/sessions/%s/slots", sess.ID), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	// The stale offer was never installed.
	after, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Nil(t, after.OfferedSlots)
}

// composedSession parks a session on the customer-info step with a chosen
// slot, composed lines, and a resolved client.
func composedSession(t *testing.T, store *sessions.MemoryStore) *booking.Session {
	t.Helper()
	sess := booking.NewSession(42)
	require.NoError(t, sess.Selection.AddService(booking.SelectedService{
		ServiceID: 101, Name: "Signature Facial", DurationMinutes: 30, Price: "45.00",
	}))
	require.NoError(t, sess.Selection.SetDate("2025-12-01"))

	q, err := sess.BeginSlotQuery()
	require.NoError(t, err)
	start, err := time.Parse(time.RFC3339, "2025-12-01T09:00:00-05:00")
	require.NoError(t, err)
	require.True(t, sess.ApplySlots(q, []booking.Slot{{StartTime: start, StaffID: 7}}))
	require.NoError(t, sess.ChooseSlot(start, 7))

	sess.Selection.SetClient(&booking.ClientInfo{ID: 88, FirstName: "Ana", LastName: "Reyes", Phone: "5551234"})
	sess.SetStep(booking.StepCustomerInfo)
	require.NoError(t, store.Save(context.Background(), sess))
	return sess
}

// Adding a service after a slot is composed must invalidate the slot, so a
// confirm attempt is rejected instead of submitting a line with no timeline.
func TestAddServiceAfterSlotChosenForcesReslotting(t *testing.T) {
	platform := &fakePlatform{categories: testCatalog()}
	_, store, r := newHandlerHarness(platform)
	sess := composedSession(t, store)

	body := bytes.NewBufferString(`{"service_id":102}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/services", sess.ID), body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got booking.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got.Selection.Services, 2)
	assert.Nil(t, got.Selection.Slot)
	assert.Nil(t, got.OfferedSlots)

	// Without a fresh slot the appointment cannot be submitted.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/confirm", sess.ID), nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSetClientRegistersNewClient(t *testing.T) {
	platform := &fakePlatform{categories: testCatalog()}
	_, store, r := newHandlerHarness(platform)

	sess := booking.NewSession(42)
	require.NoError(t, store.Save(context.Background(), sess))

	body := bytes.NewBufferString(`{"first_name":"Ana","last_name":"Reyes","phone":"5551234"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/sessions/%s/client", sess.ID), body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, platform.createdClient)
	assert.Equal(t, int64(42), platform.createdClient.BusinessID)
	assert.True(t, platform.createdClient.IsActive)

	var got booking.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.NotNil(t, got.Selection.Client)
	assert.Equal(t, int64(88), got.Selection.Client.ID, "platform id must land in the session")
}

func TestSetClientUpdatesReturningClient(t *testing.T) {
	platform := &fakePlatform{categories: testCatalog()}
	_, store, r := newHandlerHarness(platform)

	sess := booking.NewSession(42)
	require.NoError(t, store.Save(context.Background(), sess))

	body := bytes.NewBufferString(`{"id":55,"first_name":"Ana","last_name":"Reyes","phone":"5551234"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/sessions/%s/client", sess.ID), body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(55), platform.updatedClientID)
	assert.Nil(t, platform.createdClient)
}

func TestChooseSlotWithoutOfferIsRejected(t *testing.T) {
	platform := &fakePlatform{categories: testCatalog()}
	_, store, r := newHandlerHarness(platform)
	sess := seedSession(t, store)

	body := bytes.NewBufferString(`{"start_time":"2025-12-01T09:00:00-05:00","staff_id":7}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/slot", sess.ID), body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
