package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/snapsbooking/bookngon-api/internal/snaps"
	"github.com/snapsbooking/bookngon-api/internal/tenancy"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

// CatalogPlatform is the slice of the platform client the read-only catalog
// endpoints need.
type CatalogPlatform interface {
	GetBusinessInfo(ctx context.Context, businessID int64) (*snaps.Business, error)
	GetCategoriesServices(ctx context.Context, businessID int64) ([]snaps.Category, error)
	GetTechnicians(ctx context.Context, businessID int64) ([]snaps.Staff, error)
	GetClientByPhone(ctx context.Context, businessID int64, phone string) (*snaps.ClientRecord, error)
	CancelAppointment(ctx context.Context, businessID, clientID, appointmentID int64) error
}

// CatalogHandler proxies the platform's public booking data for the tenant
// business: profile, catalog, staff, and returning-client lookup.
type CatalogHandler struct {
	platform CatalogPlatform
	logger   *logging.Logger
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(platform CatalogPlatform, logger *logging.Logger) *CatalogHandler {
	if platform == nil {
		panic("handlers: catalog platform required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogHandler{platform: platform, logger: logger}
}

// GetBusiness returns the tenant's public booking profile.
func (h *CatalogHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}
	business, err := h.platform.GetBusinessInfo(r.Context(), businessID)
	if err != nil {
		h.logger.Error("business lookup failed", "business_id", businessID, "error", err)
		jsonError(w, "failed to load business", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, business)
}

// GetCatalog returns the service catalog grouped by category.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}
	categories, err := h.platform.GetCategoriesServices(r.Context(), businessID)
	if err != nil {
		h.logger.Error("catalog lookup failed", "business_id", businessID, "error", err)
		jsonError(w, "failed to load catalog", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetTechnicians lists the bookable staff.
func (h *CatalogHandler) GetTechnicians(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}
	staff, err := h.platform.GetTechnicians(r.Context(), businessID)
	if err != nil {
		h.logger.Error("technicians lookup failed", "business_id", businessID, "error", err)
		jsonError(w, "failed to load technicians", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"technicians": staff})
}

// LookupClient finds a returning client by phone number.
func (h *CatalogHandler) LookupClient(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		jsonError(w, "missing phone", http.StatusBadRequest)
		return
	}
	client, err := h.platform.GetClientByPhone(r.Context(), businessID, phone)
	if err != nil {
		// The platform reports unknown numbers as errors; treat them as a miss.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "client not found"})
		return
	}
	writeJSON(w, http.StatusOK, client)
}

type cancelAppointmentRequest struct {
	ClientID      int64 `json:"client_id"`
	AppointmentID int64 `json:"appointment_id"`
}

// CancelAppointment cancels an existing appointment on the client's behalf.
func (h *CatalogHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}
	var req cancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID <= 0 || req.AppointmentID <= 0 {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.platform.CancelAppointment(r.Context(), businessID, req.ClientID, req.AppointmentID); err != nil {
		h.logger.Error("appointment cancel failed",
			"business_id", businessID,
			"appointment_id", req.AppointmentID,
			"error", err,
		)
		jsonError(w, "failed to cancel appointment", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}
