package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/snapsbooking/bookngon-api/internal/archive"
	"github.com/snapsbooking/bookngon-api/internal/tenancy"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

// ArchiveLister reads back locally archived appointments.
type ArchiveLister interface {
	ListRecent(ctx context.Context, businessID int64, limit int32) ([]archive.Record, error)
}

// ArchiveHandler exposes the appointment archive to tenant dashboards. It is
// only mounted on deployments that run with a database.
type ArchiveHandler struct {
	lister ArchiveLister
	logger *logging.Logger
}

// NewArchiveHandler creates an archive handler.
func NewArchiveHandler(lister ArchiveLister, logger *logging.Logger) *ArchiveHandler {
	if lister == nil {
		panic("handlers: archive lister required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ArchiveHandler{lister: lister, logger: logger}
}

// ListRecent returns the newest archived appointments for the tenant.
// An optional ?limit= caps the page size.
func (h *ArchiveHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business id", http.StatusBadRequest)
		return
	}

	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	records, err := h.lister.ListRecent(r.Context(), businessID, limit)
	if err != nil {
		h.logger.Error("archive listing failed", "business_id", businessID, "error", err)
		jsonError(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []archive.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": records})
}
