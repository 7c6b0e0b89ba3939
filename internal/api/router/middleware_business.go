package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/snapsbooking/bookngon-api/internal/tenancy"
)

const businessHeader = "X-Business-Id"

// requireBusinessID middleware enforces the multi-tenancy header for API
// requests. The booking page sends the tenant's numeric business id.
func requireBusinessID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(businessHeader))
		if raw == "" {
			http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
			return
		}
		businessID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || businessID <= 0 {
			http.Error(w, "invalid X-Business-Id", http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithBusinessID(r.Context(), businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
