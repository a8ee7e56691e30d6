package httpapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/dkovalev/authvault/internal/common"
)

// apiKeyMiddleware is the request-level gate: it compares the X-API-KEY
// header against the configured key before any handler runs. A missing
// server-side key is a configuration error and yields 500, not 401.
func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		presented := r.Header.Get(common.APIKeyHeaderName)
		if presented == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing "+common.APIKeyHeaderName+" header.")
			return
		}

		if s.apiKey == "" {
			s.logger.Error(r.Context(), "API key is not configured")
			writeMessage(w, http.StatusInternalServerError, "Server configuration error.")
			return
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(s.apiKey)) != 1 {
			writeMessage(w, http.StatusUnauthorized, "Invalid API Key.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
