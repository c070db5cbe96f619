package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"ecapbot/report"

	"github.com/google/uuid"
)

type attendanceRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AttendanceHandler proxies a login pair to the attendance service and
// returns the report as received.
func AttendanceHandler(fetcher report.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		var req attendanceRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}
		if req.Username == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password are required"})
			return
		}

		rep, err := fetcher.Fetch(r.Context(), req.Username, req.Password)
		if err != nil {
			log.Printf("[HTTP] attendance proxy for %s failed request=%s: %v", req.Username, requestID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch attendance report"})
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}
