package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] encode response: %v", err)
	}
}

// StatusHandler reports that the process is up.
func StatusHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "online",
			"bot":       "Smart Attendance Bot",
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthHandler pings the credential store and reports its latency.
func HealthHandler(store Pinger, started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		if err := store.Ping(ctx); err != nil {
			log.Printf("[HTTP] health check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"store":  "disconnected",
				"error":  "credential store unreachable",
			})
			return
		}
		latency := time.Since(start)

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "healthy",
			"store":         "connected",
			"store_latency": fmt.Sprintf("%dms", latency.Milliseconds()),
			"memory": map[string]uint64{
				"heap_alloc": mem.HeapAlloc,
				"sys":        mem.Sys,
			},
			"goroutines": runtime.NumGoroutine(),
			"uptime":     time.Since(started).Round(time.Second).Seconds(),
		})
	}
}
