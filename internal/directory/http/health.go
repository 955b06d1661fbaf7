package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/pkg/httpx"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
)

// LivezHandler always reports ok while the process is serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, linksdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler reports ready when the store answers and the directory has
// been loaded.
func ReadyzHandler(startTime time.Time, version string, st store.Store, dir *cache.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &linksdk.HealthChecks{
			Database:  "ok",
			Directory: "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if dir == nil {
			checks.Directory = "error: not loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, linksdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
