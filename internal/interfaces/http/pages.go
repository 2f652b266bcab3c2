package http

import (
	"net/http"

	"centavo/internal/web"
)

// HandleHealth answers liveness probes.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// The page handlers below serve the embedded dev frontend. A real
// deployment puts the SPA behind its own host.

func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.FS, "login.html")
}

func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.FS, "dashboard.html")
}

func HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.FS, "oauth-callback.html")
}
