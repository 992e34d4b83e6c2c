package health

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

// LivenessHandler always responds OK while the process is serving HTTP.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, &Response{Status: StatusHealthy})
			return
		}
		writeText(w, http.StatusOK, "OK")
	}
}

// ReadinessHandler runs checks and responds 503 if any of them fails.
// JSON responses also carry the stats configured with WithStats; plain text
// responses name the failed checks.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			writeJSON(w, status, resp)
			return
		}

		if status == http.StatusOK {
			writeText(w, status, "OK")
			return
		}
		writeText(w, status, "Service Unavailable: "+strings.Join(resp.failed(), ", "))
	}
}

// failed returns the sorted names of failed checks.
func (r *Response) failed() []string {
	var names []string
	for name, c := range r.Checks {
		if c.Status == StatusUnhealthy {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// wantsJSON reports whether the client asked for JSON via ?format=json or Accept.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
