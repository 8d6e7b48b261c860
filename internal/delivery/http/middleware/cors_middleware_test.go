package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveCORS(m *CORSMiddleware, method, origin string, preflight bool) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	req := httptest.NewRequest(method, "/api/v1/bookings", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	m.Handle(next).ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowList(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://desk.clinic.test/", " https://Admin.clinic.test "})

	tests := []struct {
		name       string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantOrigin string
	}{
		{"listed origin", http.MethodPost, "https://desk.clinic.test", false, http.StatusOK, "https://desk.clinic.test"},
		{"case-insensitive match", http.MethodGet, "https://admin.clinic.test", false, http.StatusOK, "https://admin.clinic.test"},
		{"unlisted origin still served", http.MethodGet, "https://evil.test", false, http.StatusOK, ""},
		{"no origin", http.MethodGet, "", false, http.StatusOK, ""},
		{"preflight listed", http.MethodOptions, "https://desk.clinic.test", true, http.StatusNoContent, "https://desk.clinic.test"},
		{"preflight unlisted", http.MethodOptions, "https://evil.test", true, http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCORS(m, tt.method, tt.origin, tt.preflight)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Vary") != "Origin" {
				t.Errorf("Vary = %q", rec.Header().Get("Vary"))
			}
		})
	}
}

func TestCORSWildcard(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}, {" ", "*"}} {
		m := NewCORSMiddleware(origins)

		rec := serveCORS(m, http.MethodOptions, "https://anywhere.test", true)
		if rec.Code != http.StatusNoContent {
			t.Errorf("%q: preflight status = %d", origins, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%q: Allow-Origin = %q", origins, got)
		}
		if rec.Header().Get("Access-Control-Max-Age") == "" {
			t.Errorf("%q: preflight has no Max-Age", origins)
		}
	}
}
