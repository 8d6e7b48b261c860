package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PUT, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
	corsMaxAge       = "600"
)

// CORSMiddleware answers preflight requests and tags responses for the
// front-desk web client. An empty origin list or "*" allows any origin.
type CORSMiddleware struct {
	anyOrigin bool
	origins   map[string]struct{}
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			m.anyOrigin = true
			continue
		}
		if o != "" {
			m.origins[strings.ToLower(o)] = struct{}{}
		}
	}
	if len(m.origins) == 0 {
		m.anyOrigin = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		allowed := m.allow(origin)

		if allowed {
			h := w.Header()
			if m.anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		}

		if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// allow reports whether origin may read the response. Same-origin and
// non-browser requests carry no Origin and are never blocked here.
func (m *CORSMiddleware) allow(origin string) bool {
	if origin == "" {
		return false
	}
	if m.anyOrigin {
		return true
	}
	_, ok := m.origins[strings.ToLower(origin)]
	return ok
}
