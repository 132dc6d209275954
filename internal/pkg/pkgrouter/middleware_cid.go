package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/mohamkz/banking-app/internal/pkg/pkglog"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"
)

// maxCIDLen bounds an incoming correlation id before it reaches logs.
const maxCIDLen = 128

// cleanCID returns v when it is safe to log and echo back, or "".
func cleanCID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxCIDLen {
		return ""
	}
	for _, c := range v {
		if c < 0x20 || c == 0x7f {
			return ""
		}
	}
	return v
}

// middlewareCorrelationID takes the caller's correlation id, or mints one,
// and stores it in the request context for logging.
func middlewareCorrelationID(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := cleanCID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = cleanCID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
