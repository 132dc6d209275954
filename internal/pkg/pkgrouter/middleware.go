package pkgrouter

import "net/http"

// DefaultMaxBodyBytes caps request bodies when NewRouter is not told otherwise.
const DefaultMaxBodyBytes int64 = 1 << 20

// Middleware wraps an http.Handler, typically to add cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the first middleware sees the request first.
// Nil entries are skipped.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		h = mws[i](h)
	}
	return h
}

// middlewareBodyLimit makes reads past limit fail with *http.MaxBytesError.
func middlewareBodyLimit(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
