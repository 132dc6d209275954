package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload, JSON encoded as is, or an error.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// Option customizes NewRouter.
type Option func(*routerOptions)

type routerOptions struct {
	maxBodyBytes int64
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(o *routerOptions) {
		o.maxBodyBytes = n
	}
}

// NewRouter builds the default application router with standard middleware.
//
// The router registers no routes of its own; unknown paths and methods get a
// JSON 404/405.
func NewRouter(uuid Generator, opts ...Option) *Router {
	o := &routerOptions{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(o)
	}

	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr:         hr,
		errorCodec: encodeError,
		encoder:    encodeSuccess,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareCorrelationID(uuid),
			middlewareLogging,
			middlewareBodyLimit(o.maxBodyBytes),
		},
	}

	return ro
}

func encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "unhandled error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	if gerr.StatusCode() >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", gerr.String())
	}

	writeJSON(w, errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}, gerr.StatusCode())
}

func encodeSuccess(ctx context.Context, w http.ResponseWriter, resp any) {
	writeJSON(w, resp, http.StatusOK)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// Handle registers a raw http.Handler with the router.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(h, append(r.mws, mws...)...))
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.Handle(method, path, http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(re.Context(), re)
		if err != nil {
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), mws...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
