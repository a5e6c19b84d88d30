package geolib

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const httpHandlerTimeout = time.Minute

// HTTPHandlerOpts are optional collaborators of HTTPHandler.
type HTTPHandlerOpts struct {
	Registry *Registry
	Logger   Logger
}

// HTTPHandler serves geolocation of the caller. It selects a provider
// once and creates a new Resolver for each request, so each request
// has its own cache.
//
//	GET  /           all attributes of the caller
//	GET  /{property} a single attribute of the caller
//	POST /           {"ip": "...", "property": "..."} for explicit IP
//	GET  /stats      usage statistics of the provider
//
// GET /stats always returns statistics, so an attribute named "stats"
// is available only with POST /.
type HTTPHandler struct {
	provider Provider
	logger   Logger
	stats    *UsageStats
	router   chi.Router
}

type httpResult struct {
	IP         string       `json:"ip"`
	Source     string       `json:"source"`
	Provider   string       `json:"provider"`
	Property   string       `json:"property,omitempty"`
	Value      interface{}  `json:"value,omitempty"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.router.ServeHTTP(w, req)
}

// Shutdown releases resources of the provider.
func (h *HTTPHandler) Shutdown() error {
	if closer, ok := h.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}

func (h *HTTPHandler) handleSelf(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, h.newResolver(req), "")
}

func (h *HTTPHandler) handleProperty(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, h.newResolver(req), chi.URLParam(req, "property"))
}

func (h *HTTPHandler) handleStats(w http.ResponseWriter, _ *http.Request) {
	h.encodeJSON(w, struct {
		Result *UsageStats `json:"result"`
	}{
		Result: h.stats,
	})
}

func (h *HTTPHandler) respond(w http.ResponseWriter, req *http.Request, resolver *Resolver, property string) {
	value, err := resolver.Get(req.Context(), property)

	h.stats.Used(err)

	if err != nil {
		var lookupErr *LookupError

		if errors.As(err, &lookupErr) {
			h.sendError(w, err, "Cannot resolve IP address", http.StatusBadGateway)
		} else {
			h.sendError(w, err, "Cannot resolve IP address", 0)
		}

		return
	}

	ip, source := resolver.IPSource()
	result := httpResult{
		IP:       ip,
		Source:   source,
		Provider: h.provider.Name(),
	}

	if property == "" {
		result.Attributes, _ = value.(AttributeMap)
	} else {
		result.Property = property
		result.Value = value
	}

	h.encodeJSON(w, struct {
		Result httpResult `json:"result"`
	}{
		Result: result,
	})
}

func (h *HTTPHandler) newResolver(req *http.Request) *Resolver {
	return NewProviderResolver(h.provider, ResolverOpts{
		Signals: SignalsFromRequest(req),
		Logger:  h.logger,
	})
}

func (h *HTTPHandler) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h *HTTPHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	w.WriteHeader(e.StatusCode())
	h.encodeJSON(w, e)
}

// NewHTTPHandler selects a provider and returns a handler which uses
// it. Error is *ConfigurationError.
func NewHTTPHandler(conf Config, opts HTTPHandlerOpts) (*HTTPHandler, error) {
	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry
	}

	provider, err := registry.Select(conf)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	handler := &HTTPHandler{
		provider: provider,
		logger:   logger,
		stats:    &UsageStats{Name: provider.Name()},
	}

	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(httpHandlerTimeout))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SetHeader("Content-Type", "application/json"))

	router.Get("/", handler.handleSelf)
	router.Post("/", handler.handlePost)
	router.Get("/stats", handler.handleStats)
	router.Get("/{property}", handler.handleProperty)

	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, nil, "This HTTP method is not allowed", http.StatusMethodNotAllowed)
	})
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, nil, "Unknown endpoint", http.StatusNotFound)
	})

	handler.router = router

	return handler, nil
}
