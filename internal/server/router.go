package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter dispatches by path through an [http.ServeMux] and by method through its own route
// table, so one path can carry several methods and the Allow header lists all of them.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware

	mu      sync.RWMutex
	routes  map[string]map[string]http.Handler
	mounted []string
}

// NewBasicRouter creates an empty router.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:    http.NewServeMux(),
		routes: make(map[string]map[string]http.Handler),
	}
}

// Use appends middleware. Register it before routes; handlers are wrapped at registration.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on pattern. HEAD falls back to GET.
func (r *BasicRouter) Handle(method, pattern string, handler http.Handler) {
	method = strings.ToUpper(method)

	r.mu.Lock()
	defer r.mu.Unlock()

	methods, mounted := r.routes[pattern]
	if !mounted {
		methods = make(map[string]http.Handler)
		r.routes[pattern] = methods
		r.mux.Handle(pattern, r.dispatch(pattern))
	}
	methods[method] = r.Apply(handler)
}

// HandleFunc is [BasicRouter.Handle] for a function.
func (r *BasicRouter) HandleFunc(method, pattern string, fn http.HandlerFunc) {
	r.Handle(method, pattern, fn)
}

// Handler mounts a [Handler] on each of its routes for every method; it does its own matching.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
		r.mounted = append(r.mounted, "* "+route)
	}
}

// Routes lists registered "METHOD pattern" pairs in sorted order. Mounted handlers show as "*".
func (r *BasicRouter) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.mounted)
	for pattern, methods := range r.routes {
		for method := range methods {
			out = append(out, method+" "+pattern)
		}
	}
	slices.Sort(out)
	return out
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler with the middleware stack, first added outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}

func (r *BasicRouter) dispatch(pattern string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.RLock()
		methods := r.routes[pattern]
		h, ok := methods[req.Method]
		if !ok && req.Method == http.MethodHead {
			h, ok = methods[http.MethodGet]
		}
		allow := allowed(methods)
		r.mu.RUnlock()

		if !ok {
			w.Header().Set("Allow", allow)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.ServeHTTP(w, req)
	})
}

func allowed(methods map[string]http.Handler) string {
	names := make([]string, 0, len(methods))
	for m := range methods {
		names = append(names, m)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
