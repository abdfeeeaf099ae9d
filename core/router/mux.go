package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/markdownup/core/handler"
	"github.com/dmitrymomot/markdownup/core/logger"
)

type route[C handler.Context] struct {
	info    Route
	handler handler.HandlerFunc[C]
}

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	routes       map[string]*route[C]
	fallback     handler.HandlerFunc[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	serving      atomic.Bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		routes:       make(map[string]*route[C]),
		errorHandler: defaultErrorHandler[C],
		logger:       logger.Discard(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the default *Context works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// Register declares an action. It panics on invalid or duplicate
// declarations and once the router has started serving.
func (m *mux[C]) Register(a Action[C]) {
	m.mustBeConfigurable("register action " + a.Name)

	name := strings.Trim(a.Name, "/")
	if name == "" {
		panic("router: action name is empty")
	}
	if a.Handler == nil {
		panic(fmt.Sprintf("router: action %q has no handler", name))
	}

	path := "/" + name
	if _, exists := m.routes[path]; exists {
		panic(fmt.Sprintf("router: action %q is already registered", name))
	}

	methods := []string{http.MethodGet}
	if len(a.Methods) > 0 {
		methods = make([]string, 0, len(a.Methods))
		for _, method := range a.Methods {
			method = strings.ToUpper(method)
			if !slices.Contains(methods, method) {
				methods = append(methods, method)
			}
		}
	}

	m.routes[path] = &route[C]{
		info:    Route{Name: name, Path: path, Kind: a.Kind, Methods: methods},
		handler: a.Handler,
	}
}

func (m *mux[C]) Get(name string, h handler.HandlerFunc[C]) {
	m.Register(Action[C]{Name: name, Kind: Builtin, Handler: h})
}

func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	m.mustBeConfigurable("add middleware")
	m.middlewares = append(m.middlewares, middlewares...)
}

// Routes returns the declared actions sorted by path.
func (m *mux[C]) Routes() []Route {
	routes := make([]Route, 0, len(m.routes))
	for _, r := range m.routes {
		info := r.info
		info.Methods = slices.Clone(info.Methods)
		routes = append(routes, info)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes
}

func (m *mux[C]) mustBeConfigurable(op string) {
	if m.serving.Load() {
		panic("router: cannot " + op + " after serving started")
	}
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.serving.Store(true)

	ww := newResponseWriter(w)
	ctx := m.newContext(ww, r)

	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}
			m.logger.ErrorContext(r.Context(), "panic recovered",
				logger.Component("router"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Query(r.URL.RawQuery),
				slog.Any("value", p),
				slog.String("stack", string(panicErr.stack)),
			)
			if !ww.Written() {
				m.errorHandler(ctx, panicErr)
			}
		}
	}()

	h := m.fallback
	if rt, ok := m.routes[r.URL.Path]; ok {
		if !allows(rt.info.Methods, r.Method) {
			ww.Header().Set("Allow", strings.Join(rt.info.Methods, ", "))
			m.handleError(ctx, ErrMethodNotAllowed)
			return
		}
		ctx.SetValue(routeContextKey{}, rt.info)
		h = rt.handler
	}
	if h == nil {
		m.handleError(ctx, ErrNotFound)
		return
	}

	for i := len(m.middlewares) - 1; i >= 0; i-- {
		h = m.middlewares[i](h)
	}

	resp := h(ctx)
	if resp == nil {
		m.handleError(ctx, ErrNilResponse)
		return
	}
	if err := resp(ww, ctx.Request()); err != nil {
		m.handleError(ctx, err)
	}
}

// handleError logs server-side failures and renders err unless a response
// has already been started.
func (m *mux[C]) handleError(ctx C, err error) {
	r := ctx.Request()
	if statusOf(err) >= http.StatusInternalServerError {
		m.logger.ErrorContext(r.Context(), "request failed",
			logger.Component("router"),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Query(r.URL.RawQuery),
			logger.Error(err),
		)
	}

	if ww, ok := ctx.ResponseWriter().(*responseWriter); ok && ww.Written() {
		return
	}
	m.errorHandler(ctx, err)
}

// allows reports whether method is declared. HEAD is accepted wherever GET is.
func allows(methods []string, method string) bool {
	if slices.Contains(methods, method) {
		return true
	}
	return method == http.MethodHead && slices.Contains(methods, http.MethodGet)
}
