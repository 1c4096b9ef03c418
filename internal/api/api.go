// Package api provides HTTP handlers and the main API server logic for the
// atelier order-management backend.
//
// It exposes RESTful endpoints for the guided chat flow, the product catalog
// and customer orders. The API integrates with the flow, store and auth
// modules. All endpoints require an authenticated user; flow administration
// additionally requires the staff flag.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sobmedida/atelier-api/internal/auth"
	"github.com/sobmedida/atelier-api/internal/flow"
	"github.com/sobmedida/atelier-api/internal/store"
)

// Default configuration constants
const (
	// DefaultAPIAddr is the default address the API server listens on.
	DefaultAPIAddr = ":8080"
	// DefaultReadHeaderTimeout bounds how long a client may take to send
	// request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Opts holds configuration for the API server.
type Opts struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the API server listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server bundles the dependencies of the HTTP handlers.
type Server struct {
	st       store.Store
	graph    *flow.Graph
	engine   *flow.Engine
	auth     *auth.Authenticator
	validate *validator.Validate
	addr     string
}

// NewServer creates an API server over the given store.
func NewServer(st store.Store, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAPIAddr}
	for _, opt := range opts {
		opt(&cfg)
	}

	graph := flow.NewGraph(st)
	return &Server{
		st:       st,
		graph:    graph,
		engine:   flow.NewEngine(graph, st),
		auth:     auth.NewAuthenticator(st),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		addr:     cfg.Addr,
	}
}

// Handler returns the routed and middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/products", s.productsHandler)
	mux.HandleFunc("/products/", s.productsHandler)
	mux.HandleFunc("/parts", s.partsHandler)
	mux.HandleFunc("/parts/", s.partsHandler)
	mux.HandleFunc("/orders", s.ordersHandler)
	mux.HandleFunc("/orders/", s.ordersHandler)
	mux.HandleFunc("/flow/steps", s.flowStepsHandler)
	mux.HandleFunc("/flow/options", s.flowOptionsHandler)

	return requestLogMiddleware(s.auth.Middleware(mux))
}

// ListenAndServe starts the API server and blocks until it exits.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
	slog.Info("Atelier API running", "addr", s.addr)
	return srv.ListenAndServe()
}

// Run builds the store selected by the given options and serves the API on
// top of it. With no DSN configured it falls back to the in-memory store.
func Run(storeOpts []store.Option, apiOpts []Option) error {
	st, err := buildStore(storeOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	return NewServer(st, apiOpts...).ListenAndServe()
}

// buildStore selects the store backend from the configured DSN.
func buildStore(opts []store.Option) (store.Store, error) {
	var cfg store.Opts
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.DSN == "" {
		slog.Info("No database DSN configured, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(cfg.DSN) == "postgres" {
		slog.Info("Using PostgreSQL store")
		return store.NewPostgresStore(opts...)
	}
	slog.Info("Using SQLite store", "path", cfg.DSN)
	return store.NewSQLiteStore(opts...)
}
