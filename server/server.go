package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agentloom/agentloom/logging"
	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/registry"
)

// Options holds overrides passed to New.
type Options struct {
	// Logger receives request and run diagnostics. Defaults to NoOp.
	Logger logging.Logger
	// ShutdownTimeout bounds graceful shutdown in Serve.
	ShutdownTimeout time.Duration
}

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Server wires the registry and dispatcher to an HTTP API.
type Server struct {
	registry        *registry.Registry
	dispatcher      *orchestrate.Dispatcher
	logger          logging.Logger
	shutdownTimeout time.Duration
	upgrader        websocket.Upgrader
}

// New constructs a Server over a registry and dispatcher.
func New(reg *registry.Registry, disp *orchestrate.Dispatcher, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:          logging.NoOpLogger{},
		ShutdownTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		registry:        reg,
		dispatcher:      disp,
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
		upgrader: websocket.Upgrader{
			// Origin checking is the deployment's concern; the API carries no
			// credentials (authentication is out of scope).
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("POST /agents", s.handleCreateAgent)
	mux.HandleFunc("GET /agents/{name}", s.handleGetAgent)
	mux.HandleFunc("PUT /agents/{name}", s.handleUpdateAgent)
	mux.HandleFunc("DELETE /agents/{name}", s.handleDeleteAgent)

	mux.HandleFunc("GET /workflows", s.handleListWorkflows)
	mux.HandleFunc("POST /workflows", s.handleCreateWorkflow)
	mux.HandleFunc("GET /workflows/{name}", s.handleGetWorkflow)
	mux.HandleFunc("DELETE /workflows/{name}", s.handleDeleteWorkflow)

	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{name}", s.handleGetTemplate)
	mux.HandleFunc("POST /templates/{name}/instantiate", s.handleInstantiateTemplate)

	mux.HandleFunc("GET /patterns", s.handleListPatterns)

	mux.HandleFunc("POST /runs", s.handleRun)
	mux.HandleFunc("GET /ws", s.handleWS)

	return s.withCORS(mux)
}

// withCORS allows the browser-based chat UI to call the API from any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Serve runs the HTTP server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
