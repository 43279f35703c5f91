package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/janpfeifer/GoMemory/internal/boards"
	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/frontend"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/janpfeifer/GoMemory/internal/store"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// ServerState holds what the HTTP and WebSocket handlers share.
type ServerState struct {
	// Address the server is listening on, set once it started.
	Address string

	Config *config.Config
	Boards *boards.Service

	// Upload limits of a published game: the whole request and each image.
	maxUploadSize, maxImageSize int64

	mu       sync.Mutex
	sessions map[*Session]bool
}

// NewServerState creates the state for a server using the given custom board service.
func NewServerState(cfg *config.Config, svc *boards.Service) *ServerState {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ServerState{
		Config:        cfg,
		Boards:        svc,
		maxUploadSize: defaultMaxUploadSize,
		maxImageSize:  defaultMaxImageSize,
		sessions:      make(map[*Session]bool),
	}
}

// NumSessions returns the number of connected play sessions.
func (s *ServerState) NumSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *ServerState) addSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session] = true
}

func (s *ServerState) removeSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session)
}

// Router returns the HTTP handler with all the routes of the server.
func (s *ServerState) Router() http.Handler {
	// The web assets and the compiled webassembly
	// are served natively by the go-app framework
	h := &app.Handler{
		Name:        "GoMemory",
		Description: "A memory matching game",
		Version:     game.Version,
		Styles: []string{
			"https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.min.css",
			"/web/css/main.css",
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/ws", s.HandleWS)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games/{name}", s.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/games/{name}", s.handlePublishGame).Methods(http.MethodPost)
	api.HandleFunc("/games/{name}", s.handleDeleteGame).Methods(http.MethodDelete)
	api.HandleFunc("/qr", s.handleQR).Methods(http.MethodGet)

	r.PathPrefix(boards.ImagePathPrefix).Handler(
		http.StripPrefix(boards.ImagePathPrefix, http.HandlerFunc(s.handleImage))).Methods(http.MethodGet)

	// We want to serve /web for static files
	r.PathPrefix("/web/").Handler(http.StripPrefix("/web/", http.FileServer(http.Dir("web/"))))

	// Serve the go-app UI
	r.PathPrefix("/").Handler(h)
	return r
}

// Run starts the server and blocks until the context is canceled.
//
// If started is not nil, the server state is sent to it once the server is
// listening, with its Address set.
func Run(ctx context.Context, cfg *config.Config, started chan<- *ServerState) error {
	if cfg == nil {
		cfg = config.Default()
	}

	// Initialize global client state for server-side prerendering without panic
	frontend.InitState()

	// Register go-app routes so the server knows how to prerender them
	app.Route("/", func() app.Composer { return &frontend.Home{} })
	app.Route("/create", func() app.Composer { return &frontend.Create{} })
	app.RouteWithRegexp("^/play.*", func() app.Composer { return &frontend.Play{} })

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			klog.Errorf("Failed to close store: %v", err)
		}
	}()

	svc, err := boards.New(db, db, cfg)
	if err != nil {
		return err
	}
	serverState := NewServerState(cfg, svc)

	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %q: %w", addr, err)
	}
	serverState.Address = listener.Addr().String()

	srv := &http.Server{
		Handler:           serverState.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		// WebSocket sessions are hijacked and not stopped by Shutdown: they end with ctx.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		klog.Infof("Server started on %s", serverState.Address)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Errorf("Server error: %v", err)
			serveErr <- err
		}
		close(serveErr)
	}()
	if started != nil {
		started <- serverState
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Infof("Shutting down server...")
	return srv.Shutdown(shutdownCtx)
}
