package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/config"
	"github.com/muurk/papan/internal/discovery"
	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/storage"
	"github.com/muurk/papan/internal/version"
	"github.com/muurk/papan/internal/widget"
)

const shutdownTimeout = 10 * time.Second

// Server serves the board to browser displays and the operator API.
type Server struct {
	config  *config.ServerConfig
	backend storage.Backend

	store  *settings.Store
	board  *announcement.Board
	stream *widget.Stream

	streamVersion atomic.Uint64

	hub     *Hub
	metrics *Metrics
	limiter *RateLimiter
	router  *gin.Engine

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement
	stopWatch  context.CancelFunc
	unsubs     []func()
}

// New opens the configured storage backend and builds the server.
func New(cfg *config.ServerConfig) (*Server, error) {
	backend, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return NewWithBackend(cfg, backend), nil
}

// NewWithBackend builds the server on an already opened backend.
func NewWithBackend(cfg *config.ServerConfig, backend storage.Backend) *Server {
	store := settings.Load(backend)
	current := store.Current()

	s := &Server{
		config:  cfg,
		backend: backend,
		store:   store,
		board:   announcement.Load(backend),
		stream:  widget.NewStream(current.DefaultStreamURL),
		metrics: NewMetrics(),
		limiter: NewRateLimiter(rate.Limit(cfg.Limits.RequestsPerSecond), cfg.Limits.Burst),
	}
	s.streamVersion.Store(1)
	s.hub = NewHub(s.metrics)
	s.router = s.newRouter()

	s.unsubs = append(s.unsubs,
		store.Subscribe(s.onSettings),
		s.board.Subscribe(s.onAnnouncements),
	)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Store returns the settings store.
func (s *Server) Store() *settings.Store { return s.store }

// Board returns the announcement board.
func (s *Server) Board() *announcement.Board { return s.board }

// Hub returns the display hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) onSettings(cfg settings.Config) {
	s.metrics.replacements.WithLabelValues("settings").Inc()
	if s.stream.SetDefault(cfg.DefaultStreamURL) {
		s.hub.Broadcast(Message{Type: MsgStream, Version: s.streamVersion.Add(1)})
	}
	s.hub.Broadcast(Message{Type: MsgSettings, Version: s.store.Version()})
}

func (s *Server) onAnnouncements([]announcement.Announcement) {
	s.metrics.replacements.WithLabelValues("announcements").Inc()
	s.hub.Broadcast(Message{Type: MsgAnnouncements, Version: s.board.Version()})
}

func (s *Server) streamChanged() {
	s.hub.Broadcast(Message{Type: MsgStream, Version: s.streamVersion.Add(1)})
}

// Start listens on the configured address and blocks until SIGINT/SIGTERM
// or a listener error.
func (s *Server) Start() error {
	addr := s.config.Addr()
	logging.Info("Starting papan server",
		zap.String("addr", addr),
		zap.String("storage", s.config.Storage.Driver),
		zap.String("version", version.Version),
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(ln)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Serve serves on ln until Shutdown. It starts the storage watcher and the
// mDNS advertisement when configured.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.startWatcher()
	s.startAdvertising(ln.Addr())

	logging.Info("Server listening for connections", zap.String("addr", ln.Addr().String()))

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) startWatcher() {
	fb, ok := s.backend.(*storage.FileBackend)
	if !ok || !s.config.Storage.Watch {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	err := fb.Watch(ctx, func(key string) {
		switch key {
		case storage.KeySettings:
			s.store.Reload()
		case storage.KeyAnnouncements:
			s.board.Reload()
		}
	})
	if err != nil {
		cancel()
		logging.Warn("Storage watcher disabled", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.stopWatch = cancel
	s.mu.Unlock()
	logging.Info("Watching data directory for external edits", zap.String("dir", fb.Dir()))
}

func (s *Server) startAdvertising(addr net.Addr) {
	if !s.config.Discovery.Enabled {
		return
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return
	}

	advert, err := discovery.Advertise(s.config.Discovery.Instance, tcp.Port, version.Version)
	if err != nil {
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.advert = advert
	s.mu.Unlock()
}

// Shutdown stops the listener, disconnects displays, withdraws the mDNS
// advertisement and closes storage.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.mu.Lock()
	srv, advert, stopWatch := s.httpServer, s.advert, s.stopWatch
	s.advert, s.stopWatch = nil, nil
	s.mu.Unlock()

	// Hijacked WebSocket connections are not tracked by http.Server.
	s.hub.Close()

	var shutdownErr error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			shutdownErr = err
		}
	}

	if stopWatch != nil {
		stopWatch()
	}
	if advert != nil {
		advert.Shutdown()
	}
	for _, unsub := range s.unsubs {
		unsub()
	}
	if err := s.backend.Close(); err != nil {
		logging.Warn("Error closing storage", zap.Error(err))
	}

	logging.Sync()
	return shutdownErr
}
