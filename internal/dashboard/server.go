// Package dashboard serves a read-only JSON introspection API over a
// running simulation's accounts and positions, adapted from the teacher's
// HTTP dashboard. It never accepts trading actions — that is the client
// control protocol's job, out of scope for this module.
package dashboard

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ahlstrom-labs/simbroker/internal/account"
	"github.com/ahlstrom-labs/simbroker/internal/simloop"
)

// Config configures the dashboard HTTP server.
type Config struct {
	Port      int
	AuthToken string
}

// Server exposes account/position/ledger state for introspection only.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	accounts  *account.Registry
	loop      *simloop.Loop
	logger    *logrus.Logger
	port      int
	authToken string
}

// NewServer builds a dashboard bound to a live accounts registry and
// simulation loop. Reads race-safely with the loop via Ledger.Clone.
func NewServer(cfg Config, accounts *account.Registry, loop *simloop.Loop, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		router:    chi.NewRouter(),
		accounts:  accounts,
		loop:      loop,
		logger:    logger,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLoggerMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(middleware.Compress(5))

	register := func(r chi.Router) {
		r.Get("/api/accounts", s.handleListAccounts)
		r.Get("/api/accounts/{id}", s.handleGetAccount)
		r.Get("/api/status", s.handleStatus)
	}

	if s.authToken != "" {
		s.router.Route("/", func(r chi.Router) {
			r.Use(s.authMiddleware)
			register(r)
		})
	} else {
		register(s.router)
	}

	s.router.Get("/health", s.handleHealth)
}

func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggedURL := s.redactTokenFromURL(r.URL)
		logEntry := s.logger.WithFields(logrus.Fields{
			"method":    r.Method,
			"url":       loggedURL.String(),
			"remote_ip": r.RemoteAddr,
		})

		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)

		logEntry.WithFields(logrus.Fields{
			"status":   wrapped.Status(),
			"bytes":    wrapped.BytesWritten(),
			"duration": time.Since(start),
		}).Info("HTTP request")
	})
}

func (s *Server) redactTokenFromURL(original *url.URL) *url.URL {
	out := &url.URL{Scheme: original.Scheme, Host: original.Host, Path: original.Path, RawQuery: original.RawQuery}
	if original.RawQuery != "" {
		values := original.Query()
		for _, k := range []string{"token", "auth_token"} {
			if values.Has(k) {
				values.Set(k, "[REDACTED]")
			}
		}
		out.RawQuery = values.Encode()
	}
	return out
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		token = r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if !s.isValidToken(token) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) isValidToken(token string) bool {
	if len(token) != len(s.authToken) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) == 1
}

// Start runs the HTTP server until Shutdown is called or it errors.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Infof("starting dashboard server on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"accounts":        len(s.accounts.All()),
		"final_timestamp": s.loop.FinalTimestamp(),
		"queue_depth":     s.loop.Queue.Len(),
	})
}

type accountView struct {
	UUID    string `json:"uuid"`
	Live    bool   `json:"live"`
	Balance uint64 `json:"balance"`
	Pending int    `json:"pending_positions"`
	Open    int    `json:"open_positions"`
	Closed  int    `json:"closed_positions"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	views := make([]accountView, 0, len(s.accounts.All()))
	for _, acct := range s.accounts.All() {
		ledger := acct.Ledger.Clone()
		views = append(views, accountView{
			UUID:    acct.UUID.String(),
			Live:    acct.Live,
			Balance: ledger.Balance(),
			Pending: len(ledger.Pending()),
			Open:    len(ledger.Open()),
			Closed:  len(ledger.Closed()),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	acct, err := s.accounts.Get(id)
	if err != nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	ledger := acct.Ledger.Clone()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"uuid":    acct.UUID.String(),
		"live":    acct.Live,
		"balance": ledger.Balance(),
		"pending": ledger.Pending(),
		"open":    ledger.Open(),
		"closed":  ledger.Closed(),
	})
}

