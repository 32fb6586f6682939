package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/idempotency"
	"github.com/Kerhoff/ShopWizard/internal/service"
)

const maxUpdateBytes = 1 << 20

// UpdateHandler processes one decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) bool
}

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server receives the Telegram webhook and serves the health, metrics and
// read-only JSON endpoints.
type Server struct {
	svc     *service.Service
	updates UpdateHandler
	dedup   idempotency.Deduplicator
	db      Pinger
	logger  *logrus.Logger
	mux     *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it. A nil
// dedup processes every delivery; a nil db skips the health ping.
func NewServer(svc *service.Service, updates UpdateHandler, dedup idempotency.Deduplicator, db Pinger, logger *logrus.Logger) *Server {
	if dedup == nil {
		dedup = idempotency.Noop{}
	}
	s := &Server{svc: svc, updates: updates, dedup: dedup, db: db, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Telegram webhook
	s.mux.HandleFunc("POST /{$}", s.handleWebhook)

	// Operations
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// API – read-only views
	s.mux.HandleFunc("GET /api/users/{id}/lists", s.handleGetLists)
	s.mux.HandleFunc("GET /api/users/{id}/lists/{name}/items", s.handleGetItems)
	s.mux.HandleFunc("GET /api/users/{id}/contacts", s.handleGetContacts)
}

type requestIDKey struct{}

// withRequestID tags every request with an X-Request-ID, reusing the
// caller's when present.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		s.logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(start),
		}).Debug("Handled HTTP request")
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service failure to an HTTP status.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Kind {
		case apperrors.KindNotFound:
			s.respondError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.KindBadInput:
			s.respondError(w, http.StatusBadRequest, appErr.Message)
			return
		}
	}

	s.logger.WithError(err).WithField("request_id", requestID(r.Context())).Error("API request failed")
	s.respondError(w, http.StatusInternalServerError, "internal error")
}

// pathUserID extracts the {id} path value and converts it to int64.
func pathUserID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// ---------------------------------------------------------------------------
// Webhook
// ---------------------------------------------------------------------------

// handleWebhook acknowledges every decodable update with "ok" once it has
// been processed. Telegram retries anything else.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		s.logger.WithError(err).WithField("request_id", requestID(r.Context())).Warn("Rejected webhook body")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": requestID(r.Context()),
		"update_id":  update.UpdateID,
	})

	first, err := s.dedup.FirstSeen(r.Context(), update.UpdateID)
	if err != nil {
		// Fail open.
		entry.WithError(err).Warn("Update de-duplication unavailable")
		first = true
	}
	if first {
		s.updates.HandleUpdate(r.Context(), update)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.WithError(err).Warn("Health check failed")
			s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// Shop lists
// ---------------------------------------------------------------------------

type listResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	lists, err := s.svc.ShopWizard.Lists(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	out := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, listResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt})
	}
	s.respondJSON(w, http.StatusOK, out)
}

type itemsResponse struct {
	ListName string   `json:"list_name"`
	Items    []string `json:"items"`
}

func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	name := r.PathValue("name")

	items, err := s.svc.ShopWizard.ListItems(r.Context(), userID, name)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []string{}
	}

	s.respondJSON(w, http.StatusOK, itemsResponse{ListName: name, Items: items})
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

func (s *Server) handleGetContacts(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	contacts, err := s.svc.ContactBook.All(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if contacts == nil {
		s.respondJSON(w, http.StatusOK, []any{})
		return
	}

	s.respondJSON(w, http.StatusOK, contacts)
}

// Serve runs an http.Server for handler on addr until ctx is cancelled, then
// shuts it down within shutdownTimeout.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *logrus.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
