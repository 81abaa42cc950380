package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/warunglab/storeapi/internal/store"
)

// UserStore is the persistence surface the user handlers need.
type UserStore interface {
	Create(ctx context.Context, u *store.User) error
	GetByID(ctx context.Context, id int64) (*store.User, error)
	List(ctx context.Context, offset, limit int) ([]*store.User, error)
	Update(ctx context.Context, u *store.User) error
	Delete(ctx context.Context, id int64) error
}

// ProductStore is the persistence surface the product handlers need.
type ProductStore interface {
	Create(ctx context.Context, p *store.Product) error
	GetByID(ctx context.Context, id int64) (*store.Product, error)
	List(ctx context.Context, offset, limit int) ([]*store.Product, error)
	Update(ctx context.Context, p *store.Product) error
	Delete(ctx context.Context, id int64) error
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers provides the HTTP handlers for the API.
type Handlers struct {
	users    UserStore
	products ProductStore
	pinger   Pinger
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(users UserStore, products ProductStore, pinger Pinger, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{users: users, products: products, pinger: pinger, logger: logger}
}

// Root returns the welcome message.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome to storeapi"})
}

// Health reports whether the database is reachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.PingContext(r.Context()); err != nil {
			h.logger.Warn("health check: database unreachable", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
