package handlers

import (
	"context"

	"github.com/leozw/clerk-user-sync/internal/core"
	"github.com/leozw/clerk-user-sync/internal/metrics"
	"github.com/leozw/clerk-user-sync/internal/webhook"
	"go.uber.org/zap"
)

// UserStore is the application's user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, evt core.UserEvent) (*core.User, error)
	UpdateUser(ctx context.Context, clerkID string, upd core.UserUpdate) (*core.User, error)
	DeleteUser(ctx context.Context, clerkID string) (*core.User, error)
	Ping(ctx context.Context) error
}

// MetadataWriter writes the internal user id back to the identity provider.
type MetadataWriter interface {
	SetUserID(ctx context.Context, clerkID, userID string) error
}

type Handler struct {
	users    UserStore
	clerk    MetadataWriter
	verifier webhook.Verifier
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewHandler wires the webhook handler. A nil verifier means the signing
// secret is not configured and every webhook request fails with 500.
func NewHandler(users UserStore, clerk MetadataWriter, verifier webhook.Verifier, metrics *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		users:    users,
		clerk:    clerk,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,
	}
}
