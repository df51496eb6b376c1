package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leozw/clerk-user-sync/internal/db"
	"github.com/leozw/clerk-user-sync/internal/metrics"
	"github.com/leozw/clerk-user-sync/internal/webhook"
	"go.uber.org/zap"
)

// ClerkWebhook handles POST /webhook/clerk.
func (h *Handler) ClerkWebhook(c *gin.Context) {
	if h.verifier == nil {
		h.metrics.RecordRejection("missing_secret")
		h.logger.Error("Webhook signing secret is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "WEBHOOK_SECRET is missing. Please configure it in your environment variables.",
		})
		return
	}

	if missing := webhook.MissingHeaders(c.Request.Header); len(missing) > 0 {
		h.metrics.RecordRejection("missing_headers")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error occurred -- no Svix headers found",
			"missing": missing,
		})
		return
	}

	svixID := c.GetHeader(webhook.HeaderID)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.metrics.RecordRejection("unreadable_body")
		h.logger.Warn("Failed to read webhook body", zap.String("svix_id", svixID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if err := h.verifier.Verify(payload, c.Request.Header); err != nil {
		h.metrics.RecordRejection("invalid_signature")
		h.logger.Warn("Error verifying webhook", zap.String("svix_id", svixID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error occurred during webhook verification"})
		return
	}

	evt, err := webhook.Decode(payload)
	if err != nil {
		var missingID *webhook.MissingIDError
		if errors.As(err, &missingID) {
			h.metrics.RecordRejection("missing_id")
			c.JSON(http.StatusBadRequest, gin.H{"error": missingID.Error()})
			return
		}
		h.metrics.RecordRejection("malformed_payload")
		h.logger.Warn("Failed to decode webhook payload", zap.String("svix_id", svixID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	start := time.Now()
	status, body, outcome := h.dispatch(c.Request.Context(), evt)
	h.metrics.RecordEvent(evt.EventType(), outcome, time.Since(start))

	h.logger.Info("Webhook processed",
		zap.String("svix_id", svixID),
		zap.String("event_type", evt.EventType()),
		zap.String("outcome", outcome),
		zap.Int("status", status),
	)
	c.JSON(status, body)
}

func (h *Handler) dispatch(ctx context.Context, evt webhook.Event) (int, gin.H, string) {
	switch e := evt.(type) {
	case webhook.UserCreated:
		return h.userCreated(ctx, e)
	case webhook.UserUpdated:
		return h.userUpdated(ctx, e)
	case webhook.UserDeleted:
		return h.userDeleted(ctx, e)
	default:
		return http.StatusNotFound, gin.H{"message": "Event type not handled"}, metrics.OutcomeIgnored
	}
}

func (h *Handler) userCreated(ctx context.Context, e webhook.UserCreated) (int, gin.H, string) {
	user, err := h.users.CreateUser(ctx, e.User)
	if err != nil {
		return h.storeFailure(e, e.User.ClerkID, err)
	}

	if user != nil {
		err := h.clerk.SetUserID(ctx, e.User.ClerkID, user.ID.String())
		h.metrics.RecordMetadataUpdate(err)
		if err != nil {
			h.logger.Error("Failed to update Clerk metadata",
				zap.String("clerk_id", e.User.ClerkID),
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			return http.StatusInternalServerError, gin.H{"error": "Failed to update Clerk user metadata"}, metrics.OutcomeError
		}
	}

	return http.StatusOK, gin.H{"message": "User created successfully", "user": user}, metrics.OutcomeSuccess
}

func (h *Handler) userUpdated(ctx context.Context, e webhook.UserUpdated) (int, gin.H, string) {
	user, err := h.users.UpdateUser(ctx, e.ClerkID, e.Update)
	if err != nil {
		return h.storeFailure(e, e.ClerkID, err)
	}
	return http.StatusOK, gin.H{"message": "User updated successfully", "user": user}, metrics.OutcomeSuccess
}

func (h *Handler) userDeleted(ctx context.Context, e webhook.UserDeleted) (int, gin.H, string) {
	user, err := h.users.DeleteUser(ctx, e.ClerkID)
	if err != nil {
		return h.storeFailure(e, e.ClerkID, err)
	}
	return http.StatusOK, gin.H{"message": "User deleted successfully", "user": user}, metrics.OutcomeSuccess
}

func (h *Handler) storeFailure(evt webhook.Event, clerkID string, err error) (int, gin.H, string) {
	switch {
	case errors.Is(err, db.ErrUserNotFound):
		return http.StatusNotFound, gin.H{"error": "User not found"}, metrics.OutcomeNotFound
	case errors.Is(err, db.ErrUserExists):
		return http.StatusConflict, gin.H{"error": "User already exists"}, metrics.OutcomeConflict
	}

	h.logger.Error("Failed to apply webhook event",
		zap.String("event_type", evt.EventType()),
		zap.String("clerk_id", clerkID),
		zap.Error(err),
	)
	return http.StatusInternalServerError, gin.H{"error": "Failed to process " + evt.EventType() + " event"}, metrics.OutcomeError
}
