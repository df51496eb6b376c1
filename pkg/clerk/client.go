package clerk

import (
	"context"
	"encoding/json"
	"fmt"

	clerksdk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/leozw/clerk-user-sync/internal/config"
	"go.uber.org/zap"
)

// Client talks to the Clerk Backend API with the instance secret key.
type Client struct {
	users  *user.Client
	logger *zap.Logger
}

type publicMetadata struct {
	UserID string `json:"userId"`
}

func NewClient(cfg config.ClerkConfig, logger *zap.Logger) *Client {
	clientCfg := &clerksdk.ClientConfig{}
	clientCfg.Key = clerksdk.String(cfg.SecretKey)
	if cfg.APIURL != "" {
		clientCfg.URL = clerksdk.String(cfg.APIURL)
	}

	return &Client{
		users:  user.NewClient(clientCfg),
		logger: logger,
	}
}

// SetUserID stores the application's user id in the Clerk user's public
// metadata. Clerk merges metadata, so other public keys are preserved.
func (c *Client) SetUserID(ctx context.Context, clerkID, userID string) error {
	raw, err := json.Marshal(publicMetadata{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to encode public metadata: %w", err)
	}

	_, err = c.users.UpdateMetadata(ctx, clerkID, &user.UpdateMetadataParams{
		PublicMetadata: clerksdk.JSONRawMessage(raw),
	})
	if err != nil {
		return fmt.Errorf("failed to update metadata for clerk user %s: %w", clerkID, err)
	}

	c.logger.Debug("Clerk public metadata updated",
		zap.String("clerk_id", clerkID),
		zap.String("user_id", userID),
	)
	return nil
}
