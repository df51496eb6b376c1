package webhook

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Headers Svix attaches to every Clerk delivery.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

var ErrMissingSecret = errors.New("webhook signing secret is not configured")

type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// MissingHeaders returns the required signature headers absent from h.
func MissingHeaders(h http.Header) []string {
	var missing []string
	for _, name := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		if h.Get(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

type SvixVerifier struct {
	wh *svix.Webhook
}

func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signing secret: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

// Verify checks the svix-* headers against the raw request body.
func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	sig := http.Header{}
	sig.Set(HeaderID, headers.Get(HeaderID))
	sig.Set(HeaderTimestamp, headers.Get(HeaderTimestamp))
	sig.Set(HeaderSignature, headers.Get(HeaderSignature))
	return v.wh.Verify(payload, sig)
}
