// Package reputation asks the Adjutor Karma service whether an identity may open a wallet.
package reputation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/middleware"
)

const defaultTimeout = 10 * time.Second

// KarmaClient calls GET {baseURL}/verification/karma/{identity}. Only a 200 answer lets
// registration proceed; any other status is treated as a failed check.
type KarmaClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a KarmaClient.
type Option func(*KarmaClient)

// WithHTTPClient replaces the default client, which times out after ten seconds.
func WithHTTPClient(c *http.Client) Option {
	return func(k *KarmaClient) {
		k.httpClient = c
	}
}

// NewKarmaClient creates a client for the Karma blacklist lookup.
func NewKarmaClient(baseURL, apiKey string, opts ...Option) *KarmaClient {
	k := &KarmaClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

var _ portssvc.ReputationChecker = (*KarmaClient)(nil)

func (k *KarmaClient) Check(ctx context.Context, identity string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	endpoint := fmt.Sprintf("%s/verification/karma/%s", k.baseURL, url.PathEscape(identity))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build karma request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+k.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "Karma lookup failed", slog.String("error", err.Error()))
		return apperrors.NewAppError(http.StatusGatewayTimeout, "reputation service unavailable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger.InfoContext(ctx, "Karma check rejected identity", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("karma responded %d: %w", resp.StatusCode, apperrors.ErrReputationCheckFailed)
	}
	return nil
}

// SkipChecker approves every identity. It stands in for KarmaClient in tests and offline setups.
type SkipChecker struct{}

func (SkipChecker) Check(ctx context.Context, identity string) error {
	middleware.GetLoggerFromCtx(ctx).DebugContext(ctx, "Skipping reputation check")
	return nil
}
