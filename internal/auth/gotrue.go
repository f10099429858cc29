package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
)

// =============================================================================
// GoTrue Provider Implementation
// =============================================================================

// GoTrueConfig holds connection settings for the hosted auth service.
type GoTrueConfig struct {
	URL            string        // Project base URL, e.g. https://xyz.supabase.co
	APIKey         string        // anon key, sent as apikey header
	RequestTimeout time.Duration // Per-request timeout (0 = 10s default)
}

// GoTrueProvider talks to a GoTrue-compatible auth endpoint (the hosted
// backend's /auth/v1 surface).
type GoTrueProvider struct {
	config GoTrueConfig
	client *http.Client
	logger *slog.Logger
}

// NewGoTrueProvider creates an auth provider backed by the hosted service.
func NewGoTrueProvider(config GoTrueConfig, logger *slog.Logger) (*GoTrueProvider, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("auth provider URL is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("auth provider API key is required")
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}

	return &GoTrueProvider{
		config: config,
		client: &http.Client{Timeout: config.RequestTimeout},
		logger: logger,
	}, nil
}

// SendCode asks the provider to email a one-time code.
func (p *GoTrueProvider) SendCode(ctx context.Context, email string) error {
	const op = "auth.send_code"

	body := map[string]any{
		"email":       domain.NormalizeEmail(email),
		"create_user": true,
	}
	if _, err := p.post(ctx, "/auth/v1/otp", "", body); err != nil {
		return domain.Remote(err, op, "failed to send one-time code")
	}
	return nil
}

// verifyResponse is the session payload returned by a successful verify.
type verifyResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		Email string `json:"email"`
	} `json:"user"`
}

// VerifyCode tries each purpose in VerifyPurposes in order.
func (p *GoTrueProvider) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	const op = "auth.verify_code"

	email = domain.NormalizeEmail(email)
	var lastErr error
	for _, purpose := range VerifyPurposes {
		body := map[string]any{
			"email": email,
			"token": code,
			"type":  purpose,
		}
		data, err := p.post(ctx, "/auth/v1/verify", "", body)
		if err != nil {
			lastErr = err
			continue
		}

		var resp verifyResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			lastErr = err
			continue
		}
		if resp.AccessToken == "" {
			lastErr = fmt.Errorf("verify succeeded without a session token")
			continue
		}

		return &Session{
			AccessToken: resp.AccessToken,
			Email:       domain.NormalizeEmail(resp.User.Email),
			ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		}, nil
	}

	return nil, &domain.Error{
		Code:    domain.EUNAUTHORIZED,
		Op:      op,
		Message: "인증번호가 일치하지 않거나 만료되었습니다.",
		Err:     lastErr,
	}
}

// userResponse is the identity payload behind a valid access token.
type userResponse struct {
	Email string `json:"email"`
}

// GetSession validates an access token against the provider.
func (p *GoTrueProvider) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	const op = "auth.get_session"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.URL+"/auth/v1/user", nil)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to build session request")
	}

	data, status, err := p.do(req, accessToken)
	if err != nil {
		return nil, domain.Remote(err, op, "failed to check session")
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, domain.Unauthorized(op, "session is invalid or expired")
	}
	if status < 200 || status >= 300 {
		return nil, domain.Remote(fmt.Errorf("status %d", status), op, "failed to check session")
	}

	var resp userResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, domain.Remote(err, op, "failed to decode session")
	}
	if resp.Email == "" {
		return nil, domain.Unauthorized(op, "session has no email identity")
	}

	return &Session{
		AccessToken: accessToken,
		Email:       domain.NormalizeEmail(resp.Email),
	}, nil
}

// SignOut revokes the token. Provider errors are logged but not fatal; the
// local session is cleared regardless.
func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	const op = "auth.sign_out"
	if _, err := p.post(ctx, "/auth/v1/logout", accessToken, nil); err != nil {
		p.logger.Warn("sign-out against auth provider failed", "error", err)
		return domain.Remote(err, op, "failed to sign out")
	}
	return nil
}

// =============================================================================
// HTTP Plumbing
// =============================================================================

func (p *GoTrueProvider) post(ctx context.Context, path, bearer string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, status, err := p.do(req, bearer)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("auth provider returned status %d: %s", status, truncate(string(data), 200))
	}
	return data, nil
}

func (p *GoTrueProvider) do(req *http.Request, bearer string) ([]byte, int, error) {
	req.Header.Set("apikey", p.config.APIKey)
	if bearer == "" {
		bearer = p.config.APIKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
