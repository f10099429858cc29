package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.Handler) (*GoTrueProvider, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider, err := NewGoTrueProvider(GoTrueConfig{
		URL:    srv.URL,
		APIKey: "test-key",
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return provider, srv
}

func TestGoTrueProvider_SendCode(t *testing.T) {
	var gotBody map[string]any
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/otp", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))

	err := provider.SendCode(context.Background(), " Kim@GSChargeV.co.kr ")
	require.NoError(t, err)

	assert.Equal(t, "kim@gschargev.co.kr", gotBody["email"])
	assert.Equal(t, true, gotBody["create_user"])
}

func TestGoTrueProvider_VerifyCode_PurposeFallback(t *testing.T) {
	// The provider rejects the first two purposes; the third succeeds.
	var purposes []string
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		purposes = append(purposes, body["type"].(string))

		if len(purposes) < 3 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-123",
			"expires_in":   3600,
			"user":         map[string]any{"email": "kim@gschargev.co.kr"},
		})
	}))

	session, err := provider.VerifyCode(context.Background(), "kim@gschargev.co.kr", "482913")
	require.NoError(t, err)

	assert.Equal(t, []string{"magiclink", "email", "signup"}, purposes)
	assert.Equal(t, "token-123", session.AccessToken)
	assert.Equal(t, "kim@gschargev.co.kr", session.Email)
	assert.False(t, session.ExpiresAt.IsZero())
}

func TestGoTrueProvider_VerifyCode_AllPurposesRejected(t *testing.T) {
	calls := 0
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := provider.VerifyCode(context.Background(), "kim@gschargev.co.kr", "000000")
	require.Error(t, err)

	assert.Equal(t, len(VerifyPurposes), calls)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	assert.Equal(t, "인증번호가 일치하지 않거나 만료되었습니다.", domain.ErrorMessage(err))
}

func TestGoTrueProvider_GetSession(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"email": "Kim@GSChargeV.co.kr"})
	}))

	session, err := provider.GetSession(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, "kim@gschargev.co.kr", session.Email)
}

func TestGoTrueProvider_GetSession_ExpiredToken(t *testing.T) {
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := provider.GetSession(context.Background(), "stale")
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestMock_VerifyCode(t *testing.T) {
	mock := NewMock()

	_, err := mock.VerifyCode(context.Background(), "kim@gschargev.co.kr", "999999")
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	session, err := mock.VerifyCode(context.Background(), "kim@gschargev.co.kr", "000000")
	require.NoError(t, err)
	assert.Equal(t, "kim@gschargev.co.kr", session.Email)
	assert.Equal(t, 2, mock.VerifyCodeCalls)
}
