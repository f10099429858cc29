package store

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gschargev/giftdesk/internal/domain"
)

func newTestSupabaseStore(t *testing.T, handler http.HandlerFunc) *SupabaseStore {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st, err := NewSupabaseStore(SupabaseConfig{
		URL:            srv.URL,
		APIKey:         "test-key",
		RequestTimeout: time.Second,
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return st
}

func TestSupabaseListUsers(t *testing.T) {
	st := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"email": "jhkang@gschargev.co.kr", "name": "강정훈", "is_admin": true},
			{"email": "Kim@gschargev.co.kr", "name": "김철수", "is_admin": "TRUE"}
		]`))
	})

	users, err := st.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "kim@gschargev.co.kr", users[1].Email)
	assert.True(t, users[1].IsAdmin, "legacy string flag must coerce")
}

func TestSupabaseInsertClient(t *testing.T) {
	var gotPath, gotMethod string
	st := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	})

	err := st.InsertClient(t.Context(), domain.Client{ID: "c1", Name: "박영희"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/rest/v1/clients", gotPath)
}

func TestSupabaseRemoteFailure(t *testing.T) {
	st := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "permission denied"}`, http.StatusForbidden)
	})

	_, err := st.ListClients(t.Context())
	require.Error(t, err)
	assert.Equal(t, domain.EREMOTE, domain.ErrorCode(err))
}

func TestSupabaseDeleteUserFilter(t *testing.T) {
	var gotQuery string
	st := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, st.DeleteUser(t.Context(), " Kim@GSChargeV.co.kr "))
	assert.Equal(t, "email=eq.kim%40gschargev.co.kr", gotQuery)
}
