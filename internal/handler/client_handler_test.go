package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/service"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

type clientFixture struct {
	store    *store.Memory
	sessions *session.Manager
	handler  *ClientHandler
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()
	st := store.NewMemory()
	return &clientFixture{
		store:    st,
		sessions: session.NewManager(),
		handler:  NewClientHandler(service.NewClientService(st, discardLogger()), newTestRenderer(t), discardLogger()),
	}
}

// serve runs the request through the session middleware with a fresh session
// for the given user and state.
func (f *clientFixture) serve(t *testing.T, user domain.User, state session.State, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	token, err := f.sessions.Create(user, "tok", state)
	require.NoError(t, err)
	req.AddCookie(session.Cookie(token, false))

	authMw := middleware.NewAuthMiddleware(f.sessions, discardLogger(), false)
	rec := httptest.NewRecorder()
	authMw.WithSession(http.HandlerFunc(h)).ServeHTTP(rec, req)
	return rec
}

func sampleClient(id, company, owner string) domain.Client {
	return domain.Client{
		ID:              id,
		Name:            "박영희",
		Company:         company,
		Category:        domain.CategoryVIP,
		Postcode:        "06236",
		Address:         "서울시 강남구",
		RegisteredBy:    "김철수",
		RegisteredEmail: owner,
		GiftHistory: []domain.GiftRecord{{
			ID:       "g1",
			Year:     2026,
			Holiday:  domain.HolidayChuseok,
			ItemName: "한우 선물세트",
			Quantity: 2,
			Price:    200000,
			Status:   domain.StatusPreparing,
		}},
	}
}

func TestClientList(t *testing.T) {
	f := newClientFixture(t)
	user := domain.User{Email: "kim@gschargev.co.kr", Name: "김철수"}
	state := session.State{Clients: []domain.Client{
		sampleClient("c1", "한빛상사", "kim@gschargev.co.kr"),
		sampleClient("c2", "동서물산", "lee@gschargev.co.kr"),
	}}

	t.Run("regular user sees only their own records", func(t *testing.T) {
		rec := f.serve(t, user, state, f.handler.List, httptest.NewRequest(http.MethodGet, "/clients", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "한빛상사")
		assert.NotContains(t, rec.Body.String(), "동서물산")
	})

	t.Run("admin sees everything and can filter", func(t *testing.T) {
		admin := domain.User{Email: "jhkang@gschargev.co.kr", Name: "강정훈", IsAdmin: true}
		rec := f.serve(t, admin, state, f.handler.List, httptest.NewRequest(http.MethodGet, "/clients?q=동서", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "동서물산")
		assert.NotContains(t, rec.Body.String(), "한빛상사")
	})
}

func TestClientSave(t *testing.T) {
	f := newClientFixture(t)
	user := domain.User{Email: "kim@gschargev.co.kr", Name: "김철수"}

	t.Run("valid form creates a record and redirects", func(t *testing.T) {
		req := postForm("/clients", url.Values{
			"name":     {"박영희"},
			"company":  {"한빛상사"},
			"postcode": {"06236"},
			"address":  {"서울시 강남구"},
			"category": {string(domain.CategoryVIP)},
		})
		rec := f.serve(t, user, session.State{}, f.handler.Save, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/clients", rec.Header().Get("Location"))
		assert.Equal(t, 1, f.store.WriteClientCalls)
	})

	t.Run("missing address re-renders the form with field errors", func(t *testing.T) {
		before := f.store.WriteClientCalls
		req := postForm("/clients", url.Values{
			"name":     {"박영희"},
			"postcode": {"06236"},
		})
		rec := f.serve(t, user, session.State{}, f.handler.Save, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "필수 입력 항목입니다.")
		assert.Equal(t, before, f.store.WriteClientCalls, "no remote write on validation failure")
	})
}

func TestExportCSV(t *testing.T) {
	f := newClientFixture(t)
	user := domain.User{Email: "kim@gschargev.co.kr", Name: "김철수"}
	state := session.State{Clients: []domain.Client{
		sampleClient("c1", "한빛상사", "kim@gschargev.co.kr"),
	}}

	rec := f.serve(t, user, state, f.handler.ExportCSV, httptest.NewRequest(http.MethodGet, "/clients/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gift_list_export_")

	body := rec.Body.Bytes()
	require.True(t, len(body) > 3, "expected a non-empty export")
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3], "export must start with a UTF-8 BOM")
	assert.Contains(t, rec.Body.String(), "한우 선물세트")
}
