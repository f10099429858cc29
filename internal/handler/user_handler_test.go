package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gschargev/giftdesk/internal/auth"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/service"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

const seedAdmin = "jhkang@gschargev.co.kr"

type userFixture struct {
	store    *store.Memory
	sessions *session.Manager
	hub      *auth.Hub
	handler  *UserHandler
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	st := store.NewMemory()
	f := &userFixture{
		store:    st,
		sessions: session.NewManager(),
		hub:      auth.NewHub(),
	}
	users := service.NewUserService(st, discardLogger(), "@gschargev.co.kr", seedAdmin)
	f.handler = NewUserHandler(users, f.sessions, f.hub, newTestRenderer(t), discardLogger(), seedAdmin)
	return f
}

func (f *userFixture) serve(t *testing.T, user domain.User, state session.State, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	token, err := f.sessions.Create(user, "tok", state)
	require.NoError(t, err)
	req.AddCookie(session.Cookie(token, false))

	authMw := middleware.NewAuthMiddleware(f.sessions, discardLogger(), false)
	rec := httptest.NewRecorder()
	authMw.WithSession(http.HandlerFunc(h)).ServeHTTP(rec, req)
	return rec
}

func allowList() []domain.User {
	return []domain.User{
		{Email: seedAdmin, Name: "강정훈", IsAdmin: true},
		{Email: "lee@gschargev.co.kr", Name: "이영관", IsAdmin: true},
		{Email: "kim@gschargev.co.kr", Name: "김철수"},
	}
}

func TestUserListHidesSeedAdminDelete(t *testing.T) {
	f := newUserFixture(t)
	admin := domain.User{Email: seedAdmin, Name: "강정훈", IsAdmin: true}

	rec := f.serve(t, admin, session.State{Users: allowList()}, f.handler.List,
		httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "/users/"+seedAdmin+"/delete",
		"the protected account must not offer a delete form")
	assert.Contains(t, body, "/users/kim@gschargev.co.kr/delete")
	assert.Contains(t, body, "기본 관리자")
}

func TestToggleAdminDemotionDropsLiveSessions(t *testing.T) {
	f := newUserFixture(t)
	f.store.Seed(allowList(), nil, nil)

	// The target is signed in with an admin session of their own.
	targetToken, err := f.sessions.Create(
		domain.User{Email: "lee@gschargev.co.kr", Name: "이영관", IsAdmin: true}, "tok2", session.State{})
	require.NoError(t, err)

	var signedOut []string
	f.hub.Subscribe(func(e auth.Event) {
		if e.Type == auth.EventSignedOut {
			signedOut = append(signedOut, e.Email)
		}
	})

	admin := domain.User{Email: seedAdmin, Name: "강정훈", IsAdmin: true}
	req := httptest.NewRequest(http.MethodPost, "/users/lee@gschargev.co.kr/toggle-admin", nil)
	req.SetPathValue("email", "lee@gschargev.co.kr")
	rec := f.serve(t, admin, session.State{Users: allowList()}, f.handler.ToggleAdmin, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, f.sessions.Get(targetToken), "demoted user must lose their live session")
	assert.Equal(t, []string{"lee@gschargev.co.kr"}, signedOut)
}

func TestToggleAdminPromotionKeepsSessions(t *testing.T) {
	f := newUserFixture(t)
	f.store.Seed(allowList(), nil, nil)

	targetToken, err := f.sessions.Create(
		domain.User{Email: "kim@gschargev.co.kr", Name: "김철수"}, "tok2", session.State{})
	require.NoError(t, err)

	admin := domain.User{Email: seedAdmin, Name: "강정훈", IsAdmin: true}
	req := httptest.NewRequest(http.MethodPost, "/users/kim@gschargev.co.kr/toggle-admin", nil)
	req.SetPathValue("email", "kim@gschargev.co.kr")
	rec := f.serve(t, admin, session.State{Users: allowList()}, f.handler.ToggleAdmin, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotNil(t, f.sessions.Get(targetToken), "promotion must not end the target's session")
}
