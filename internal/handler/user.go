package handler

import (
	"log/slog"
	"net/http"

	"github.com/gschargev/giftdesk/internal/auth"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/service"
	"github.com/gschargev/giftdesk/internal/session"
)

// UserHandler serves the admin-only allow-list screen.
type UserHandler struct {
	users     service.UserService
	sessions  *session.Manager
	hub       *auth.Hub
	renderer  *Renderer
	logger    *slog.Logger
	seedAdmin string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, sessions *session.Manager, hub *auth.Hub, renderer *Renderer, logger *slog.Logger, seedAdminEmail string) *UserHandler {
	return &UserHandler{
		users:     users,
		sessions:  sessions,
		hub:       hub,
		renderer:  renderer,
		logger:    logger,
		seedAdmin: domain.NormalizeEmail(seedAdminEmail),
	}
}

type userPageData struct {
	User           domain.User
	Users          []domain.User
	SeedAdminEmail string // This account gets no delete affordance
	Error          string
}

func (h *UserHandler) pageData(sess *session.Session, errMsg string) userPageData {
	return userPageData{
		User:           sess.User,
		Users:          sess.Snapshot().Users,
		SeedAdminEmail: h.seedAdmin,
		Error:          errMsg,
	}
}

// List shows the allow-list.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	h.renderer.RenderHTTP(w, "users", h.pageData(sess, ""))
}

type userForm struct {
	Email string `form:"email" validate:"required,email"`
	Name  string `form:"name" validate:"required"`
}

// Add registers a new employee on the allow-list.
func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var form userForm
	if err := decodeForm(r, &form); err != nil {
		h.renderer.RenderHTTP(w, "users", h.pageData(sess, "이름과 이메일을 모두 입력해 주세요."))
		return
	}

	if _, err := h.users.AddUser(r.Context(), sess, form.Email, form.Name); err != nil {
		h.renderer.RenderHTTP(w, "users", h.pageData(sess, domain.ErrorMessage(err)))
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// Delete removes an employee from the allow-list and terminates any live
// sessions they hold.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	email := r.PathValue("email")
	if err := h.users.DeleteUser(r.Context(), sess, email); err != nil {
		h.renderer.RenderHTTP(w, "users", h.pageData(sess, domain.ErrorMessage(err)))
		return
	}

	// A removed user loses access immediately, not at next login.
	h.sessions.DeleteByEmail(email)
	h.hub.Publish(auth.Event{Type: auth.EventSignedOut, Email: domain.NormalizeEmail(email)})

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// ToggleAdmin flips the admin flag.
func (h *UserHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	updated, err := h.users.ToggleAdmin(r.Context(), sess, r.PathValue("email"))
	if err != nil {
		h.renderer.RenderHTTP(w, "users", h.pageData(sess, domain.ErrorMessage(err)))
		return
	}

	// A demoted admin must not ride out the session lifetime with admin
	// rights; drop their live sessions so the next login carries the new role.
	if !updated.IsAdmin {
		h.sessions.DeleteByEmail(updated.Email)
		h.hub.Publish(auth.Event{Type: auth.EventSignedOut, Email: updated.Email})
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
