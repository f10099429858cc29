package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gschargev/giftdesk/internal/auth"
	"github.com/gschargev/giftdesk/internal/bootstrap"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/metrics"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

// AuthHandler drives the two-step one-time-code login flow.
type AuthHandler struct {
	store            store.Store
	provider         auth.Provider
	sessions         *session.Manager
	hub              *auth.Hub
	renderer         *Renderer
	logger           *slog.Logger
	corporateDomain  string
	bootstrapTimeout time.Duration
	isSecure         bool
}

// AuthHandlerConfig holds the collaborators for AuthHandler.
type AuthHandlerConfig struct {
	Store            store.Store
	Provider         auth.Provider
	Sessions         *session.Manager
	Hub              *auth.Hub
	Renderer         *Renderer
	Logger           *slog.Logger
	CorporateDomain  string
	BootstrapTimeout time.Duration
	IsSecure         bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		store:            cfg.Store,
		provider:         cfg.Provider,
		sessions:         cfg.Sessions,
		hub:              cfg.Hub,
		renderer:         cfg.Renderer,
		logger:           cfg.Logger,
		corporateDomain:  cfg.CorporateDomain,
		bootstrapTimeout: cfg.BootstrapTimeout,
		isSecure:         cfg.IsSecure,
	}
}

// loginPageData feeds the auth/login template.
type loginPageData struct {
	Email    string
	CodeSent bool
	Error    string
}

// LoginPage renders the email step. Signed-in users are sent to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.RenderHTTP(w, "auth/login", loginPageData{})
}

type sendCodeForm struct {
	Email string `form:"email" validate:"required,email"`
}

// SendCode checks the email locally and asks the provider to mail a code.
// The allow-list and domain checks run before any provider traffic so a typo
// never triggers an email.
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var form sendCodeForm
	if err := decodeForm(r, &form); err != nil {
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email: form.Email,
			Error: "올바른 이메일 주소를 입력해 주세요.",
		})
		return
	}

	email := domain.NormalizeEmail(form.Email)
	if !domain.HasDomainSuffix(email, h.corporateDomain) {
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email: email,
			Error: h.corporateDomain + " 메일 주소만 사용할 수 있습니다.",
		})
		return
	}

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("could not load allow-list for login", "error", err)
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email: email,
			Error: "잠시 후 다시 시도해 주세요.",
		})
		return
	}
	if domain.FindUser(users, email) == nil {
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email: email,
			Error: "등록되지 않은 사용자입니다. 관리자에게 문의해 주세요.",
		})
		return
	}

	if err := h.provider.SendCode(r.Context(), email); err != nil {
		h.logger.Error("failed to send login code", "error", err, "email", email)
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email: email,
			Error: "인증번호 발송에 실패했습니다. 잠시 후 다시 시도해 주세요.",
		})
		return
	}

	metrics.LoginCodesSent.Inc()
	h.logger.Info("login code sent", "email", email)
	h.renderer.RenderHTTP(w, "auth/login", loginPageData{Email: email, CodeSent: true})
}

type verifyCodeForm struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"code" validate:"required,min=6,max=6,numeric"`
}

// VerifyCode exchanges the emailed code for a provider session, bootstraps
// the application state and opens a browser session.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var form verifyCodeForm
	if err := decodeForm(r, &form); err != nil {
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email:    form.Email,
			CodeSent: true,
			Error:    "6자리 인증번호를 입력해 주세요.",
		})
		return
	}

	email := domain.NormalizeEmail(form.Email)
	providerSession, err := h.provider.VerifyCode(r.Context(), email, form.Code)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		h.logger.Warn("code verification failed", "email", email, "error", err)
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email:    email,
			CodeSent: true,
			Error:    domain.ErrorMessage(err),
		})
		return
	}

	result := bootstrap.Run(r.Context(), bootstrap.Deps{
		Store:   h.store,
		Auth:    h.provider,
		Logger:  h.logger,
		Timeout: h.bootstrapTimeout,
	}, providerSession.AccessToken)

	if !result.Authenticated {
		metrics.BootstrapRuns.WithLabelValues("rejected").Inc()
		h.renderer.RenderHTTP(w, "auth/login", loginPageData{
			Email: email,
			Error: "로그인할 수 없습니다. 관리자에게 문의해 주세요.",
		})
		return
	}

	token, err := h.sessions.Create(result.User, providerSession.AccessToken, result.State)
	if err != nil {
		h.logger.Error("failed to create session", "error", err, "email", email)
		http.Error(w, "로그인 처리 중 오류가 발생했습니다.", http.StatusInternalServerError)
		return
	}

	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	metrics.BootstrapRuns.WithLabelValues("accepted").Inc()
	h.hub.Publish(auth.Event{Type: auth.EventSignedIn, Email: result.User.Email})
	h.logger.Info("user signed in", "email", result.User.Email, "is_admin", result.User.IsAdmin)

	http.SetCookie(w, session.Cookie(token, h.isSecure))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout revokes the provider session, drops the browser session and clears
// the cookie. Provider failures are logged but never block the local logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess != nil {
		if err := h.provider.SignOut(r.Context(), sess.AccessToken); err != nil {
			h.logger.Warn("provider sign-out failed", "error", err, "email", sess.User.Email)
		}
		h.hub.Publish(auth.Event{Type: auth.EventSignedOut, Email: sess.User.Email})
	}

	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	http.SetCookie(w, session.ExpiredCookie())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
