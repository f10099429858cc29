package handler

import (
	"log/slog"
	"net/http"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/service"
)

// AssistHandler serves the AI business assistant screen.
type AssistHandler struct {
	assist   service.AssistService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(assist service.AssistService, renderer *Renderer, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{
		assist:   assist,
		renderer: renderer,
		logger:   logger,
	}
}

type assistPageData struct {
	User    domain.User
	Clients []domain.Client
}

// Show renders the assistant page with the user's visible clients as
// greeting targets.
func (h *AssistHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	h.renderer.RenderHTTP(w, "assistant", assistPageData{
		User:    sess.User,
		Clients: domain.VisibleClients(state.Clients, sess.User),
	})
}

// assistResultData feeds the assist_result partial.
type assistResultData struct {
	Title string
	Text  string
}

type greetingForm struct {
	ClientID string `form:"client_id" validate:"required"`
	Holiday  string `form:"holiday" validate:"required"`
}

// Greeting drafts a holiday thank-you message for the chosen client.
func (h *AssistHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	var form greetingForm
	if err := decodeForm(r, &form); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	holiday := domain.Holiday(form.Holiday)
	if !holiday.Valid() {
		ErrorResponse(w, r, h.logger, domain.Invalid("assist.greeting", "명절을 선택해 주세요."))
		return
	}

	var client *domain.Client
	for i := range state.Clients {
		if state.Clients[i].ID == form.ClientID {
			client = &state.Clients[i]
			break
		}
	}
	if client == nil {
		NotFoundResponse(w, r, h.logger)
		return
	}

	text := h.assist.GenerateGreeting(r.Context(), client.Name, client.Company, client.Position, holiday)
	h.renderer.RenderPartial(w, "assist_result", assistResultData{
		Title: string(holiday) + " 인사말",
		Text:  text,
	})
}

type suggestionForm struct {
	Category string `form:"category" validate:"required"`
	Holiday  string `form:"holiday" validate:"required"`
}

// Suggestion drafts gift ideas for a client tier and holiday.
func (h *AssistHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	var form suggestionForm
	if err := decodeForm(r, &form); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	category := domain.ClientCategory(form.Category)
	holiday := domain.Holiday(form.Holiday)
	if !category.Valid() || !holiday.Valid() {
		ErrorResponse(w, r, h.logger, domain.Invalid("assist.suggestion", "등급과 명절을 선택해 주세요."))
		return
	}

	text := h.assist.SuggestGift(r.Context(), category, holiday)
	h.renderer.RenderPartial(w, "assist_result", assistResultData{
		Title: string(holiday) + " 선물 추천",
		Text:  text,
	})
}
