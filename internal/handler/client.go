package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/export"
	"github.com/gschargev/giftdesk/internal/metrics"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/service"
)

// ClientHandler serves the client list, the create/edit form and the CSV
// export.
type ClientHandler struct {
	clients  service.ClientService
	renderer *Renderer
	logger   *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clients service.ClientService, renderer *Renderer, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		clients:  clients,
		renderer: renderer,
		logger:   logger,
	}
}

type clientListPageData struct {
	User    domain.User
	Clients []domain.Client
	Query   string
}

// List shows the visible client records, optionally filtered by ?q=.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	visible := domain.VisibleClients(state.Clients, sess.User)
	query := r.URL.Query().Get("q")
	if query != "" {
		visible = domain.FilterClients(visible, query)
	}

	h.renderer.RenderHTTP(w, "clients", clientListPageData{
		User:    sess.User,
		Clients: visible,
		Query:   query,
	})
}

type clientFormPageData struct {
	User    domain.User
	Client  domain.Client
	Catalog []domain.CatalogItem
	IsNew   bool
	Errors  map[string]string
}

// NewForm renders an empty client form.
func (h *ClientHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	h.renderer.RenderHTTP(w, "client_form", clientFormPageData{
		User:    sess.User,
		Client:  domain.Client{Category: domain.DefaultCategory},
		Catalog: state.Catalog,
		IsNew:   true,
	})
}

// EditForm renders the form pre-filled with an existing record.
func (h *ClientHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	id := r.PathValue("id")
	var found *domain.Client
	for i := range state.Clients {
		if state.Clients[i].ID == id {
			found = &state.Clients[i]
			break
		}
	}
	if found == nil {
		NotFoundResponse(w, r, h.logger)
		return
	}
	if !sess.User.IsAdmin && !found.OwnedBy(sess.User.Email) {
		ErrorResponse(w, r, h.logger, domain.Forbidden("client.edit", "본인이 등록한 거래처만 수정할 수 있습니다."))
		return
	}

	h.renderer.RenderHTTP(w, "client_form", clientFormPageData{
		User:    sess.User,
		Client:  *found,
		Catalog: state.Catalog,
	})
}

type clientForm struct {
	ID            string `form:"id"`
	Name          string `form:"name" validate:"required"`
	Company       string `form:"company"`
	Position      string `form:"position"`
	Phone         string `form:"phone"`
	Postcode      string `form:"postcode" validate:"required"`
	Address       string `form:"address" validate:"required"`
	AddressDetail string `form:"address_detail"`
	Category      string `form:"category"`
	GiftYear      string `form:"gift_year"`
	GiftHoliday   string `form:"gift_holiday"`
	CatalogItemID string `form:"catalog_item_id"`
	GiftQuantity  string `form:"gift_quantity"`
	GiftStatus    string `form:"gift_status"`
	GiftNote      string `form:"gift_note"`
}

// Save creates or updates a client from the form post.
func (h *ClientHandler) Save(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var form clientForm
	if err := decodeForm(r, &form); err != nil {
		h.renderFormError(w, r, form, err)
		return
	}

	year, _ := strconv.Atoi(form.GiftYear)
	quantity, _ := strconv.Atoi(form.GiftQuantity)

	params := service.SaveClientParams{
		ID:            form.ID,
		Name:          form.Name,
		Company:       form.Company,
		Position:      form.Position,
		Phone:         form.Phone,
		Postcode:      form.Postcode,
		Address:       form.Address,
		AddressDetail: form.AddressDetail,
		Category:      domain.ClientCategory(form.Category),
		Gift: service.GiftParams{
			Year:          year,
			Holiday:       domain.Holiday(form.GiftHoliday),
			CatalogItemID: form.CatalogItemID,
			Quantity:      quantity,
			Status:        domain.GiftStatus(form.GiftStatus),
			Note:          form.GiftNote,
		},
	}

	if _, err := h.clients.Save(r.Context(), sess, params); err != nil {
		h.renderFormError(w, r, form, err)
		return
	}

	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

func (h *ClientHandler) renderFormError(w http.ResponseWriter, r *http.Request, form clientForm, err error) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	var fields map[string]string
	if ve, ok := err.(*domain.ValidationError); ok {
		fields = ve.Fields
	} else {
		fields = map[string]string{"_form": domain.ErrorMessage(err)}
		logError(h.logger, r, err, domain.ErrorCode(err), domain.ErrorOp(err), ErrorCodeToHTTPStatus(domain.ErrorCode(err)))
	}

	quantity, _ := strconv.Atoi(form.GiftQuantity)
	year, _ := strconv.Atoi(form.GiftYear)

	h.renderer.RenderHTTP(w, "client_form", clientFormPageData{
		User: sess.User,
		Client: domain.Client{
			ID:            form.ID,
			Name:          form.Name,
			Company:       form.Company,
			Position:      form.Position,
			Phone:         form.Phone,
			Postcode:      form.Postcode,
			Address:       form.Address,
			AddressDetail: form.AddressDetail,
			Category:      domain.ClientCategory(form.Category),
			GiftHistory: []domain.GiftRecord{{
				Year:          year,
				Holiday:       domain.Holiday(form.GiftHoliday),
				CatalogItemID: form.CatalogItemID,
				Quantity:      quantity,
				Status:        domain.GiftStatus(form.GiftStatus),
				Note:          form.GiftNote,
			}},
		},
		Catalog: state.Catalog,
		IsNew:   form.ID == "",
		Errors:  fields,
	})
}

// Delete removes a client record.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	if err := h.clients.Delete(r.Context(), sess, r.PathValue("id")); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

// ExportCSV streams the visible client list as a spreadsheet download. The
// same search filter as the list view applies.
func (h *ClientHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	visible := domain.VisibleClients(state.Clients, sess.User)
	if query := r.URL.Query().Get("q"); query != "" {
		visible = domain.FilterClients(visible, query)
	}

	filename := export.Filename(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteCSV(w, visible); err != nil {
		h.logger.Error("csv export failed", "error", err, "user", sess.User.Email)
		return
	}

	metrics.ExportsGenerated.Inc()
	h.logger.Info("csv export generated", "user", sess.User.Email, "clients", len(visible))
}
