package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/service"
)

// CatalogHandler serves the admin-only gift catalog screen.
type CatalogHandler struct {
	catalog  service.CatalogService
	renderer *Renderer
	logger   *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, renderer *Renderer, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		renderer: renderer,
		logger:   logger,
	}
}

// catalogPageData groups the items per tier for display.
type catalogPageData struct {
	User  domain.User
	Tiers []catalogTier
	Error string
}

type catalogTier struct {
	Category domain.ClientCategory
	Items    []domain.CatalogItem
}

func (h *CatalogHandler) pageData(sess *session.Session, errMsg string) catalogPageData {
	state := sess.Snapshot()

	data := catalogPageData{User: sess.User, Error: errMsg}
	for _, category := range domain.Categories() {
		data.Tiers = append(data.Tiers, catalogTier{
			Category: category,
			Items:    domain.CatalogForCategory(state.Catalog, category),
		})
	}
	return data
}

// List shows the catalog grouped by client tier.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	h.renderer.RenderHTTP(w, "catalog", h.pageData(sess, ""))
}

type catalogForm struct {
	Name      string `form:"name" validate:"required"`
	UnitPrice string `form:"unit_price" validate:"required,numeric"`
	Category  string `form:"category" validate:"required"`
}

// Add inserts a new catalog item.
func (h *CatalogHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var form catalogForm
	if err := decodeForm(r, &form); err != nil {
		h.renderer.RenderHTTP(w, "catalog", h.pageData(sess, "품목명, 단가, 등급을 모두 입력해 주세요."))
		return
	}

	price, err := strconv.ParseInt(form.UnitPrice, 10, 64)
	if err != nil {
		h.renderer.RenderHTTP(w, "catalog", h.pageData(sess, "단가는 숫자로 입력해 주세요."))
		return
	}

	_, err = h.catalog.AddItem(r.Context(), sess, service.AddItemParams{
		Name:           form.Name,
		UnitPrice:      price,
		TargetCategory: domain.ClientCategory(form.Category),
	})
	if err != nil {
		h.renderer.RenderHTTP(w, "catalog", h.pageData(sess, domain.ErrorMessage(err)))
		return
	}

	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}

// UpdatePrice applies an inline price edit. Bad input is silently ignored by
// the service, so this always lands back on the catalog page.
func (h *CatalogHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
		return
	}

	if err := h.catalog.UpdatePrice(r.Context(), sess, r.PathValue("id"), r.PostFormValue("unit_price")); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}

// Delete removes a catalog item.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	if err := h.catalog.RemoveItem(r.Context(), sess, r.PathValue("id")); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}
