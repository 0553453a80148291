package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/models"
	"github.com/tablekit/tableboard-backend/internal/response"
)

type LayoutService interface {
	CreateLayout(ctx context.Context, req dto.CreateLayoutRequest) (*models.Layout, error)
	GetLayout(ctx context.Context, layoutID string) (*models.Layout, error)
	UpdateLayout(ctx context.Context, layoutID string, req dto.UpdateLayoutRequest) (*models.Layout, error)
	SetLayoutDefault(ctx context.Context, layoutID string) (*models.Layout, error)
	DeleteLayout(ctx context.Context, layoutID string) error
	ListLayoutsByTable(ctx context.Context, tableID string) ([]*models.Layout, error)
	ListAllLayouts(ctx context.Context) ([]*models.Layout, error)
	ReorderPlacements(ctx context.Context, layoutID string, req dto.ReorderPlacementsRequest) (*models.Layout, error)
}

type layoutHandlers struct {
	ResponseHandler response.ResponseHandler
	LayoutSvc       LayoutService
	WidgetSvc       WidgetService
}

func NewLayoutHandlers(deps *Deps) *layoutHandlers {
	return &layoutHandlers{
		ResponseHandler: deps.ResponseHandler,
		LayoutSvc:       deps.LayoutSvc,
		WidgetSvc:       deps.WidgetSvc,
	}
}

func (h *layoutHandlers) LayoutRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListLayouts)
	r.Post("/", h.CreateLayout)
	r.Get("/{layoutId}", h.GetLayout)
	r.Put("/{layoutId}", h.UpdateLayout)
	r.Delete("/{layoutId}", h.DeleteLayout)
	r.Put("/{layoutId}/default", h.SetLayoutDefault)
	r.Put("/{layoutId}/widgets/reorder", h.ReorderPlacements)
	r.Get("/{layoutId}/data", h.GetLayoutData)
	return r
}

// TableRoutes exposes the per-table layout listing, mounted under /tables.
func (h *layoutHandlers) TableRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{tableId}/layouts", h.ListLayoutsByTable)
	return r
}

func (h *layoutHandlers) ListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := h.LayoutSvc.ListAllLayouts(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layouts)
}

func (h *layoutHandlers) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	layout, err := h.LayoutSvc.CreateLayout(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, layout)
}

func (h *layoutHandlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "layoutId")
	layout, err := h.LayoutSvc.GetLayout(r.Context(), layoutID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layout)
}

func (h *layoutHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "layoutId")
	var req dto.UpdateLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	layout, err := h.LayoutSvc.UpdateLayout(r.Context(), layoutID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layout)
}

func (h *layoutHandlers) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "layoutId")
	if err := h.LayoutSvc.DeleteLayout(r.Context(), layoutID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *layoutHandlers) SetLayoutDefault(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "layoutId")
	layout, err := h.LayoutSvc.SetLayoutDefault(r.Context(), layoutID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layout)
}

func (h *layoutHandlers) ReorderPlacements(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "layoutId")
	var req dto.ReorderPlacementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	layout, err := h.LayoutSvc.ReorderPlacements(r.Context(), layoutID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layout)
}

func (h *layoutHandlers) GetLayoutData(w http.ResponseWriter, r *http.Request) {
	layoutID := chi.URLParam(r, "layoutId")
	data, err := h.WidgetSvc.GetLayoutData(r.Context(), layoutID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *layoutHandlers) ListLayoutsByTable(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "tableId")
	layouts, err := h.LayoutSvc.ListLayoutsByTable(r.Context(), tableID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layouts)
}
