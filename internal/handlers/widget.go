package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/middleware"
	"github.com/tablekit/tableboard-backend/internal/models"
	"github.com/tablekit/tableboard-backend/internal/response"
)

type WidgetService interface {
	CreateWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest) (*models.Widget, error)
	GetWidget(ctx context.Context, widgetID string) (*models.Widget, error)
	ListWidgets(ctx context.Context) ([]*models.Widget, error)
	UpdateWidget(ctx context.Context, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error)
	DeleteWidget(ctx context.Context, widgetID string) error
	GetWidgetData(ctx context.Context, widgetID string) (dto.WidgetDataResponse, error)
	GetLayoutData(ctx context.Context, layoutID string) (dto.LayoutDataResponse, error)
}

type widgetHandlers struct {
	ResponseHandler response.ResponseHandler
	WidgetSvc       WidgetService
}

func NewWidgetHandlers(deps *Deps) *widgetHandlers {
	return &widgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		WidgetSvc:       deps.WidgetSvc,
	}
}

func (h *widgetHandlers) WidgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListWidgets)
	r.Post("/", h.CreateWidget)
	r.Get("/{widgetId}", h.GetWidget)
	r.Put("/{widgetId}", h.UpdateWidget)
	r.Delete("/{widgetId}", h.DeleteWidget)
	r.Get("/{widgetId}/data", h.GetWidgetData)
	return r
}

func (h *widgetHandlers) ListWidgets(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.WidgetSvc.ListWidgets(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widgets)
}

func (h *widgetHandlers) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.WidgetSvc.CreateWidget(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, widget)
}

func (h *widgetHandlers) GetWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	widget, err := h.WidgetSvc.GetWidget(r.Context(), widgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *widgetHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	widget, err := h.WidgetSvc.UpdateWidget(r.Context(), widgetID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *widgetHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	if err := h.WidgetSvc.DeleteWidget(r.Context(), widgetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *widgetHandlers) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	data, err := h.WidgetSvc.GetWidgetData(r.Context(), widgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

// GetWidgetTypes returns the hardcoded catalog of supported widget types.
func (h *widgetHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widgetTypeCatalog)
}

type widgetTypeEntry struct {
	Type            string         `json:"type"`
	Renderer        string         `json:"renderer"`
	SettingsOptions map[string]any `json:"settingsOptions"`
}

var widgetTypeCatalog = []widgetTypeEntry{
	{
		Type:     dto.WidgetTypeTable,
		Renderer: "TableWidget",
		SettingsOptions: map[string]any{
			"tableId":     "required",
			"fields":      "fieldId + fieldName + position + viewType (condensed|detailed)",
			"defaultView": "optional",
		},
	},
	{
		Type:     dto.WidgetTypeField,
		Renderer: "FieldWidget",
		SettingsOptions: map[string]any{
			"tableId":        "required",
			"fieldId":        "required",
			"displayOptions": "showLabel, labelPosition (left|top), emphasize",
		},
	},
	{
		Type:     dto.WidgetTypeFlow,
		Renderer: "FlowWidget",
		SettingsOptions: map[string]any{
			"tableId": "required",
			"fieldId": "required",
			"stages":  "value + label + color, declaration order is display order",
		},
	},
	{
		Type:     dto.WidgetTypeProgress,
		Renderer: "ProgressWidget",
		SettingsOptions: map[string]any{
			"tableId":    "required",
			"fieldId":    "required",
			"minValue":   "required, less than maxValue",
			"maxValue":   "required",
			"thresholds": "value + color, optional",
		},
	},
}
