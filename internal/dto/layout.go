package dto

import "github.com/tablekit/tableboard-backend/internal/models"

// Section constants (closed enum for WidgetPosition.Section)
const (
	SectionHeader = "header"
	SectionLeft   = "left"
	SectionMiddle = "middle"
	SectionRight  = "right"
)

// --- Request types ---

type CreateLayoutRequest struct {
	Name        string                  `json:"name"`
	TableID     string                  `json:"tableId"`
	TableName   string                  `json:"tableName"`
	Description string                  `json:"description"`
	Widgets     []models.WidgetPosition `json:"widgets"`
	IsDefault   bool                    `json:"isDefault"`
}

// UpdateLayoutRequest is a partial patch; nil fields are left untouched.
// TableID is accepted only when it matches the stored value — a layout
// cannot move to another table.
type UpdateLayoutRequest struct {
	Name        *string                  `json:"name,omitempty"`
	TableID     *string                  `json:"tableId,omitempty"`
	TableName   *string                  `json:"tableName,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Widgets     *[]models.WidgetPosition `json:"widgets,omitempty"`
	IsDefault   *bool                    `json:"isDefault,omitempty"`
}

type ReorderPlacementItem struct {
	PositionID string  `json:"positionId"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Section    string  `json:"section"`
	Position   *string `json:"position,omitempty"`
}

type ReorderPlacementsRequest struct {
	Placements []ReorderPlacementItem `json:"placements"`
}

// --- Layout data resolution ---

// Widget-level error codes surfaced per placement when resolving a layout.
// One placement failing never fails the rest of the layout.
const (
	WidgetErrorNotFound        = "widget_not_found"
	WidgetErrorUnknownType     = "unknown_type"
	WidgetErrorDataUnavailable = "data_unavailable"
	WidgetErrorInvalidSettings = "invalid_settings"
)

type LayoutDataResponse struct {
	LayoutID string               `json:"layoutId"`
	Widgets  []WidgetRenderResult `json:"widgets"`
}

type WidgetRenderResult struct {
	PositionID string           `json:"positionId"`
	WidgetID   string           `json:"widgetId"`
	Renderer   string           `json:"renderer,omitempty"`
	Data       any              `json:"data,omitempty"`
	Error      *WidgetDataError `json:"error,omitempty"`
}

type WidgetDataError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
