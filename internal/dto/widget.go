package dto

import (
	"time"

	"github.com/tablekit/tableboard-backend/internal/models"
)

// Widget type constants
const (
	WidgetTypeTable    = "table"
	WidgetTypeField    = "field"
	WidgetTypeFlow     = "flow"
	WidgetTypeProgress = "progress"
)

// Field view types (table widget columns)
const (
	ViewCondensed = "condensed"
	ViewDetailed  = "detailed"
)

// Label positions (field widget)
const (
	LabelLeft = "left"
	LabelTop  = "top"
)

// --- Request types ---

type CreateWidgetRequest struct {
	Name        string                `json:"name"`
	Type        string                `json:"type"`
	Description string                `json:"description"`
	Collection  string                `json:"collection"`
	Settings    models.WidgetSettings `json:"settings"`
}

type UpdateWidgetRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Collection  *string                `json:"collection,omitempty"`
	Settings    *models.WidgetSettings `json:"settings,omitempty"`
}

// --- Widget data response types ---

type WidgetDataResponse struct {
	WidgetID    string    `json:"widgetId"`
	Renderer    string    `json:"renderer"`
	Data        any       `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Table widget states: distinguishes an unconfigured widget from a table
// that simply has no rows yet.
const (
	TableStateOK       = "ok"
	TableStateNoFields = "noFields"
	TableStateNoData   = "noData"
)

// TableWidgetData is returned for table widgets. Rows are keyed by fieldId.
type TableWidgetData struct {
	State       string           `json:"state"`
	DefaultView string           `json:"defaultView,omitempty"`
	Columns     []TableColumn    `json:"columns"`
	Rows        []map[string]any `json:"rows"`
}

type TableColumn struct {
	FieldID   string `json:"fieldId"`
	FieldName string `json:"fieldName"`
	ViewType  string `json:"viewType"`
}

// FieldWidgetData is returned for field widgets. Display options pass
// through untouched; they affect rendering only.
type FieldWidgetData struct {
	FieldName      string                `json:"fieldName"`
	Value          string                `json:"value"`
	DisplayOptions models.DisplayOptions `json:"displayOptions"`
}

// FlowWidgetData is returned for flow widgets: one bucket per declared
// stage, in declaration order.
type FlowWidgetData struct {
	FieldName string          `json:"fieldName"`
	Total     int             `json:"total"`
	Stages    []FlowStageData `json:"stages"`
}

type FlowStageData struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// ProgressWidgetData is returned for progress widgets.
type ProgressWidgetData struct {
	FieldName  string           `json:"fieldName"`
	Value      float64          `json:"value"`
	Percentage float64          `json:"percentage"`
	Color      string           `json:"color"`
	Markers    []ProgressMarker `json:"markers"`
}

// ProgressMarker is a threshold projected onto the bar, only emitted for
// thresholds inside [minValue, maxValue].
type ProgressMarker struct {
	Value      float64 `json:"value"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}
