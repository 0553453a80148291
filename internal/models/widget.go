package models

import "time"

// Widget is a reusable, typed unit of data presentation stored in Firestore.
type Widget struct {
	WidgetID    string         `firestore:"widgetId" json:"widgetId"`
	Name        string         `firestore:"name" json:"name"`
	Type        string         `firestore:"type" json:"type"` // "table","field","flow","progress"
	Description string         `firestore:"description,omitempty" json:"description,omitempty"`
	Collection  string         `firestore:"collection,omitempty" json:"collection,omitempty"`
	Settings    WidgetSettings `firestore:"settings" json:"settings"`
	CreatedAt   time.Time      `firestore:"createdAt" json:"createdAt"`
	CreatedBy   string         `firestore:"createdBy" json:"createdBy"`
}

// WidgetSettings holds the per-type settings arms. Exactly the arm matching
// Widget.Type is populated; the service layer enforces this at create/update
// so the adapters never see a mismatched shape.
type WidgetSettings struct {
	Table    *TableSettings    `firestore:"table,omitempty" json:"table,omitempty"`
	Field    *FieldSettings    `firestore:"field,omitempty" json:"field,omitempty"`
	Flow     *FlowSettings     `firestore:"flow,omitempty" json:"flow,omitempty"`
	Progress *ProgressSettings `firestore:"progress,omitempty" json:"progress,omitempty"`
}

// TableSettings configures a table widget: which fields to show and how.
type TableSettings struct {
	TableID     string       `firestore:"tableId" json:"tableId"`
	TableName   string       `firestore:"tableName" json:"tableName"`
	Fields      []TableField `firestore:"fields" json:"fields"`
	DefaultView string       `firestore:"defaultView,omitempty" json:"defaultView,omitempty"`
}

type TableField struct {
	FieldID   string `firestore:"fieldId" json:"fieldId"`
	FieldName string `firestore:"fieldName" json:"fieldName"`
	Position  string `firestore:"position" json:"position"` // numeric string, ascending
	ViewType  string `firestore:"viewType" json:"viewType"` // "condensed","detailed"
}

// FieldSettings configures a single-field widget.
type FieldSettings struct {
	TableID        string         `firestore:"tableId" json:"tableId"`
	FieldID        string         `firestore:"fieldId" json:"fieldId"`
	FieldName      string         `firestore:"fieldName" json:"fieldName"`
	DisplayOptions DisplayOptions `firestore:"displayOptions" json:"displayOptions"`
}

type DisplayOptions struct {
	ShowLabel     bool   `firestore:"showLabel" json:"showLabel"`
	LabelPosition string `firestore:"labelPosition,omitempty" json:"labelPosition,omitempty"` // "left","top"
	Emphasize     bool   `firestore:"emphasize" json:"emphasize"`
}

// FlowSettings configures a flow widget: the declared stages fix the visual
// vocabulary regardless of what values the underlying data drifts to.
type FlowSettings struct {
	TableID   string      `firestore:"tableId" json:"tableId"`
	FieldID   string      `firestore:"fieldId" json:"fieldId"`
	FieldName string      `firestore:"fieldName" json:"fieldName"`
	Stages    []FlowStage `firestore:"stages" json:"stages"`
}

type FlowStage struct {
	Value string `firestore:"value" json:"value"`
	Label string `firestore:"label" json:"label"`
	Color string `firestore:"color" json:"color"`
}

// ProgressSettings configures a progress widget over a bounded numeric field.
type ProgressSettings struct {
	TableID    string              `firestore:"tableId" json:"tableId"`
	FieldID    string              `firestore:"fieldId" json:"fieldId"`
	FieldName  string              `firestore:"fieldName" json:"fieldName"`
	MinValue   float64             `firestore:"minValue" json:"minValue"`
	MaxValue   float64             `firestore:"maxValue" json:"maxValue"`
	Thresholds []ProgressThreshold `firestore:"thresholds" json:"thresholds"`
}

type ProgressThreshold struct {
	Value float64 `firestore:"value" json:"value"`
	Color string  `firestore:"color" json:"color"`
}
