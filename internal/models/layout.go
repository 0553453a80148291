package models

import "time"

// Layout is a named arrangement of widget placements scoped to one table.
// At most one layout per table carries IsDefault = true; the store enforces
// this inside a transaction.
type Layout struct {
	LayoutID    string           `firestore:"layoutId" json:"layoutId"`
	Name        string           `firestore:"name" json:"name"`
	TableID     string           `firestore:"tableId" json:"tableId"`
	TableName   string           `firestore:"tableName" json:"tableName"`
	Description string           `firestore:"description,omitempty" json:"description,omitempty"`
	Widgets     []WidgetPosition `firestore:"widgets" json:"widgets"`
	IsDefault   bool             `firestore:"isDefault" json:"isDefault"`
	CreatedAt   time.Time        `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time        `firestore:"updatedAt" json:"updatedAt"`
}

// WidgetPosition places one widget inside a layout. WidgetID is a weak
// reference; deleting a widget leaves placements behind and the data
// resolution path reports "widget not found" for them.
type WidgetPosition struct {
	PositionID string `firestore:"positionId" json:"positionId"`
	WidgetID   string `firestore:"widgetId" json:"widgetId"`
	X          int    `firestore:"x" json:"x"`
	Y          int    `firestore:"y" json:"y"`
	Width      int    `firestore:"width" json:"width"`
	Height     int    `firestore:"height" json:"height"`
	Section    string `firestore:"section" json:"section"` // "header","left","middle","right"
	Position   string `firestore:"position,omitempty" json:"position,omitempty"`
}
