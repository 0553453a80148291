package services

import (
	"context"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
)

// Renderer identifiers handed to the UI layer alongside the adapter output.
const (
	RendererTable    = "TableWidget"
	RendererField    = "FieldWidget"
	RendererFlow     = "FlowWidget"
	RendererProgress = "ProgressWidget"
)

type adapterFunc func(ctx context.Context, src dataSource, w *models.Widget) (any, error)

type widgetRegistration struct {
	fetch    adapterFunc
	renderer string
}

// widgetRegistry maps widget type tags to their adapter/renderer pairing.
// Adding a widget kind is a new entry here, not an edit to a dispatch
// switch somewhere else.
var widgetRegistry = map[string]widgetRegistration{
	dto.WidgetTypeTable:    {fetch: fetchTableData, renderer: RendererTable},
	dto.WidgetTypeField:    {fetch: fetchFieldData, renderer: RendererField},
	dto.WidgetTypeFlow:     {fetch: fetchFlowData, renderer: RendererFlow},
	dto.WidgetTypeProgress: {fetch: fetchProgressData, renderer: RendererProgress},
}

// resolveWidgetType looks up the registration for a type tag. Any tag
// outside the registry yields an UnknownTypeError; the caller chooses
// between a placeholder and failing its own operation.
func resolveWidgetType(widgetType string) (widgetRegistration, error) {
	reg, ok := widgetRegistry[widgetType]
	if !ok {
		return widgetRegistration{}, errs.NewUnknownTypeError(widgetType)
	}
	return reg, nil
}
