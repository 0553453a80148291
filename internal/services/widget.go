package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
	"github.com/tablekit/tableboard-backend/pkg/logger"
)

// widgetStore is the Firestore storage interface for widgets.
type widgetStore interface {
	Create(ctx context.Context, w *models.Widget) error
	Get(ctx context.Context, widgetID string) (*models.Widget, error)
	List(ctx context.Context) ([]*models.Widget, error)
	Update(ctx context.Context, w *models.Widget) error
	Delete(ctx context.Context, widgetID string) error
}

// layoutGetter is the slice of the layout store the widget service needs
// for resolving a whole layout's data.
type layoutGetter interface {
	Get(ctx context.Context, layoutID string) (*models.Layout, error)
}

// dataSource is the read-only record provider the adapters pull from.
type dataSource interface {
	GetTableRows(ctx context.Context, tableID string) ([]map[string]any, error)
	GetFieldValue(ctx context.Context, tableID, fieldID string) (any, error)
	GetCategoricalCounts(ctx context.Context, tableID, fieldID string) (map[string]int, error)
	GetNumericValue(ctx context.Context, tableID, fieldID string) (float64, error)
}

type widgetService struct {
	store   widgetStore
	layouts layoutGetter
	source  dataSource
}

func NewWidgetService(store widgetStore, layouts layoutGetter, source dataSource) *widgetService {
	return &widgetService{store: store, layouts: layouts, source: source}
}

// --- Public service methods ---

func (s *widgetService) CreateWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest) (*models.Widget, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if _, err := resolveWidgetType(req.Type); err != nil {
		// At creation time an unknown type is invalid input, not a
		// render-time fallback case.
		return nil, errs.NewValidationError("unknown widget type: " + req.Type)
	}
	if err := validateSettings(req.Type, req.Settings); err != nil {
		return nil, err
	}

	w := &models.Widget{
		WidgetID:    uuid.New().String(),
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Collection:  req.Collection,
		Settings:    req.Settings,
		CreatedAt:   time.Now(),
		CreatedBy:   uid,
	}
	if err := s.store.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *widgetService) GetWidget(ctx context.Context, widgetID string) (*models.Widget, error) {
	return s.store.Get(ctx, widgetID)
}

func (s *widgetService) ListWidgets(ctx context.Context) ([]*models.Widget, error) {
	return s.store.List(ctx)
}

// UpdateWidget patches name, description, collection, and settings. The
// type tag is fixed at creation; new settings are validated against it.
func (s *widgetService) UpdateWidget(ctx context.Context, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error) {
	w, err := s.store.Get(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		w.Name = *req.Name
	}
	if req.Description != nil {
		w.Description = *req.Description
	}
	if req.Collection != nil {
		w.Collection = *req.Collection
	}
	if req.Settings != nil {
		if err := validateSettings(w.Type, *req.Settings); err != nil {
			return nil, err
		}
		w.Settings = *req.Settings
	}
	if err := s.store.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *widgetService) DeleteWidget(ctx context.Context, widgetID string) error {
	return s.store.Delete(ctx, widgetID)
}

// GetWidgetData resolves one widget through the factory and runs its
// adapter against the record source.
func (s *widgetService) GetWidgetData(ctx context.Context, widgetID string) (dto.WidgetDataResponse, error) {
	w, err := s.store.Get(ctx, widgetID)
	if err != nil {
		return dto.WidgetDataResponse{}, err
	}
	reg, err := resolveWidgetType(w.Type)
	if err != nil {
		return dto.WidgetDataResponse{}, err
	}
	data, err := reg.fetch(ctx, s.source, w)
	if err != nil {
		return dto.WidgetDataResponse{}, err
	}
	return dto.WidgetDataResponse{
		WidgetID:    widgetID,
		Renderer:    reg.renderer,
		Data:        data,
		LastUpdated: time.Now(),
	}, nil
}

// GetLayoutData resolves every placement of a layout. Failures are scoped
// to their placement: a dangling widget reference, an unknown type tag, or
// an unavailable data source marks that one result and the rest of the
// layout still resolves.
func (s *widgetService) GetLayoutData(ctx context.Context, layoutID string) (dto.LayoutDataResponse, error) {
	l, err := s.layouts.Get(ctx, layoutID)
	if err != nil {
		return dto.LayoutDataResponse{}, err
	}

	results := make([]dto.WidgetRenderResult, 0, len(l.Widgets))
	for _, wp := range l.Widgets {
		results = append(results, s.resolvePlacement(ctx, wp))
	}
	return dto.LayoutDataResponse{LayoutID: l.LayoutID, Widgets: results}, nil
}

func (s *widgetService) resolvePlacement(ctx context.Context, wp models.WidgetPosition) dto.WidgetRenderResult {
	log := logger.FromContext(ctx)
	result := dto.WidgetRenderResult{PositionID: wp.PositionID, WidgetID: wp.WidgetID}

	w, err := s.store.Get(ctx, wp.WidgetID)
	if err != nil {
		var nfe *errs.NotFoundError
		if errors.As(err, &nfe) {
			result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorNotFound, Message: nfe.Message}
		} else {
			log.Error("failed to load widget for placement", "widget_id", wp.WidgetID, "error", err)
			result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorDataUnavailable, Message: "failed to load widget"}
		}
		return result
	}

	reg, err := resolveWidgetType(w.Type)
	if err != nil {
		var ute *errs.UnknownTypeError
		if errors.As(err, &ute) {
			log.Warn("placement references widget of unknown type", "widget_id", w.WidgetID, "type", ute.Type)
			result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorUnknownType, Message: ute.Message}
			return result
		}
		result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorDataUnavailable, Message: err.Error()}
		return result
	}
	result.Renderer = reg.renderer

	data, err := reg.fetch(ctx, s.source, w)
	if err != nil {
		var due *errs.DataUnavailableError
		var ve *errs.ValidationError
		switch {
		case errors.As(err, &due):
			log.Warn("widget data source unavailable", "widget_id", w.WidgetID, "error", due.Message)
			result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorDataUnavailable, Message: due.Message}
		case errors.As(err, &ve):
			result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorInvalidSettings, Message: ve.Message}
		default:
			log.Error("widget data fetch failed", "widget_id", w.WidgetID, "error", err)
			result.Error = &dto.WidgetDataError{Code: dto.WidgetErrorDataUnavailable, Message: "failed to fetch widget data"}
		}
		return result
	}

	result.Data = data
	return result
}

// --- Per-type settings validation ---

// validateSettings enforces that exactly the settings arm matching the
// widget type is populated and well-formed. Adapters can then trust their
// own arm without re-checking shapes.
func validateSettings(widgetType string, settings models.WidgetSettings) error {
	if err := validateSingleArm(widgetType, settings); err != nil {
		return err
	}
	switch widgetType {
	case dto.WidgetTypeTable:
		return validateTableSettings(settings.Table)
	case dto.WidgetTypeField:
		return validateFieldSettings(settings.Field)
	case dto.WidgetTypeFlow:
		return validateFlowSettings(settings.Flow)
	case dto.WidgetTypeProgress:
		return validateProgressSettings(settings.Progress)
	}
	return errs.NewValidationError("unknown widget type: " + widgetType)
}

func validateSingleArm(widgetType string, settings models.WidgetSettings) error {
	arms := map[string]bool{
		dto.WidgetTypeTable:    settings.Table != nil,
		dto.WidgetTypeField:    settings.Field != nil,
		dto.WidgetTypeFlow:     settings.Flow != nil,
		dto.WidgetTypeProgress: settings.Progress != nil,
	}
	if !arms[widgetType] {
		return errs.NewValidationError("settings." + widgetType + " is required for a " + widgetType + " widget")
	}
	for arm, set := range arms {
		if set && arm != widgetType {
			return errs.NewValidationError("settings." + arm + " is not valid for a " + widgetType + " widget")
		}
	}
	return nil
}

func validateTableSettings(st *models.TableSettings) error {
	if st.TableID == "" {
		return errs.NewValidationError("settings.table.tableId is required")
	}
	for i := range st.Fields {
		f := &st.Fields[i]
		if f.FieldID == "" {
			return errs.NewValidationError("settings.table.fields[].fieldId is required")
		}
		switch f.ViewType {
		case dto.ViewCondensed, dto.ViewDetailed:
		case "":
			f.ViewType = dto.ViewCondensed
		default:
			return errs.NewValidationError("settings.table.fields[].viewType must be condensed or detailed")
		}
	}
	return nil
}

func validateFieldSettings(st *models.FieldSettings) error {
	if st.TableID == "" || st.FieldID == "" {
		return errs.NewValidationError("settings.field.tableId and fieldId are required")
	}
	switch st.DisplayOptions.LabelPosition {
	case dto.LabelLeft, dto.LabelTop:
	case "":
		st.DisplayOptions.LabelPosition = dto.LabelLeft
	default:
		return errs.NewValidationError("settings.field.displayOptions.labelPosition must be left or top")
	}
	return nil
}

func validateFlowSettings(st *models.FlowSettings) error {
	if st.TableID == "" || st.FieldID == "" {
		return errs.NewValidationError("settings.flow.tableId and fieldId are required")
	}
	for _, stage := range st.Stages {
		if stage.Value == "" {
			return errs.NewValidationError("settings.flow.stages[].value is required")
		}
	}
	return nil
}

func validateProgressSettings(st *models.ProgressSettings) error {
	if st.TableID == "" || st.FieldID == "" {
		return errs.NewValidationError("settings.progress.tableId and fieldId are required")
	}
	if st.MaxValue <= st.MinValue {
		return errs.NewValidationError("settings.progress.maxValue must be greater than minValue")
	}
	return nil
}
