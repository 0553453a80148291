package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
	"github.com/tablekit/tableboard-backend/pkg/logger"
)

// layoutStore is the Firestore storage interface for layouts. The
// default-invariant cascade (unset siblings, set self) is transactional
// inside the store; the service passes promoteDefault to request it.
type layoutStore interface {
	Create(ctx context.Context, l *models.Layout) error
	Get(ctx context.Context, layoutID string) (*models.Layout, error)
	Update(ctx context.Context, l *models.Layout, promoteDefault bool) error
	SetDefault(ctx context.Context, layoutID string) (*models.Layout, error)
	Delete(ctx context.Context, layoutID string) error
	ListByTable(ctx context.Context, tableID string) ([]*models.Layout, error)
	ListAll(ctx context.Context) ([]*models.Layout, error)
}

type layoutService struct {
	store layoutStore
}

func NewLayoutService(store layoutStore) *layoutService {
	return &layoutService{store: store}
}

// --- Public service methods ---

func (s *layoutService) CreateLayout(ctx context.Context, req dto.CreateLayoutRequest) (*models.Layout, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if req.TableID == "" {
		return nil, errs.NewValidationError("tableId is required")
	}
	if req.TableName == "" {
		return nil, errs.NewValidationError("tableName is required")
	}
	widgets := req.Widgets
	if widgets == nil {
		widgets = []models.WidgetPosition{}
	}
	if err := normalizePlacements(widgets); err != nil {
		return nil, err
	}

	l := &models.Layout{
		LayoutID:    uuid.New().String(),
		Name:        req.Name,
		TableID:     req.TableID,
		TableName:   req.TableName,
		Description: req.Description,
		Widgets:     widgets,
		IsDefault:   req.IsDefault,
	}
	if err := s.store.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *layoutService) GetLayout(ctx context.Context, layoutID string) (*models.Layout, error) {
	return s.store.Get(ctx, layoutID)
}

// UpdateLayout applies a partial patch. A patch that sets isDefault = true
// triggers the sibling cascade in the store; a patch that leaves it absent
// or false never touches siblings, so a layout can be un-defaulted freely.
func (s *layoutService) UpdateLayout(ctx context.Context, layoutID string, req dto.UpdateLayoutRequest) (*models.Layout, error) {
	l, err := s.store.Get(ctx, layoutID)
	if err != nil {
		return nil, err
	}

	// A layout belongs to its table for life; moving it would leave the
	// default invariant of both tables undefined.
	if req.TableID != nil && *req.TableID != l.TableID {
		return nil, errs.NewValidationError("tableId of an existing layout cannot be changed")
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		l.Name = *req.Name
	}
	if req.TableName != nil {
		if *req.TableName == "" {
			return nil, errs.NewValidationError("tableName cannot be empty")
		}
		l.TableName = *req.TableName
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Widgets != nil {
		widgets := *req.Widgets
		if widgets == nil {
			widgets = []models.WidgetPosition{}
		}
		if err := normalizePlacements(widgets); err != nil {
			return nil, err
		}
		l.Widgets = widgets
	}

	promote := false
	if req.IsDefault != nil {
		l.IsDefault = *req.IsDefault
		promote = *req.IsDefault
	}

	if err := s.store.Update(ctx, l, promote); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *layoutService) SetLayoutDefault(ctx context.Context, layoutID string) (*models.Layout, error) {
	return s.store.SetDefault(ctx, layoutID)
}

func (s *layoutService) DeleteLayout(ctx context.Context, layoutID string) error {
	return s.store.Delete(ctx, layoutID)
}

// ListLayoutsByTable returns the table's layouts, defaults first, then by
// updatedAt descending. Should more than one default survive a storage
// anomaly, the first one in this ordering is treated as the table's default
// and the anomaly is logged instead of failing the read.
func (s *layoutService) ListLayoutsByTable(ctx context.Context, tableID string) ([]*models.Layout, error) {
	layouts, err := s.store.ListByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	defaults := 0
	for _, l := range layouts {
		if l.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		anomaly := errs.NewInvariantViolationError(tableID)
		logger.FromContext(ctx).Error("default layout invariant violated",
			"table_id", tableID,
			"default_count", defaults,
			"error", anomaly.Message)
	}
	return layouts, nil
}

func (s *layoutService) ListAllLayouts(ctx context.Context) ([]*models.Layout, error) {
	return s.store.ListAll(ctx)
}

// ReorderPlacements moves placements of one layout between sections and
// grid slots in a single write.
func (s *layoutService) ReorderPlacements(ctx context.Context, layoutID string, req dto.ReorderPlacementsRequest) (*models.Layout, error) {
	l, err := s.store.Get(ctx, layoutID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(l.Widgets))
	for i, wp := range l.Widgets {
		byID[wp.PositionID] = i
	}
	for _, item := range req.Placements {
		i, ok := byID[item.PositionID]
		if !ok {
			return nil, errs.NewValidationError("unknown placement: " + item.PositionID)
		}
		if !validSection(item.Section) {
			return nil, errs.NewValidationError("invalid section: " + item.Section)
		}
		if item.X < 0 || item.Y < 0 {
			return nil, errs.NewValidationError("placement coordinates must be non-negative")
		}
		l.Widgets[i].X = item.X
		l.Widgets[i].Y = item.Y
		l.Widgets[i].Section = item.Section
		if item.Position != nil {
			l.Widgets[i].Position = *item.Position
		}
	}

	if err := s.store.Update(ctx, l, false); err != nil {
		return nil, err
	}
	return l, nil
}

// --- Placement validation ---

func validSection(section string) bool {
	switch section {
	case dto.SectionHeader, dto.SectionLeft, dto.SectionMiddle, dto.SectionRight:
		return true
	}
	return false
}

// normalizePlacements validates placements in insertion order and fills the
// documented defaults (x/y 0, width/height 1, generated position ids). An
// out-of-enum section is rejected, never coerced.
func normalizePlacements(widgets []models.WidgetPosition) error {
	for i := range widgets {
		wp := &widgets[i]
		if wp.WidgetID == "" {
			return errs.NewValidationError("widgets[].widgetId is required")
		}
		if !validSection(wp.Section) {
			return errs.NewValidationError("invalid section: " + wp.Section)
		}
		if wp.X < 0 || wp.Y < 0 {
			return errs.NewValidationError("widgets[].x and y must be non-negative")
		}
		if wp.Width < 0 || wp.Height < 0 {
			return errs.NewValidationError("widgets[].width and height must be positive")
		}
		if wp.Width == 0 {
			wp.Width = 1
		}
		if wp.Height == 0 {
			wp.Height = 1
		}
		if wp.PositionID == "" {
			wp.PositionID = uuid.New().String()
		}
	}
	return nil
}
