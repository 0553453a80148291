package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
)

// Color used for a progress bar with no thresholds configured.
const defaultProgressColor = "#cccccc"

// --- Table adapter ---

// fetchTableData projects the table's rows onto the configured fields, in
// field-position order. "No fields configured" and "table has no rows" are
// distinct states; the renderer messages them differently.
func fetchTableData(ctx context.Context, src dataSource, w *models.Widget) (any, error) {
	st := w.Settings.Table
	if st == nil {
		return nil, errs.NewValidationError("table widget has no table settings")
	}

	if len(st.Fields) == 0 {
		return dto.TableWidgetData{
			State:       dto.TableStateNoFields,
			DefaultView: st.DefaultView,
			Columns:     []dto.TableColumn{},
			Rows:        []map[string]any{},
		}, nil
	}

	fields := make([]models.TableField, len(st.Fields))
	copy(fields, st.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fieldOrder(fields[i].Position) < fieldOrder(fields[j].Position)
	})

	columns := make([]dto.TableColumn, len(fields))
	for i, f := range fields {
		columns[i] = dto.TableColumn{FieldID: f.FieldID, FieldName: f.FieldName, ViewType: f.ViewType}
	}

	rows, err := src.GetTableRows(ctx, st.TableID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return dto.TableWidgetData{
			State:       dto.TableStateNoData,
			DefaultView: st.DefaultView,
			Columns:     columns,
			Rows:        []map[string]any{},
		}, nil
	}

	projected := make([]map[string]any, len(rows))
	for i, row := range rows {
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			out[f.FieldID] = lookupColumn(row, f.FieldID, f.FieldName)
		}
		projected[i] = out
	}

	return dto.TableWidgetData{
		State:       dto.TableStateOK,
		DefaultView: st.DefaultView,
		Columns:     columns,
		Rows:        projected,
	}, nil
}

// fieldOrder turns a position string into a sortable number. Positions that
// do not parse sort after every numeric one, keeping declaration order
// among themselves.
func fieldOrder(position string) float64 {
	n, err := strconv.ParseFloat(position, 64)
	if err != nil {
		return math.MaxFloat64
	}
	return n
}

// lookupColumn finds a row's value for a field: exact fieldId match first,
// then fieldName, then a case-insensitive pass over both.
func lookupColumn(row map[string]any, fieldID, fieldName string) any {
	if v, ok := row[fieldID]; ok {
		return v
	}
	if v, ok := row[fieldName]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, fieldID) || strings.EqualFold(k, fieldName) {
			return v
		}
	}
	return nil
}

// --- Field adapter ---

func fetchFieldData(ctx context.Context, src dataSource, w *models.Widget) (any, error) {
	st := w.Settings.Field
	if st == nil {
		return nil, errs.NewValidationError("field widget has no field settings")
	}

	v, err := src.GetFieldValue(ctx, st.TableID, st.FieldID)
	if err != nil {
		return nil, err
	}
	value := "-"
	if v != nil {
		value = fmt.Sprintf("%v", v)
	}
	return dto.FieldWidgetData{
		FieldName:      st.FieldName,
		Value:          value,
		DisplayOptions: st.DisplayOptions,
	}, nil
}

// --- Flow adapter ---

// fetchFlowData buckets categorical counts into the declared stages. The
// stage list is the contract: undeclared values in the data are ignored and
// declared stages missing from the data report zero.
func fetchFlowData(ctx context.Context, src dataSource, w *models.Widget) (any, error) {
	st := w.Settings.Flow
	if st == nil {
		return nil, errs.NewValidationError("flow widget has no flow settings")
	}

	counts, err := src.GetCategoricalCounts(ctx, st.TableID, st.FieldID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, stage := range st.Stages {
		total += counts[stage.Value]
	}

	stages := make([]dto.FlowStageData, len(st.Stages))
	for i, stage := range st.Stages {
		count := counts[stage.Value]
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(100 * float64(count) / float64(total)))
		}
		stages[i] = dto.FlowStageData{
			Value:      stage.Value,
			Label:      stage.Label,
			Color:      stage.Color,
			Count:      count,
			Percentage: percentage,
		}
	}

	return dto.FlowWidgetData{
		FieldName: st.FieldName,
		Total:     total,
		Stages:    stages,
	}, nil
}

// --- Progress adapter ---

func fetchProgressData(ctx context.Context, src dataSource, w *models.Widget) (any, error) {
	st := w.Settings.Progress
	if st == nil {
		return nil, errs.NewValidationError("progress widget has no progress settings")
	}
	if st.MaxValue == st.MinValue {
		return nil, errs.NewValidationError("progress widget minValue and maxValue are equal")
	}

	value, err := src.GetNumericValue(ctx, st.TableID, st.FieldID)
	if err != nil {
		return nil, err
	}

	span := st.MaxValue - st.MinValue
	percentage := clampPercent(100 * (value - st.MinValue) / span)

	var markers []dto.ProgressMarker
	for _, t := range st.Thresholds {
		if t.Value < st.MinValue || t.Value > st.MaxValue {
			continue
		}
		markers = append(markers, dto.ProgressMarker{
			Value:      t.Value,
			Color:      t.Color,
			Percentage: clampPercent(100 * (t.Value - st.MinValue) / span),
		})
	}

	return dto.ProgressWidgetData{
		FieldName:  st.FieldName,
		Value:      value,
		Percentage: percentage,
		Color:      thresholdColor(st.Thresholds, value),
		Markers:    markers,
	}, nil
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// thresholdColor picks the color of the greatest threshold at or below the
// value. With none at or below, the smallest threshold's color applies; an
// empty list falls back to the fixed default.
func thresholdColor(thresholds []models.ProgressThreshold, value float64) string {
	if len(thresholds) == 0 {
		return defaultProgressColor
	}
	best := -1
	lowest := 0
	for i, t := range thresholds {
		if t.Value <= value && (best == -1 || t.Value > thresholds[best].Value) {
			best = i
		}
		if t.Value < thresholds[lowest].Value {
			lowest = i
		}
	}
	if best == -1 {
		return thresholds[lowest].Color
	}
	return thresholds[best].Color
}
