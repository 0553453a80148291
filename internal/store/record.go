package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tablekit/tableboard-backend/internal/errs"
)

// recordStore reads table records for the widget data adapters. It is the
// read-only side of the record storage owned by the table engine; every
// failure surfaces as a DataUnavailableError so a broken source degrades a
// single widget, never a whole layout.
type recordStore struct {
	client *firestore.Client
}

func NewRecordStore(client *firestore.Client) *recordStore {
	return &recordStore{client: client}
}

func (s *recordStore) records(tableID string) *firestore.CollectionRef {
	return s.client.Collection("tables").Doc(tableID).Collection("records")
}

// GetTableRows returns every record of the table as a raw column map.
func (s *recordStore) GetTableRows(ctx context.Context, tableID string) ([]map[string]any, error) {
	it := s.records(tableID).Documents(ctx)
	defer it.Stop()

	var rows []map[string]any
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDataUnavailableError("failed to read records for table " + tableID)
		}
		rows = append(rows, doc.Data())
	}
	return rows, nil
}

// GetFieldValue returns the field's value from the most recently created
// record of the table. Missing field or empty table yields nil, which the
// field adapter formats as a placeholder.
func (s *recordStore) GetFieldValue(ctx context.Context, tableID, fieldID string) (any, error) {
	it := s.records(tableID).
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDataUnavailableError("failed to read field " + fieldID + " for table " + tableID)
	}
	return doc.Data()[fieldID], nil
}

// GetCategoricalCounts scans the table and counts records per distinct value
// of fieldID. Records without the field are not counted.
func (s *recordStore) GetCategoricalCounts(ctx context.Context, tableID, fieldID string) (map[string]int, error) {
	it := s.records(tableID).Documents(ctx)
	defer it.Stop()

	counts := make(map[string]int)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDataUnavailableError("failed to count field " + fieldID + " for table " + tableID)
		}
		v, ok := doc.Data()[fieldID]
		if !ok || v == nil {
			continue
		}
		counts[fmt.Sprintf("%v", v)]++
	}
	return counts, nil
}

// GetNumericValue returns the field's value from the most recently created
// record, coerced to float64. A non-numeric value is a data problem, not a
// widget configuration problem, so it maps to DataUnavailableError.
func (s *recordStore) GetNumericValue(ctx context.Context, tableID, fieldID string) (float64, error) {
	v, err := s.GetFieldValue(ctx, tableID, fieldID)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, errs.NewDataUnavailableError(fmt.Sprintf("field %s of table %s is not numeric", fieldID, tableID))
	}
}
