package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
)

const layoutCollection = "layouts"

type layoutStore struct {
	client *firestore.Client
}

func NewLayoutStore(client *firestore.Client) *layoutStore {
	return &layoutStore{client: client}
}

func (s *layoutStore) collection() *firestore.CollectionRef {
	return s.client.Collection(layoutCollection)
}

// defaultSiblingRefs collects the refs of default layouts for tableID,
// excluding excludeID. Must be called before any write in the transaction.
func (s *layoutStore) defaultSiblingRefs(tx *firestore.Transaction, tableID, excludeID string) ([]*firestore.DocumentRef, error) {
	q := s.collection().
		Where("tableId", "==", tableID).
		Where("isDefault", "==", true)
	it := tx.Documents(q)
	var refs []*firestore.DocumentRef
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if doc.Ref.ID != excludeID {
			refs = append(refs, doc.Ref)
		}
	}
	return refs, nil
}

// Create persists a new layout. When the layout is created as default, the
// unset-siblings step runs in the same transaction so two concurrent
// "create default" calls cannot both end up default.
func (s *layoutStore) Create(ctx context.Context, l *models.Layout) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var siblings []*firestore.DocumentRef
		if l.IsDefault {
			var err error
			siblings, err = s.defaultSiblingRefs(tx, l.TableID, l.LayoutID)
			if err != nil {
				return err
			}
		}
		for _, ref := range siblings {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "isDefault", Value: false},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		return tx.Set(s.collection().Doc(l.LayoutID), l)
	})
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create layout", err)
	}
	return nil
}

func (s *layoutStore) Get(ctx context.Context, layoutID string) (*models.Layout, error) {
	doc, err := s.collection().Doc(layoutID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("layout not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get layout", err)
	}
	var l models.Layout
	if err := doc.DataTo(&l); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse layout data", err)
	}
	return &l, nil
}

// Update writes the full layout back. With promoteDefault the sibling unset
// and the write are one transaction; both steps succeed or neither does.
func (s *layoutStore) Update(ctx context.Context, l *models.Layout, promoteDefault bool) error {
	l.UpdatedAt = time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var siblings []*firestore.DocumentRef
		if promoteDefault {
			var err error
			siblings, err = s.defaultSiblingRefs(tx, l.TableID, l.LayoutID)
			if err != nil {
				return err
			}
		}
		for _, ref := range siblings {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "isDefault", Value: false},
				{Path: "updatedAt", Value: l.UpdatedAt},
			}); err != nil {
				return err
			}
		}
		return tx.Set(s.collection().Doc(l.LayoutID), l)
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update layout", err)
	}
	return nil
}

// SetDefault promotes layoutID to the table's default.
func (s *layoutStore) SetDefault(ctx context.Context, layoutID string) (*models.Layout, error) {
	now := time.Now()
	var promoted models.Layout

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(layoutID)
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if err := doc.DataTo(&promoted); err != nil {
			return err
		}
		siblings, err := s.defaultSiblingRefs(tx, promoted.TableID, layoutID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if err := tx.Update(sib, []firestore.Update{
				{Path: "isDefault", Value: false},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		promoted.IsDefault = true
		promoted.UpdatedAt = now
		return tx.Set(ref, &promoted)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("layout not found")
		}
		return nil, errs.NewDatabaseError("update", "failed to set default layout", err)
	}
	return &promoted, nil
}

// Delete removes the layout. Deleting the table's default promotes the most
// recently updated remaining layout for that table, in the same transaction.
// Deleting the last layout of a table leaves the table with no default.
func (s *layoutStore) Delete(ctx context.Context, layoutID string) error {
	now := time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(layoutID)
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var l models.Layout
		if err := doc.DataTo(&l); err != nil {
			return err
		}

		var successor *firestore.DocumentRef
		if l.IsDefault {
			// Two results cover the case where the deleted layout itself is
			// among the most recently updated.
			q := s.collection().
				Where("tableId", "==", l.TableID).
				OrderBy("updatedAt", firestore.Desc).
				Limit(2)
			it := tx.Documents(q)
			for {
				d, err := it.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return err
				}
				if d.Ref.ID != layoutID && successor == nil {
					successor = d.Ref
				}
			}
		}

		if err := tx.Delete(ref); err != nil {
			return err
		}
		if successor != nil {
			return tx.Update(successor, []firestore.Update{
				{Path: "isDefault", Value: true},
				{Path: "updatedAt", Value: now},
			})
		}
		return nil
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("layout not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete layout", err)
	}
	return nil
}

// ListByTable returns the table's layouts, defaults first, then most
// recently updated within each bucket.
func (s *layoutStore) ListByTable(ctx context.Context, tableID string) ([]*models.Layout, error) {
	docs, err := s.collection().
		Where("tableId", "==", tableID).
		OrderBy("isDefault", firestore.Desc).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list layouts for table", err)
	}
	return layoutsFromDocs(docs)
}

func (s *layoutStore) ListAll(ctx context.Context) ([]*models.Layout, error) {
	docs, err := s.collection().
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list layouts", err)
	}
	return layoutsFromDocs(docs)
}

func layoutsFromDocs(docs []*firestore.DocumentSnapshot) ([]*models.Layout, error) {
	layouts := make([]*models.Layout, 0, len(docs))
	for _, d := range docs {
		var l models.Layout
		if err := d.DataTo(&l); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse layout data", err)
		}
		layouts = append(layouts, &l)
	}
	return layouts, nil
}
