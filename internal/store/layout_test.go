package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
)

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func seedLayout(t *testing.T, s *layoutStore, tableID string, isDefault bool) *models.Layout {
	t.Helper()
	l := &models.Layout{
		LayoutID:  uuid.New().String(),
		Name:      "layout-" + uuid.New().String()[:8],
		TableID:   tableID,
		TableName: "Deals",
		Widgets:   []models.WidgetPosition{},
		IsDefault: isDefault,
	}
	if err := s.Create(context.Background(), l); err != nil {
		t.Fatalf("seed layout error: %v", err)
	}
	return l
}

func TestLayoutDefaultCascadeWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewLayoutStore(client)
	tableID := "tbl-" + uuid.New().String()

	a := seedLayout(t, store, tableID, true)
	b := seedLayout(t, store, tableID, false)

	// Promoting B must demote A in the same transaction.
	promoted, err := store.SetDefault(ctx, b.LayoutID)
	if err != nil {
		t.Fatalf("set default error: %v", err)
	}
	if !promoted.IsDefault {
		t.Fatal("promoted layout should report isDefault")
	}

	layouts, err := store.ListByTable(ctx, tableID)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	defaults := 0
	for _, l := range layouts {
		if l.IsDefault {
			defaults++
			if l.LayoutID != b.LayoutID {
				t.Fatalf("wrong default: %s", l.LayoutID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly 1 default, got %d", defaults)
	}
	if layouts[0].LayoutID != b.LayoutID {
		t.Fatalf("default should list first, got %s", layouts[0].LayoutID)
	}

	demoted, err := store.Get(ctx, a.LayoutID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if demoted.IsDefault {
		t.Fatal("previous default should have been demoted")
	}
}

func TestLayoutCreateDefaultDemotesWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewLayoutStore(client)
	tableID := "tbl-" + uuid.New().String()

	a := seedLayout(t, store, tableID, true)
	b := seedLayout(t, store, tableID, true)

	got, err := store.Get(ctx, a.LayoutID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.IsDefault {
		t.Fatal("first default should have been demoted by the second create")
	}
	got, err = store.Get(ctx, b.LayoutID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !got.IsDefault {
		t.Fatal("second layout should be default")
	}
}

func TestLayoutDeleteDefaultPromotesWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewLayoutStore(client)
	tableID := "tbl-" + uuid.New().String()

	a := seedLayout(t, store, tableID, true)
	b := seedLayout(t, store, tableID, false)
	c := seedLayout(t, store, tableID, false)

	// Touch B so it is the most recently updated remaining layout.
	bCur, err := store.Get(ctx, b.LayoutID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	bCur.Description = "touched"
	if err := store.Update(ctx, bCur, false); err != nil {
		t.Fatalf("update error: %v", err)
	}

	if err := store.Delete(ctx, a.LayoutID); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	got, err := store.Get(ctx, b.LayoutID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !got.IsDefault {
		t.Fatal("most recently updated layout should have been promoted")
	}
	got, err = store.Get(ctx, c.LayoutID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.IsDefault {
		t.Fatal("older layout should not have been promoted")
	}
}

func TestLayoutDeleteLastWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewLayoutStore(client)
	tableID := "tbl-" + uuid.New().String()

	a := seedLayout(t, store, tableID, true)
	if err := store.Delete(ctx, a.LayoutID); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	layouts, err := store.ListByTable(ctx, tableID)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(layouts) != 0 {
		t.Fatalf("expected no layouts left, got %d", len(layouts))
	}
}

func TestLayoutGetNotFoundWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	store := NewLayoutStore(client)

	_, err := store.Get(context.Background(), "does-not-exist")
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}
