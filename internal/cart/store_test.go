package cart

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/storage"
)

const testNamespace = "powercore"

func newTestStore(t *testing.T) (*Store, storage.KV) {
	t.Helper()
	kv := storage.NewMemory()
	return newStoreWith(t, kv), kv
}

func newStoreWith(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewStore(context.Background(), kv, testNamespace, logg)
}

func TestAddSameProductMergesQuantities(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, LineItem{ProductID: "p1", ProductName: "PowerCore 10K", UnitPrice: 100, Quantity: 2})
	store.AddItem(ctx, LineItem{ProductID: "p1", ProductName: "PowerCore 10K", UnitPrice: 100, Quantity: 3})

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddPreservesOrderAndAppendsNew(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, LineItem{ProductID: "a", UnitPrice: 10, Quantity: 1})
	store.AddItem(ctx, LineItem{ProductID: "b", UnitPrice: 20, Quantity: 1})
	store.AddItem(ctx, LineItem{ProductID: "a", UnitPrice: 10, Quantity: 1})
	store.AddItem(ctx, LineItem{ProductID: "c", UnitPrice: 30, Quantity: 1})

	items := store.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(items))
	}
	for i, want := range []string{"a", "b", "c"} {
		if items[i].ProductID != want {
			t.Fatalf("position %d: expected %s got %s", i, want, items[i].ProductID)
		}
	}
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -1} {
		store, _ := newTestStore(t)
		ctx := context.Background()

		store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 2})
		store.UpdateQuantity(ctx, "p1", qty)

		if got := store.Items(); len(got) != 0 {
			t.Fatalf("quantity %d should remove item, got %+v", qty, got)
		}
	}
}

func TestUpdateQuantityReplacesInPlace(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 2})
	store.UpdateQuantity(ctx, "p1", 7)

	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %+v", items)
	}
}

func TestRemoveAbsentProductIsNoop(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1})
	store.RemoveItem(ctx, "does-not-exist")

	if got := store.Items(); len(got) != 1 {
		t.Fatalf("expected item to survive, got %+v", got)
	}
}

func TestTotalsStayConsistentAcrossMutations(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, LineItem{ProductID: "a", UnitPrice: 100, Quantity: 2})
	store.AddItem(ctx, LineItem{ProductID: "b", UnitPrice: 50, Quantity: 1})

	totals := store.Totals()
	if totals.Items != 3 {
		t.Fatalf("expected 3 total items, got %d", totals.Items)
	}
	if !totals.Price.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected total 250, got %s", totals.Price)
	}

	store.RemoveItem(ctx, "a")
	totals = store.Totals()
	if totals.Items != 1 {
		t.Fatalf("expected 1 item after removal, got %d", totals.Items)
	}
	if !totals.Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected total 50, got %s", totals.Price)
	}

	store.UpdateQuantity(ctx, "b", 4)
	if totals = store.Totals(); !totals.Price.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected total 200, got %s", totals.Price)
	}

	store.Clear(ctx)
	totals = store.Totals()
	if totals.Items != 0 || !totals.Price.Equal(decimal.Zero) {
		t.Fatalf("expected empty totals, got %+v", totals)
	}
}

func TestDecimalTotalsAvoidFloatDrift(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	// 0.1 * 3 is the classic binary float trap.
	store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 0.1, Quantity: 3})

	if totals := store.Totals(); !totals.Price.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("expected exactly 0.3, got %s", totals.Price)
	}
}

func TestMutationsPersistAndReload(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	store := newStoreWith(t, kv)
	ctx := context.Background()

	store.AddItem(ctx, LineItem{ProductID: "p1", ProductName: "UPS 600", UnitPrice: 1500, Quantity: 1})

	reloaded := newStoreWith(t, kv)
	items := reloaded.Items()
	if len(items) != 1 || items[0].ProductName != "UPS 600" {
		t.Fatalf("expected persisted cart to reload, got %+v", items)
	}
}

func TestMalformedPersistedCartStartsEmptyAndClearsKey(t *testing.T) {
	t.Parallel()

	kv := storage.NewMemory()
	ctx := context.Background()
	key := storage.Key(testNamespace, RecordName)

	if err := kv.Set(ctx, key, []byte(`{"this is": "not a list"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := newStoreWith(t, kv)
	if got := store.Items(); len(got) != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
	if _, found, _ := kv.Get(ctx, key); found {
		t.Fatal("corrupted cart key should have been removed")
	}
}

func TestSubscribersNotifiedOnMutation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	var notified [][]LineItem
	cancel := store.Subscribe(func(items []LineItem) {
		notified = append(notified, items)
	})

	store.AddItem(ctx, LineItem{ProductID: "p1", UnitPrice: 10, Quantity: 1})
	if len(notified) != 1 || len(notified[0]) != 1 {
		t.Fatalf("expected one notification with one item, got %+v", notified)
	}

	cancel()
	store.Clear(ctx)
	if len(notified) != 1 {
		t.Fatal("cancelled subscriber must not receive further updates")
	}
}
