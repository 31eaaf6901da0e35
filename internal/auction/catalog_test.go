package auction

import (
	"context"
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cedarhall/gavelhouse/internal/domain"
	"github.com/cedarhall/gavelhouse/internal/store/memory"
)

func TestCatalogListItems(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()

	err := ledger.InsertBatch(ctx, []domain.Item{
		{Name: "Quilt", StartingBid: 50.00},
		{Name: "Jersey", StartingBid: 70.00},
	})
	assert.Nil(t, err)

	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())
	_, err = engine.PlaceBid(ctx, 1, 55.00, "alice@example.com")
	assert.Nil(t, err)
	_, err = engine.PlaceBid(ctx, 1, 60.00, "bob@example.com")
	assert.Nil(t, err)

	catalog := NewCatalog(ledger, ledger)
	items, err := catalog.ListItems(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(items))

	check.Equal(t, "Quilt", items[0].Name)
	check.Equal(t, 60.00, items[0].CurrentBid)
	assert.Equal(t, 2, len(items[0].Bids))
	check.Equal(t, 60.00, items[0].Bids[0].Amount)
	check.Equal(t, 55.00, items[0].Bids[1].Amount)

	check.Equal(t, "Jersey", items[1].Name)
	check.Equal(t, 0, len(items[1].Bids))
}

func TestCatalogGetItemNotFound(t *testing.T) {
	catalog := NewCatalog(memory.NewLedger(), memory.NewLedger())
	_, err := catalog.GetItem(context.Background(), 99)
	check.True(t, errors.Is(err, domain.ErrNotFound))
}
