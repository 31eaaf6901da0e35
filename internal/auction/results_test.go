package auction

import (
	"context"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cedarhall/gavelhouse/internal/domain"
	"github.com/cedarhall/gavelhouse/internal/store/memory"
)

func TestCompileResults(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()

	err := ledger.InsertBatch(ctx, []domain.Item{
		{Name: "Quilt", StartingBid: 50.00},
		{Name: "Jersey", StartingBid: 70.00},
		{Name: "Spa Day", StartingBid: 90.00},
	})
	assert.Nil(t, err)

	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	items, err := ledger.List(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(items))

	// Two bids on the quilt, one on the jersey, none on the spa day.
	_, err = engine.PlaceBid(ctx, items[0].ID, 55.00, "alice@example.com")
	assert.Nil(t, err)
	_, err = engine.PlaceBid(ctx, items[0].ID, 60.00, "bob@example.com")
	assert.Nil(t, err)
	_, err = engine.PlaceBid(ctx, items[1].ID, 80.00, "carol@example.com")
	assert.Nil(t, err)

	compiler := NewCompiler(ledger, ledger)
	results, err := compiler.Compile(ctx)
	assert.Nil(t, err)

	check.Equal(t, int64(3), results.TotalItems)
	check.Equal(t, int64(2), results.ItemsWithBids)
	check.Equal(t, int64(1), results.ItemsWithoutBids)
	check.Equal(t, results.TotalItems, results.ItemsWithBids+results.ItemsWithoutBids)
	assert.Equal(t, 3, len(results.Items))

	quilt := results.Items[0]
	check.Equal(t, 2, quilt.TotalBids)
	assert.NotNil(t, quilt.Winner)
	check.Equal(t, 60.00, quilt.Winner.Amount)
	check.Equal(t, "bob@example.com", quilt.Winner.Contact)
	check.Equal(t, 60.00, quilt.CurrentBid)
	check.Equal(t, 50.00, quilt.StartingBid)
	// History is most recent first.
	check.Equal(t, 60.00, quilt.Bids[0].Amount)
	check.Equal(t, 55.00, quilt.Bids[1].Amount)

	jersey := results.Items[1]
	check.Equal(t, 1, jersey.TotalBids)
	assert.NotNil(t, jersey.Winner)
	check.Equal(t, "carol@example.com", jersey.Winner.Contact)

	spa := results.Items[2]
	check.Equal(t, 0, spa.TotalBids)
	check.Nil(t, spa.Winner)
	check.Equal(t, 90.00, spa.CurrentBid)
}

func TestCompileResultsEmptyLedger(t *testing.T) {
	ledger := memory.NewLedger()
	compiler := NewCompiler(ledger, ledger)

	results, err := compiler.Compile(context.Background())
	assert.Nil(t, err)
	check.Equal(t, int64(0), results.TotalItems)
	check.Equal(t, int64(0), results.ItemsWithBids)
	check.Equal(t, int64(0), results.ItemsWithoutBids)
	check.Equal(t, 0, len(results.Items))
}
