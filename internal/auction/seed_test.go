package auction

import (
	"context"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cedarhall/gavelhouse/internal/store/memory"
)

func TestSeedInsertsDefaultItems(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	seeder := NewSeeder(ledger, testLogger())

	n, err := seeder.Seed(ctx, DefaultItems)
	assert.Nil(t, err)
	check.Equal(t, len(DefaultItems), n)

	items, err := ledger.List(ctx)
	assert.Nil(t, err)
	assert.Equal(t, len(DefaultItems), len(items))
	for i, it := range items {
		check.Equal(t, DefaultItems[i].Name, it.Name)
		check.Equal(t, DefaultItems[i].StartingBid, it.StartingBid)
		check.Equal(t, it.StartingBid, it.CurrentBid)
	}
}

func TestSeedSkipsNonEmptyLedger(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	seeder := NewSeeder(ledger, testLogger())

	_, err := seeder.Seed(ctx, DefaultItems)
	assert.Nil(t, err)

	n, err := seeder.Seed(ctx, DefaultItems)
	assert.Nil(t, err)
	check.Equal(t, 0, n)

	count, err := ledger.Count(ctx)
	assert.Nil(t, err)
	check.Equal(t, int64(len(DefaultItems)), count)
}
