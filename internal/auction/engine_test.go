package auction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cedarhall/gavelhouse/internal/domain"
	"github.com/cedarhall/gavelhouse/internal/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openWindow returns a window that is open right now.
func openWindow() Window {
	return NewWindow(time.Time{}, time.Now().Add(time.Hour))
}

// recordingBroadcaster collects receipts in the order Broadcast is called.
type recordingBroadcaster struct {
	mu       sync.Mutex
	receipts []domain.BidReceipt
}

func (b *recordingBroadcaster) Broadcast(receipt domain.BidReceipt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receipts = append(b.receipts, receipt)
}

func (b *recordingBroadcaster) all() []domain.BidReceipt {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.BidReceipt, len(b.receipts))
	copy(out, b.receipts)
	return out
}

// seedOne inserts a single item with the given starting bid and returns its id.
func seedOne(t *testing.T, ledger *memory.Ledger, startingBid float64) int64 {
	t.Helper()
	err := ledger.InsertBatch(context.Background(), []domain.Item{
		{Name: "Test Item", Description: "test", StartingBid: startingBid},
	})
	assert.Nil(t, err)
	items, err := ledger.List(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(items))
	return items[0].ID
}

func TestPlaceBidBelowMinimumRejected(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	_, err := engine.PlaceBid(ctx, id, 54.00, "alice@example.com")
	assert.NotNil(t, err)

	var tooLow *domain.BidTooLowError
	assert.True(t, errors.As(err, &tooLow))
	check.Equal(t, 55.00, tooLow.MinRequired)
	check.Equal(t, 50.00, tooLow.CurrentBid)
	check.Equal(t, 5.00, tooLow.Increment)
	check.Equal(t, "bid must be at least $55.00 (current bid $50.00 + $5.00 minimum increment)", err.Error())
}

func TestPlaceBidAtMinimumAccepted(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	receipt, err := engine.PlaceBid(ctx, id, 55.00, "alice@example.com")
	assert.Nil(t, err)
	check.Equal(t, id, receipt.ItemID)
	check.Equal(t, "Test Item", receipt.ItemName)
	check.Equal(t, 55.00, receipt.CurrentBid)
	check.True(t, receipt.BidID > 0)

	item, err := ledger.GetByID(ctx, id)
	assert.Nil(t, err)
	check.Equal(t, 55.00, item.CurrentBid)
	check.Equal(t, 50.00, item.StartingBid)
}

func TestRejectedBidLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	_, err := engine.PlaceBid(ctx, id, 51.00, "alice@example.com")
	assert.NotNil(t, err)

	item, err := ledger.GetByID(ctx, id)
	assert.Nil(t, err)
	check.Equal(t, 50.00, item.CurrentBid)

	bids, err := ledger.ListByItem(ctx, id)
	assert.Nil(t, err)
	check.Equal(t, 0, len(bids))
}

func TestPlaceBidClosedAuction(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)

	closed := NewWindow(time.Time{}, time.Now().Add(-time.Minute))
	engine := NewEngine(ledger, closed, 5.00, testLogger())

	_, err := engine.PlaceBid(ctx, id, 100.00, "alice@example.com")
	check.True(t, errors.Is(err, domain.ErrAuctionClosed))

	bids, err := ledger.ListByItem(ctx, id)
	assert.Nil(t, err)
	check.Equal(t, 0, len(bids))
}

func TestPlaceBidUnknownItem(t *testing.T) {
	ledger := memory.NewLedger()
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	_, err := engine.PlaceBid(context.Background(), 42, 100.00, "alice@example.com")
	check.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDefaultIncrementFallback(t *testing.T) {
	ledger := memory.NewLedger()
	engine := NewEngine(ledger, openWindow(), 0, testLogger())
	check.Equal(t, DefaultMinIncrement, engine.MinIncrement())
}

func TestBroadcastFollowsAcceptedBids(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)

	hub := &recordingBroadcaster{}
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger()).WithBroadcaster(hub)

	_, err := engine.PlaceBid(ctx, id, 55.00, "alice@example.com")
	assert.Nil(t, err)
	_, err = engine.PlaceBid(ctx, id, 57.00, "bob@example.com") // below 60 minimum
	assert.NotNil(t, err)
	_, err = engine.PlaceBid(ctx, id, 62.50, "bob@example.com")
	assert.Nil(t, err)

	receipts := hub.all()
	assert.Equal(t, 2, len(receipts))
	check.Equal(t, 55.00, receipts[0].CurrentBid)
	check.Equal(t, 62.50, receipts[1].CurrentBid)
}

func TestConcurrentBidsSameItem(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	amounts := []float64{60.00, 70.00}
	for i := range amounts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.PlaceBid(ctx, id, amounts[i], "alice@example.com")
		}(i)
	}
	wg.Wait()

	// The $70 bid always clears whichever price it observes; the $60 bid only
	// clears if it ran first. Either way the item ends at $70 and the history
	// matches the accepted count.
	check.Nil(t, errs[1])

	item, err := ledger.GetByID(ctx, id)
	assert.Nil(t, err)
	check.Equal(t, 70.00, item.CurrentBid)

	accepted := 0
	for _, e := range errs {
		if e == nil {
			accepted++
		}
	}
	bids, err := ledger.ListByItem(ctx, id)
	assert.Nil(t, err)
	check.Equal(t, accepted, len(bids))
}

func TestConcurrentBidsNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	id := seedOne(t, ledger, 50.00)
	engine := NewEngine(ledger, openWindow(), 5.00, testLogger())

	const bidders = 50
	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Distinct amounts; higher ones invalidate lower ones that arrive late.
			_, _ = engine.PlaceBid(ctx, id, 55.00+5.00*float64(i), "alice@example.com")
		}(i)
	}
	wg.Wait()

	item, err := ledger.GetByID(ctx, id)
	assert.Nil(t, err)

	bids, err := ledger.ListByItem(ctx, id)
	assert.Nil(t, err)
	assert.True(t, len(bids) > 0)

	// Most recent first; walking backwards the accepted amounts must be
	// strictly increasing by at least the increment, with no gaps lost.
	check.Equal(t, bids[0].Amount, item.CurrentBid)
	for i := len(bids) - 1; i > 0; i-- {
		older, newer := bids[i], bids[i-1]
		check.True(t, newer.Amount >= older.Amount+5.00)
	}

	// The highest submitted amount can never be rejected.
	check.Equal(t, 55.00+5.00*float64(bidders-1), item.CurrentBid)
}
