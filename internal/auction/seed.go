package auction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// DefaultItems is the catalog inserted by the seed mode when the ledger is
// empty. Organizers typically replace these before the event.
var DefaultItems = []domain.Item{
	{Name: "Weekend Cabin Getaway", Description: "Two nights at a lakeside cabin for up to four guests, with canoe rental included.", StartingBid: 50.00},
	{Name: "Local Brewery Tour", Description: "Guided tasting tour for six at three neighborhood breweries.", StartingBid: 60.00},
	{Name: "Signed Team Jersey", Description: "Home jersey signed by the full current roster, with certificate of authenticity.", StartingBid: 70.00},
	{Name: "Gourmet Dinner for Two", Description: "Five-course chef's tasting menu with wine pairings.", StartingBid: 80.00},
	{Name: "Spa Day Package", Description: "Full-day pass with massage, facial, and lunch.", StartingBid: 90.00},
	{Name: "Portrait Photography Session", Description: "Two-hour on-location session with twenty edited photos.", StartingBid: 100.00},
	{Name: "Handmade Quilt", Description: "Queen-size patchwork quilt sewn by the volunteer guild.", StartingBid: 110.00},
	{Name: "Golf Foursome", Description: "Eighteen holes for four with carts at the country club.", StartingBid: 120.00},
	{Name: "Wine Cellar Starter", Description: "Twelve-bottle mixed case selected by a local sommelier.", StartingBid: 130.00},
	{Name: "Private Cooking Class", Description: "Hands-on pasta workshop for eight in your home.", StartingBid: 140.00},
}

// Seeder populates the item ledger before the event.
type Seeder struct {
	items  domain.ItemLedger
	logger *slog.Logger
}

// NewSeeder creates a Seeder over the given ledger.
func NewSeeder(items domain.ItemLedger, logger *slog.Logger) *Seeder {
	return &Seeder{
		items:  items,
		logger: logger.With(slog.String("component", "seeder")),
	}
}

// Seed inserts the given items only when the ledger is empty, so re-running
// the seed mode is harmless. It returns the number of items inserted.
func (s *Seeder) Seed(ctx context.Context, items []domain.Item) (int, error) {
	existing, err := s.items.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count items: %w", err)
	}
	if existing > 0 {
		s.logger.InfoContext(ctx, "ledger already seeded, skipping",
			slog.Int64("existing_items", existing),
		)
		return 0, nil
	}

	if err := s.items.InsertBatch(ctx, items); err != nil {
		return 0, fmt.Errorf("seed: insert items: %w", err)
	}

	s.logger.InfoContext(ctx, "seeded auction items", slog.Int("count", len(items)))
	return len(items), nil
}
