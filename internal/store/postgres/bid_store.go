package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// BidStore implements domain.BidStore using PostgreSQL. Bids are written only
// through ItemStore.AdmitBid; this store is read-only.
type BidStore struct {
	pool *pgxpool.Pool
}

// NewBidStore creates a BidStore backed by the given connection pool.
func NewBidStore(pool *pgxpool.Pool) *BidStore {
	return &BidStore{pool: pool}
}

// ListByItem returns an item's bids, most recent first.
func (s *BidStore) ListByItem(ctx context.Context, itemID int64) ([]domain.Bid, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, item_id, amount, contact, created_at
		FROM bids WHERE item_id = $1 ORDER BY id DESC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list bids for item %d: %w", itemID, err)
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var b domain.Bid
		if err := rows.Scan(&b.ID, &b.ItemID, &b.Amount, &b.Contact, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list bids rows: %w", err)
	}
	return bids, nil
}

// Compile-time interface check.
var _ domain.BidStore = (*BidStore)(nil)
