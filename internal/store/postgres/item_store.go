package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// ItemStore implements domain.ItemLedger using PostgreSQL. AdmitBid relies on
// row-level locking so that concurrent admissions on the same item serialize
// while admissions on different items proceed independently.
type ItemStore struct {
	pool *pgxpool.Pool
}

// NewItemStore creates an ItemStore backed by the given connection pool.
func NewItemStore(pool *pgxpool.Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

const itemCols = `id, name, description, starting_bid, current_bid, image_url`

func scanItem(row pgx.Row) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.StartingBid, &it.CurrentBid, &it.ImageURL)
	return it, err
}

// List returns every item in stable id order.
func (s *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+itemCols+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list items rows: %w", err)
	}
	return items, nil
}

// GetByID retrieves an item by its primary key.
func (s *ItemStore) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	it, err := scanItem(s.pool.QueryRow(ctx,
		`SELECT `+itemCols+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, fmt.Errorf("postgres: get item %d: %w", id, err)
	}
	return it, nil
}

// Count returns the total number of items.
func (s *ItemStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count items: %w", err)
	}
	return count, nil
}

// InsertBatch inserts items for seeding, initializing current_bid to the
// starting bid.
func (s *ItemStore) InsertBatch(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO items (name, description, starting_bid, current_bid, image_url)
		VALUES ($1, $2, $3, $3, $4)`
	for _, it := range items {
		batch.Queue(query, it.Name, it.Description, it.StartingBid, it.ImageURL)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert item batch entry %d: %w", i, err)
		}
	}
	return nil
}

// AdmitBid runs the admission decision with the target item row exclusively
// locked. The SELECT ... FOR UPDATE blocks any concurrent AdmitBid on the same
// item until this transaction commits or rolls back, so decide always sees the
// latest committed price and no two admissions can both succeed against a
// stale one. A decide rejection rolls the transaction back untouched.
func (s *ItemStore) AdmitBid(ctx context.Context, itemID int64, decide domain.AdmitFunc, contact string) (domain.Bid, domain.Item, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Bid{}, domain.Item{}, fmt.Errorf("postgres: begin admit tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	it, err := scanItem(tx.QueryRow(ctx,
		`SELECT `+itemCols+` FROM items WHERE id = $1 FOR UPDATE`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bid{}, domain.Item{}, domain.ErrNotFound
		}
		return domain.Bid{}, domain.Item{}, fmt.Errorf("postgres: lock item %d: %w", itemID, err)
	}

	amount, err := decide(it)
	if err != nil {
		return domain.Bid{}, domain.Item{}, err
	}

	bid := domain.Bid{ItemID: itemID, Amount: amount, Contact: contact}
	err = tx.QueryRow(ctx, `
		INSERT INTO bids (item_id, amount, contact)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		itemID, amount, contact,
	).Scan(&bid.ID, &bid.CreatedAt)
	if err != nil {
		return domain.Bid{}, domain.Item{}, fmt.Errorf("postgres: insert bid for item %d: %w", itemID, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE items SET current_bid = $1 WHERE id = $2`, amount, itemID); err != nil {
		return domain.Bid{}, domain.Item{}, fmt.Errorf("postgres: advance price for item %d: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Bid{}, domain.Item{}, fmt.Errorf("postgres: commit admit tx for item %d: %w", itemID, err)
	}

	it.CurrentBid = amount
	return bid, it, nil
}

// Compile-time interface check.
var _ domain.ItemLedger = (*ItemStore)(nil)
