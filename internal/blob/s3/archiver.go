package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// ResultsSource compiles a point-in-time snapshot of the auction.
type ResultsSource interface {
	Compile(ctx context.Context) (domain.AuctionResults, error)
}

// Archiver writes auction results snapshots to blob storage for audit. It is
// triggered from the admin API; each snapshot gets a unique object key.
type Archiver struct {
	writer  domain.BlobWriter
	results ResultsSource
}

// NewArchiver creates an Archiver over the given writer and results source.
func NewArchiver(writer domain.BlobWriter, results ResultsSource) *Archiver {
	return &Archiver{writer: writer, results: results}
}

// Archive compiles the current results and uploads them as a JSON object.
// It returns the object key of the uploaded snapshot.
func (a *Archiver) Archive(ctx context.Context) (string, error) {
	results, err := a.results.Compile(ctx)
	if err != nil {
		return "", fmt.Errorf("s3blob: compile results: %w", err)
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("s3blob: marshal results: %w", err)
	}

	key := fmt.Sprintf("results/%s-%s.json",
		time.Now().UTC().Format("20060102T150405Z"),
		uuid.New().String()[:8],
	)

	if err := a.writer.Put(ctx, key, bytes.NewReader(payload), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}
