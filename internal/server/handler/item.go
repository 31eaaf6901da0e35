package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// ItemCatalog defines what the item handler needs from the read side. It is
// declared locally so the handler package does not depend on the concrete
// catalog implementation.
type ItemCatalog interface {
	ListItems(ctx context.Context) ([]domain.ItemWithBids, error)
	GetItem(ctx context.Context, id int64) (domain.ItemWithBids, error)
}

// ItemHandler serves item listing and lookup endpoints.
type ItemHandler struct {
	catalog ItemCatalog
	logger  *slog.Logger
}

// NewItemHandler creates an ItemHandler with the given catalog and logger.
func NewItemHandler(catalog ItemCatalog, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{catalog: catalog, logger: logger}
}

// ListItems returns all items in id order with their bid histories.
// GET /items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list items failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []domain.ItemWithBids{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItem returns a single item with its bid history.
// GET /items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "get item failed",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}
