package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cedarhall/gavelhouse/internal/contact"
	"github.com/cedarhall/gavelhouse/internal/domain"
)

// BidAdmitter is the admission engine surface the bid handler needs.
type BidAdmitter interface {
	PlaceBid(ctx context.Context, itemID int64, amount float64, contact string) (domain.BidReceipt, error)
}

// BidHandler accepts bid submissions. Request-level validation (amount,
// contact format) happens here, before the admission engine is reached;
// business rejections come back from the engine as typed errors and are
// mapped to status codes.
type BidHandler struct {
	engine BidAdmitter
	logger *slog.Logger
}

// NewBidHandler creates a BidHandler with the given engine and logger.
func NewBidHandler(engine BidAdmitter, logger *slog.Logger) *BidHandler {
	return &BidHandler{engine: engine, logger: logger}
}

// bidRequest is the submission body.
type bidRequest struct {
	Amount  float64 `json:"amount"`
	Contact string  `json:"contact"`
}

// PlaceBid validates and submits a bid on an item.
// POST /items/{id}/bid
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "bid amount must be positive")
		return
	}
	if !contact.Valid(req.Contact) {
		writeError(w, http.StatusBadRequest, "contact must be a valid email address or phone number")
		return
	}

	receipt, err := h.engine.PlaceBid(r.Context(), id, req.Amount, req.Contact)
	if err != nil {
		var tooLow *domain.BidTooLowError
		switch {
		case errors.Is(err, domain.ErrAuctionClosed):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		case errors.As(err, &tooLow):
			writeError(w, http.StatusBadRequest, tooLow.Error())
		default:
			h.logger.ErrorContext(r.Context(), "place bid failed",
				slog.Int64("item_id", id),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to place bid")
		}
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}
