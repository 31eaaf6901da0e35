package handler

import (
	"net/http"
	"time"

	"github.com/cedarhall/gavelhouse/internal/auction"
)

// AuctionHandler serves auction-wide state.
type AuctionHandler struct {
	window auction.Window
	now    func() time.Time
}

// NewAuctionHandler creates an AuctionHandler for the given window.
func NewAuctionHandler(window auction.Window) *AuctionHandler {
	return &AuctionHandler{window: window, now: time.Now}
}

// Status reports whether bidding is open and when the auction ends.
// GET /auction/status
func (h *AuctionHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"is_open": h.window.Open(h.now()),
		"ends_at": h.window.End().Format(time.RFC3339),
	})
}
