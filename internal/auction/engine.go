package auction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// DefaultMinIncrement is the minimum amount by which a new bid must exceed
// the current bid when no increment is configured.
const DefaultMinIncrement = 5.00

// busChannel is the signal-bus channel that accepted bids are mirrored to.
const busChannel = "auction:bids"

// Broadcaster receives one event per accepted bid, in commit order. A failing
// or absent broadcaster must never affect the admission outcome.
type Broadcaster interface {
	Broadcast(receipt domain.BidReceipt)
}

// Notifier forwards operator notifications for a named event type.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Engine is the bid admission core. It validates a proposed bid against the
// auction window and the item's committed price, records accepted bids
// atomically through the ledger, and only then fans the outcome out to the
// broadcast hub, the signal bus, and operator notifications.
//
// Per-item mutual exclusion is the ledger's contract (AdmitBid); the engine
// itself holds no locks, so bids on different items never contend here.
type Engine struct {
	ledger    domain.ItemLedger
	window    Window
	increment decimal.Decimal
	hub       Broadcaster
	bus       domain.SignalBus
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine creates an Engine over the given ledger and window. An increment
// of zero or less falls back to DefaultMinIncrement.
func NewEngine(ledger domain.ItemLedger, window Window, increment float64, logger *slog.Logger) *Engine {
	if increment <= 0 {
		increment = DefaultMinIncrement
	}
	return &Engine{
		ledger:    ledger,
		window:    window,
		increment: decimal.NewFromFloat(increment).Round(2),
		logger:    logger.With(slog.String("component", "admission")),
		now:       time.Now,
	}
}

// WithBroadcaster attaches the live-update hub. Returns the engine for chaining.
func (e *Engine) WithBroadcaster(hub Broadcaster) *Engine {
	e.hub = hub
	return e
}

// WithSignalBus attaches an event mirror for external consumers.
func (e *Engine) WithSignalBus(bus domain.SignalBus) *Engine {
	e.bus = bus
	return e
}

// WithNotifier attaches operator notifications.
func (e *Engine) WithNotifier(n Notifier) *Engine {
	e.notifier = n
	return e
}

// Window returns the engine's auction window.
func (e *Engine) Window() Window {
	return e.window
}

// MinIncrement returns the configured minimum increment.
func (e *Engine) MinIncrement() float64 {
	return e.increment.InexactFloat64()
}

// PlaceBid attempts to admit a bid on the given item. The decision and state
// transition are atomic with respect to every other concurrent PlaceBid on
// the same item: the ledger locks the single target item, the closure below
// validates against the price read under that lock, and the bid record plus
// price advance commit together or not at all.
//
// Rejections are returned as plain error values: domain.ErrAuctionClosed
// (checked before any lock is taken), domain.ErrNotFound, or a
// *domain.BidTooLowError carrying the exact minimum required. No rejection
// mutates any state.
func (e *Engine) PlaceBid(ctx context.Context, itemID int64, amount float64, contact string) (domain.BidReceipt, error) {
	if !e.window.Open(e.now()) {
		return domain.BidReceipt{}, domain.ErrAuctionClosed
	}

	offered := decimal.NewFromFloat(amount).Round(2)

	bid, item, err := e.ledger.AdmitBid(ctx, itemID, func(it domain.Item) (float64, error) {
		minRequired := decimal.NewFromFloat(it.CurrentBid).Add(e.increment).Round(2)
		if offered.LessThan(minRequired) {
			return 0, &domain.BidTooLowError{
				MinRequired: minRequired.InexactFloat64(),
				CurrentBid:  it.CurrentBid,
				Increment:   e.increment.InexactFloat64(),
			}
		}
		return offered.InexactFloat64(), nil
	}, contact)
	if err != nil {
		return domain.BidReceipt{}, err
	}

	receipt := domain.BidReceipt{
		ItemID:     item.ID,
		ItemName:   item.Name,
		CurrentBid: item.CurrentBid,
		BidID:      bid.ID,
	}

	e.logger.InfoContext(ctx, "bid accepted",
		slog.Int64("item_id", item.ID),
		slog.Int64("bid_id", bid.ID),
		slog.Float64("amount", item.CurrentBid),
	)

	// The bid is committed; everything below is fan-out and must not fail the
	// request or roll anything back.
	if e.hub != nil {
		e.hub.Broadcast(receipt)
	}
	e.mirror(ctx, receipt)
	e.notifyAccepted(receipt)

	return receipt, nil
}

// mirror publishes the receipt to the signal bus when one is configured.
// Errors are logged and swallowed.
func (e *Engine) mirror(ctx context.Context, receipt domain.BidReceipt) {
	if e.bus == nil {
		return
	}
	payload, err := receipt.MarshalEvent()
	if err != nil {
		return
	}
	if err := e.bus.Publish(ctx, busChannel, payload); err != nil {
		e.logger.WarnContext(ctx, "bid event mirror failed",
			slog.Int64("bid_id", receipt.BidID),
			slog.String("error", err.Error()),
		)
	}
}

// notifyAccepted dispatches an operator notification off the request path.
func (e *Engine) notifyAccepted(receipt domain.BidReceipt) {
	if e.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		title := fmt.Sprintf("New bid on %s", receipt.ItemName)
		msg := fmt.Sprintf("Item #%d is now at $%.2f (bid #%d).",
			receipt.ItemID, receipt.CurrentBid, receipt.BidID)
		if err := e.notifier.Notify(ctx, "bid_accepted", title, msg); err != nil {
			e.logger.Warn("bid notification failed",
				slog.Int64("bid_id", receipt.BidID),
				slog.String("error", err.Error()),
			)
		}
	}()
}
