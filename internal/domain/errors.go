package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAuctionClosed = errors.New("the auction is not open")
	ErrUnauthorized  = errors.New("unauthorized")
)

// BidTooLowError rejects a bid whose amount does not clear the current bid
// plus the minimum increment. It carries all three values so the client can
// react without a second round trip.
type BidTooLowError struct {
	MinRequired float64
	CurrentBid  float64
	Increment   float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf(
		"bid must be at least $%.2f (current bid $%.2f + $%.2f minimum increment)",
		e.MinRequired, e.CurrentBid, e.Increment,
	)
}
