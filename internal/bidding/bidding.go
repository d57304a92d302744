// Package bidding validates and admits bids against the current price and
// lifecycle state of a listing.
package bidding

import (
	"errors"
	"fmt"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/models"
	"auction-market/internal/store"
	"auction-market/utils"

	"github.com/shopspring/decimal"
)

// maxPlaceBidAttempts bounds how often a bid is re-validated after losing a
// price race to a concurrent bidder.
const maxPlaceBidAttempts = 3

// Engine implements bid admission.
type Engine struct {
	store     store.ListingStore
	clock     clock.Clock
	lifecycle *lifecycle.Engine
}

// NewEngine creates a bidding engine.
func NewEngine(st store.ListingStore, cl clock.Clock, lc *lifecycle.Engine) *Engine {
	return &Engine{store: st, clock: cl, lifecycle: lc}
}

// PlaceBid validates and records a bid for a listing.
//
// The price update is a compare-and-swap on the last observed current price:
// of any set of concurrent bidders, exactly one wins and the rest re-validate
// against the fresh price. Winning the swap is the acceptance point; the bid
// row is appended immediately after. Rejected bids leave all state unchanged.
func (e *Engine) PlaceBid(listingID, bidderID string, amount decimal.Decimal) (models.Bid, error) {
	if listingID == "" || bidderID == "" {
		return models.Bid{}, fmt.Errorf("bidding: %w - missing listingID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("bidding: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	var lastErr error
	for attempt := 0; attempt < maxPlaceBidAttempts; attempt++ {
		listing, err := e.store.GetListing(listingID)
		if err != nil {
			return models.Bid{}, fmt.Errorf("bidding: failed to load listing %s: %w", listingID, err)
		}

		// Reconcile first so a stale active row never admits a late bid.
		listing, err = e.lifecycle.Reconcile(listing)
		if err != nil {
			return models.Bid{}, fmt.Errorf("bidding: failed to reconcile listing %s: %w", listingID, err)
		}

		if err := e.validate(listing, bidderID, amount); err != nil {
			return models.Bid{}, err
		}

		if _, err := e.store.UpdateListingPrice(listingID, listing.CurrentPrice, amount); err != nil {
			if errors.Is(err, auctionerrors.ErrConflict) {
				// Lost the race; re-read and re-validate against the fresh price.
				lastErr = err
				continue
			}
			return models.Bid{}, fmt.Errorf("bidding: failed to update price for listing %s: %w", listingID, err)
		}

		bid := models.Bid{
			BidID:     utils.GenerateID(),
			ListingID: listingID,
			BidderID:  bidderID,
			Amount:    amount,
			CreatedAt: e.clock.Now(),
		}
		if err := e.store.InsertBid(bid); err != nil {
			// The price committed without its bid row; surface as a
			// consistency failure needing reconciliation, never as success.
			return models.Bid{}, fmt.Errorf("bidding: price committed but bid row missing for listing %s: %w", listingID, err)
		}

		utils.Info("bid accepted", map[string]any{
			"bid_id":     bid.BidID,
			"listing_id": listingID,
			"bidder_id":  bidderID,
			"amount":     amount.String(),
		})
		return bid, nil
	}

	return models.Bid{}, fmt.Errorf("bidding: lost price race %d times on listing %s: %w",
		maxPlaceBidAttempts, listingID, lastErr)
}

func (e *Engine) validate(listing models.Listing, bidderID string, amount decimal.Decimal) error {
	if listing.Status != models.StatusActive || listing.Expired(e.clock.Now()) {
		return fmt.Errorf("bidding: listing %s: %w", listing.ListingID, auctionerrors.ErrAuctionNotActive)
	}
	if bidderID == listing.SellerID {
		return fmt.Errorf("bidding: listing %s: %w", listing.ListingID, auctionerrors.ErrSelfBidNotAllowed)
	}
	if amount.LessThanOrEqual(listing.CurrentPrice) {
		return fmt.Errorf("bidding: %w - current price is %s", auctionerrors.ErrBidTooLow, listing.CurrentPrice)
	}
	return nil
}

// BidsForListing returns the bid history of a listing, highest amount first.
// A limit <= 0 returns every bid.
func (e *Engine) BidsForListing(listingID string, limit int) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("bidding: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}
	bids, err := e.store.ListBidsForListing(listingID, limit)
	if err != nil {
		return nil, fmt.Errorf("bidding: failed to list bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// BidsByBidder returns all bids a user has placed, newest first.
func (e *Engine) BidsByBidder(bidderID string) ([]models.Bid, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("bidding: %w - empty bidder ID", auctionerrors.ErrInvalidBid)
	}
	bids, err := e.store.ListBidsByBidder(bidderID)
	if err != nil {
		return nil, fmt.Errorf("bidding: failed to list bids for user %s: %w", bidderID, err)
	}
	return bids, nil
}
