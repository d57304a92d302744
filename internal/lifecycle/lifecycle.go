// Package lifecycle owns the auction state machine: a listing moves
// active -> ended -> sold, with cancelled reachable only from active.
// Status transitions are conditional store writes, so any number of
// concurrent observers apply each transition exactly once.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/clock"
	"auction-market/internal/models"
	"auction-market/internal/store"
	"auction-market/utils"

	"github.com/shopspring/decimal"
)

// Engine evaluates and applies listing lifecycle transitions.
type Engine struct {
	store store.ListingStore
	clock clock.Clock
}

// NewEngine creates a lifecycle engine on top of the given store and clock.
func NewEngine(st store.ListingStore, cl clock.Clock) *Engine {
	return &Engine{store: st, clock: cl}
}

// ListingDraft holds the seller-supplied fields of a new listing.
type ListingDraft struct {
	SellerID      string
	Title         string
	Description   string
	StartingPrice decimal.Decimal
	EndTime       time.Time
	ImageURL      string
}

// CreateListing validates a draft and stores it as an active listing with
// current price equal to the starting price.
func (e *Engine) CreateListing(draft ListingDraft) (models.Listing, error) {
	if draft.SellerID == "" || strings.TrimSpace(draft.Title) == "" {
		return models.Listing{}, fmt.Errorf("lifecycle: %w - missing seller or title", auctionerrors.ErrInvalidListing)
	}
	if draft.StartingPrice.IsNegative() {
		return models.Listing{}, fmt.Errorf("lifecycle: %w - negative starting price", auctionerrors.ErrInvalidListing)
	}

	now := e.clock.Now()
	if !draft.EndTime.After(now) {
		return models.Listing{}, fmt.Errorf("lifecycle: %w - end time must be in the future", auctionerrors.ErrInvalidListing)
	}

	listing := models.Listing{
		ListingID:     utils.GenerateID(),
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		SellerID:      draft.SellerID,
		StartingPrice: draft.StartingPrice,
		CurrentPrice:  draft.StartingPrice,
		EndTime:       draft.EndTime.UTC(),
		Status:        models.StatusActive,
		CreatedAt:     now,
		ImageURL:      draft.ImageURL,
	}

	if err := e.store.InsertListing(listing); err != nil {
		return models.Listing{}, fmt.Errorf("lifecycle: failed to store listing: %w", err)
	}
	return listing, nil
}

// Reconcile compares an observed listing against the clock and applies the
// active -> ended transition if the end time has passed. The store write is
// conditional on the status still being active; a caller that loses the race
// reads back the already-updated row. Safe to call from any observer at any
// time.
func (e *Engine) Reconcile(listing models.Listing) (models.Listing, error) {
	if listing.Status != models.StatusActive {
		return listing, nil
	}
	if !listing.Expired(e.clock.Now()) {
		return listing, nil
	}

	updated, err := e.store.UpdateListingStatus(listing.ListingID, models.StatusActive, models.StatusEnded)
	if err == nil {
		utils.Info("auction ended", map[string]any{
			"listing_id": listing.ListingID,
			"end_time":   listing.EndTime,
		})
		return updated, nil
	}
	if errors.Is(err, auctionerrors.ErrConflict) {
		// Another observer applied the transition first.
		current, readErr := e.store.GetListing(listing.ListingID)
		if readErr != nil {
			return models.Listing{}, fmt.Errorf("lifecycle: re-read after reconcile conflict: %w", readErr)
		}
		return current, nil
	}
	return models.Listing{}, fmt.Errorf("lifecycle: failed to end listing %s: %w", listing.ListingID, err)
}

// GetListing returns one listing with its lifecycle reconciled first, so
// callers never observe a stale active status past the end time.
func (e *Engine) GetListing(id string) (models.Listing, error) {
	listing, err := e.store.GetListing(id)
	if err != nil {
		return models.Listing{}, err
	}
	return e.Reconcile(listing)
}

// ListActiveListings returns active listings newest first. Expired rows are
// reconciled and dropped from the result.
func (e *Engine) ListActiveListings() ([]models.Listing, error) {
	listings, err := e.store.ListActiveListings()
	if err != nil {
		return nil, fmt.Errorf("lifecycle: failed to list active listings: %w", err)
	}

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		reconciled, err := e.Reconcile(l)
		if err != nil {
			return nil, err
		}
		if reconciled.Status == models.StatusActive {
			out = append(out, reconciled)
		}
	}
	return out, nil
}

// ListEndedListings returns listings that finished, sold or not, newest first.
func (e *Engine) ListEndedListings() ([]models.Listing, error) {
	listings, err := e.store.ListEndedListings()
	if err != nil {
		return nil, fmt.Errorf("lifecycle: failed to list ended listings: %w", err)
	}
	return listings, nil
}

// ListListingsBySeller returns a seller's listings, newest first.
func (e *Engine) ListListingsBySeller(sellerID string) ([]models.Listing, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("lifecycle: %w - empty seller ID", auctionerrors.ErrInvalidListing)
	}
	return e.store.ListListingsBySeller(sellerID)
}

// Cancel withdraws a listing. Only the seller may cancel, only while the
// auction is still active, and only when no bid has been placed. There is
// no refund path, so a listing with bids cannot be withdrawn.
func (e *Engine) Cancel(listingID, sellerID string) (models.Listing, error) {
	listing, err := e.GetListing(listingID)
	if err != nil {
		return models.Listing{}, err
	}
	if listing.SellerID != sellerID {
		return models.Listing{}, fmt.Errorf("lifecycle: only the seller may cancel listing %s: %w",
			listingID, auctionerrors.ErrInvalidTransition)
	}
	if listing.Status != models.StatusActive {
		return models.Listing{}, fmt.Errorf("lifecycle: listing %s is %s: %w",
			listingID, listing.Status, auctionerrors.ErrInvalidTransition)
	}

	if _, err := e.store.GetLeadingBid(listingID); err == nil {
		return models.Listing{}, fmt.Errorf("lifecycle: listing %s has bids: %w",
			listingID, auctionerrors.ErrInvalidTransition)
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return models.Listing{}, fmt.Errorf("lifecycle: failed to check bids for listing %s: %w", listingID, err)
	}

	cancelled, err := e.store.UpdateListingStatus(listingID, models.StatusActive, models.StatusCancelled)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrConflict) {
			return models.Listing{}, fmt.Errorf("lifecycle: listing %s changed state during cancel: %w",
				listingID, auctionerrors.ErrInvalidTransition)
		}
		return models.Listing{}, fmt.Errorf("lifecycle: failed to cancel listing %s: %w", listingID, err)
	}

	utils.Info("listing cancelled", map[string]any{
		"listing_id": listingID,
		"seller_id":  sellerID,
	})
	return cancelled, nil
}

// TimeRemaining returns how long until the listing's end time, floored at zero.
func TimeRemaining(listing models.Listing, now time.Time) time.Duration {
	if remaining := listing.EndTime.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// FormatRemaining renders a remaining duration for display, largest unit
// first, seconds always shown: "2d 4h 0m 13s".
func FormatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "Auction ended"
	}

	seconds := int(remaining.Seconds()) % 60
	minutes := int(remaining.Minutes()) % 60
	hours := int(remaining.Hours()) % 24
	days := int(remaining.Hours()) / 24

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
