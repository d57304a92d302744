// Package notification derives per-user auction outcome notices from stored
// listings, bids, and purchases. Derivation is pure: the same store state
// always yields the same notices, so callers may re-derive at any time.
package notification

import (
	"errors"
	"fmt"
	"sort"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/models"
	"auction-market/internal/store"

	"github.com/shopspring/decimal"
)

// NoticeType classifies a derived notice.
type NoticeType string

const (
	// NoticeLost - the user bid on a finished auction and someone else leads.
	NoticeLost NoticeType = "lost"
	// NoticeWonPendingPayment - the user won and payment is still due.
	NoticeWonPendingPayment NoticeType = "won_pending_payment"
)

// Notice is one derived outcome for display.
type Notice struct {
	Type       NoticeType      `json:"type"`
	ListingID  string          `json:"listing_id"`
	PurchaseID string          `json:"purchase_id,omitempty"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
}

// Deriver computes notices from the listing store.
type Deriver struct {
	store store.ListingStore
}

// NewDeriver creates a notification deriver.
func NewDeriver(st store.ListingStore) *Deriver {
	return &Deriver{store: st}
}

// DeriveForUser returns the user's current notices, ordered by listing id for
// stable output. Completed purchases produce nothing; they are resolved.
func (d *Deriver) DeriveForUser(userID string) ([]Notice, error) {
	if userID == "" {
		return nil, fmt.Errorf("notification: %w - empty user ID", auctionerrors.ErrInvalidListing)
	}

	notices := make([]Notice, 0)

	bids, err := d.store.ListBidsByBidder(userID)
	if err != nil {
		return nil, fmt.Errorf("notification: failed to list bids for user %s: %w", userID, err)
	}

	seen := make(map[string]bool)
	for _, bid := range bids {
		if seen[bid.ListingID] {
			continue
		}
		seen[bid.ListingID] = true

		listing, err := d.store.GetListing(bid.ListingID)
		if err != nil {
			if errors.Is(err, auctionerrors.ErrListingNotFound) {
				continue
			}
			return nil, fmt.Errorf("notification: failed to load listing %s: %w", bid.ListingID, err)
		}
		if listing.Status != models.StatusEnded && listing.Status != models.StatusSold {
			continue
		}

		leading, err := d.store.GetLeadingBid(listing.ListingID)
		if err != nil {
			return nil, fmt.Errorf("notification: failed to determine leading bid for listing %s: %w", listing.ListingID, err)
		}
		if leading.BidderID != userID {
			notices = append(notices, Notice{
				Type:      NoticeLost,
				ListingID: listing.ListingID,
				Title:     listing.Title,
				Amount:    leading.Amount,
			})
		}
	}

	purchases, err := d.store.ListPurchasesByBuyer(userID)
	if err != nil {
		return nil, fmt.Errorf("notification: failed to list purchases for user %s: %w", userID, err)
	}
	for _, p := range purchases {
		if p.PaymentStatus != models.PaymentPending {
			continue
		}
		notices = append(notices, Notice{
			Type:       NoticeWonPendingPayment,
			ListingID:  p.ListingID,
			PurchaseID: p.PurchaseID,
			Title:      p.ProductTitle,
			Amount:     p.WinningBidAmount,
		})
	}

	sort.Slice(notices, func(i, j int) bool {
		if notices[i].ListingID != notices[j].ListingID {
			return notices[i].ListingID < notices[j].ListingID
		}
		return notices[i].Type < notices[j].Type
	})
	return notices, nil
}
