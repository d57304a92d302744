// Package settlement turns an ended auction into a purchase and collects
// payment from the winner. Purchase creation is create-once per listing and
// payment is idempotent, so concurrent observers and repeated pay attempts
// converge on a single settled outcome.
package settlement

import (
	"errors"
	"fmt"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/models"
	"auction-market/internal/store"
	"auction-market/utils"
)

// PaymentProcessor charges the winner for a pending purchase.
type PaymentProcessor interface {
	Charge(purchase models.Purchase) error
}

// SimulatedProcessor approves every charge. The real gateway sits outside
// this system.
type SimulatedProcessor struct{}

func (SimulatedProcessor) Charge(models.Purchase) error { return nil }

// Engine implements winner determination and payment.
type Engine struct {
	store     store.ListingStore
	clock     clock.Clock
	lifecycle *lifecycle.Engine
	processor PaymentProcessor
}

// NewEngine creates a settlement engine.
func NewEngine(st store.ListingStore, cl clock.Clock, lc *lifecycle.Engine, pp PaymentProcessor) *Engine {
	return &Engine{store: st, clock: cl, lifecycle: lc, processor: pp}
}

// FinalizeIfEnded reconciles a listing's lifecycle and, once it has ended
// with at least one bid, ensures a single pending purchase exists for the
// leading bidder. Invoked from any observer; repeated and concurrent calls
// are safe. The returned purchase is nil while the auction is still running
// or ended without bids.
func (e *Engine) FinalizeIfEnded(listingID string) (models.Listing, *models.Purchase, error) {
	listing, err := e.store.GetListing(listingID)
	if err != nil {
		return models.Listing{}, nil, fmt.Errorf("settlement: failed to load listing %s: %w", listingID, err)
	}

	listing, err = e.lifecycle.Reconcile(listing)
	if err != nil {
		return models.Listing{}, nil, fmt.Errorf("settlement: failed to reconcile listing %s: %w", listingID, err)
	}

	switch listing.Status {
	case models.StatusActive, models.StatusCancelled:
		return listing, nil, nil
	}

	leading, err := e.store.GetLeadingBid(listingID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			// Ended unsold; the listing simply stays ended.
			return listing, nil, nil
		}
		return models.Listing{}, nil, fmt.Errorf("settlement: failed to determine leading bid for listing %s: %w", listingID, err)
	}

	purchase := models.Purchase{
		PurchaseID:       utils.GenerateID(),
		ListingID:        listing.ListingID,
		BuyerID:          leading.BidderID,
		SellerID:         listing.SellerID,
		WinningBidAmount: leading.Amount,
		PaymentStatus:    models.PaymentPending,
		PurchaseDate:     e.clock.Now(),
		ProductTitle:     listing.Title,
		ProductImageURL:  listing.ImageURL,
	}

	stored, created, err := e.store.InsertPurchaseIfAbsent(purchase)
	if err != nil {
		return models.Listing{}, nil, fmt.Errorf("settlement: failed to create purchase for listing %s: %w", listingID, err)
	}
	if created {
		utils.Info("purchase created", map[string]any{
			"purchase_id": stored.PurchaseID,
			"listing_id":  listingID,
			"buyer_id":    stored.BuyerID,
			"amount":      stored.WinningBidAmount.String(),
		})
	}
	return listing, &stored, nil
}

// Pay charges the winner for a pending purchase. Only the purchase's buyer
// may pay, and a purchase settles at most once: repeated attempts fail with
// ErrAlreadySettled. The purchase is claimed with a pending -> processing
// swap before the processor is invoked, so of any set of concurrent payers
// at most one ever reaches the gateway. On success the purchase is durably
// completed before the listing is marked sold, so a sold listing always has
// a completed purchase behind it. A declined charge marks the purchase
// failed and leaves the listing ended.
func (e *Engine) Pay(purchaseID, payerID string) (models.Purchase, error) {
	purchase, err := e.store.GetPurchase(purchaseID)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("settlement: failed to load purchase %s: %w", purchaseID, err)
	}
	if payerID != purchase.BuyerID {
		return models.Purchase{}, fmt.Errorf("settlement: user %s on purchase %s: %w",
			payerID, purchaseID, auctionerrors.ErrNotWinner)
	}
	if purchase.PaymentStatus != models.PaymentPending {
		return models.Purchase{}, fmt.Errorf("settlement: purchase %s is %s: %w",
			purchaseID, purchase.PaymentStatus, auctionerrors.ErrAlreadySettled)
	}

	// Claim before charging: losing this swap means another attempt holds
	// the purchase, and the buyer must never be charged twice.
	claimed, err := e.store.UpdatePurchaseStatus(purchaseID, models.PaymentPending, models.PaymentProcessing, e.clock.Now())
	if err != nil {
		if errors.Is(err, auctionerrors.ErrConflict) {
			return models.Purchase{}, fmt.Errorf("settlement: purchase %s: %w", purchaseID, auctionerrors.ErrAlreadySettled)
		}
		return models.Purchase{}, fmt.Errorf("settlement: failed to claim purchase %s: %w", purchaseID, err)
	}

	if err := e.processor.Charge(claimed); err != nil {
		failed, markErr := e.store.UpdatePurchaseStatus(purchaseID, models.PaymentProcessing, models.PaymentFailed, e.clock.Now())
		if markErr != nil {
			return models.Purchase{}, fmt.Errorf("settlement: failed to mark purchase %s failed: %w", purchaseID, markErr)
		}
		utils.Warn("payment declined", map[string]any{
			"purchase_id": purchaseID,
			"buyer_id":    payerID,
			"error":       err.Error(),
		})
		return failed, fmt.Errorf("settlement: purchase %s: %w: %s", purchaseID, auctionerrors.ErrPaymentDeclined, err)
	}

	completed, err := e.store.UpdatePurchaseStatus(purchaseID, models.PaymentProcessing, models.PaymentCompleted, e.clock.Now())
	if err != nil {
		return models.Purchase{}, fmt.Errorf("settlement: failed to complete purchase %s: %w", purchaseID, err)
	}

	// Only after the purchase is durably completed may the listing show sold.
	if _, err := e.store.UpdateListingStatus(purchase.ListingID, models.StatusEnded, models.StatusSold); err != nil {
		if !errors.Is(err, auctionerrors.ErrConflict) {
			return models.Purchase{}, fmt.Errorf("settlement: failed to mark listing %s sold: %w", purchase.ListingID, err)
		}
		listing, readErr := e.store.GetListing(purchase.ListingID)
		if readErr != nil || listing.Status != models.StatusSold {
			return models.Purchase{}, fmt.Errorf("settlement: listing %s not sold after completed purchase %s: %w",
				purchase.ListingID, purchaseID, err)
		}
	}

	utils.Info("payment completed", map[string]any{
		"purchase_id": purchaseID,
		"listing_id":  purchase.ListingID,
		"buyer_id":    payerID,
		"amount":      completed.WinningBidAmount.String(),
	})
	return completed, nil
}

// PurchasesByBuyer returns a buyer's purchases, newest first.
func (e *Engine) PurchasesByBuyer(buyerID string) ([]models.Purchase, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("settlement: %w - empty buyer ID", auctionerrors.ErrInvalidListing)
	}
	purchases, err := e.store.ListPurchasesByBuyer(buyerID)
	if err != nil {
		return nil, fmt.Errorf("settlement: failed to list purchases for user %s: %w", buyerID, err)
	}
	return purchases, nil
}
