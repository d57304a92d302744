package store

import (
	"time"

	"auction-market/internal/models"

	"github.com/shopspring/decimal"
)

// Table identifies a row collection for change subscriptions.
type Table string

const (
	TableListings  Table = "listings"
	TableBids      Table = "bids"
	TablePurchases Table = "purchases"
)

// Event is a change hint pushed to subscribers. It carries row identity only;
// consumers must re-read authoritative state rather than trust the payload.
type Event struct {
	Table     Table  `json:"table"`
	RowID     string `json:"row_id"`
	ListingID string `json:"listing_id"`
}

// ListingStore is the durable-storage contract the auction engines depend on.
//
// All writes that depend on previously read state are conditional: they apply
// only if the stored record still matches the expected value and fail with
// auctionerrors.ErrConflict otherwise, so stale writers lose instead of
// overwriting. Bid and purchase rows are append-only/create-once.
type ListingStore interface {
	InsertListing(listing models.Listing) error
	GetListing(id string) (models.Listing, error)
	ListActiveListings() ([]models.Listing, error)
	ListEndedListings() ([]models.Listing, error)
	ListListingsBySeller(sellerID string) ([]models.Listing, error)
	UpdateListingStatus(id string, expected, next models.ListingStatus) (models.Listing, error)
	UpdateListingPrice(id string, expected, next decimal.Decimal) (models.Listing, error)

	InsertBid(bid models.Bid) error
	ListBidsForListing(listingID string, limit int) ([]models.Bid, error)
	ListBidsByBidder(bidderID string) ([]models.Bid, error)
	GetLeadingBid(listingID string) (models.Bid, error)

	InsertPurchaseIfAbsent(purchase models.Purchase) (models.Purchase, bool, error)
	GetPurchase(id string) (models.Purchase, error)
	GetPurchaseForListing(listingID string) (models.Purchase, error)
	ListPurchasesByBuyer(buyerID string) ([]models.Purchase, error)
	UpdatePurchaseStatus(id string, expected, next models.PaymentStatus, paidAt time.Time) (models.Purchase, error)

	// Subscribe registers onChange for rows of table scoped to listingID
	// (empty listingID means all rows). The returned function cancels the
	// subscription. Delivery is asynchronous and best-effort.
	Subscribe(table Table, listingID string, onChange func(Event)) (unsubscribe func())
}
