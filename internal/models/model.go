package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus tracks where a listing is in its auction lifecycle
type ListingStatus string

const (
	StatusActive    ListingStatus = "active"
	StatusEnded     ListingStatus = "ended"
	StatusSold      ListingStatus = "sold"
	StatusCancelled ListingStatus = "cancelled"
)

// Terminal reports whether no further lifecycle transition is possible
func (s ListingStatus) Terminal() bool {
	return s == StatusSold || s == StatusCancelled
}

// PaymentStatus tracks settlement progress of a purchase
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

// User represents a participant in the marketplace
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Listing represents an item open for bidding
type Listing struct {
	ListingID     string          `json:"listing_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SellerID      string          `json:"seller_id"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	EndTime       time.Time       `json:"end_time"`
	Status        ListingStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	ImageURL      string          `json:"image_url,omitempty"`
}

// Expired reports whether the listing's end time has passed at the given instant
func (l Listing) Expired(now time.Time) bool {
	return !now.Before(l.EndTime)
}

// Bid represents a user's offer on a listing. Bids are append-only and never mutated.
type Bid struct {
	BidID     string          `json:"bid_id"`
	ListingID string          `json:"listing_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Outbids reports whether b beats other under the leading-bid rule:
// higher amount wins, equal amounts go to the earlier bid.
func (b Bid) Outbids(other Bid) bool {
	if c := b.Amount.Cmp(other.Amount); c != 0 {
		return c > 0
	}
	return b.CreatedAt.Before(other.CreatedAt)
}

// Purchase is the settlement record for one (listing, winner) pair.
// At most one purchase ever exists per listing.
type Purchase struct {
	PurchaseID       string          `json:"purchase_id"`
	ListingID        string          `json:"listing_id"`
	BuyerID          string          `json:"buyer_id"`
	SellerID         string          `json:"seller_id"`
	WinningBidAmount decimal.Decimal `json:"winning_bid_amount"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	ProductTitle     string          `json:"product_title"`
	ProductImageURL  string          `json:"product_image_url,omitempty"`
}
