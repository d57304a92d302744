package helpers

import (
	"time"

	"auction-market/internal/lifecycle"
	"auction-market/internal/models"

	"github.com/shopspring/decimal"
)

// Request DTOs. The acting user always travels as an explicit field; there is
// no ambient session state.
type CreateListingRequest struct {
	SellerID      string          `json:"seller_id" binding:"required"`
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	EndTime       time.Time       `json:"end_time" binding:"required"`
	ImageURL      string          `json:"image_url"`
}

type PlaceBidRequest struct {
	ListingID string          `json:"listing_id" binding:"required"`
	BidderID  string          `json:"bidder_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

type CancelListingRequest struct {
	SellerID string `json:"seller_id" binding:"required"`
}

// PayRequest carries the payer plus simulated payment details. Card fields
// are accepted for display parity but never validated or stored.
type PayRequest struct {
	PayerID       string `json:"payer_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number,omitempty"`
	CardExpiry    string `json:"card_expiry,omitempty"`
	CardCVV       string `json:"card_cvv,omitempty"`
	CardName      string `json:"card_name,omitempty"`
}

// Response DTOs
type ListingResponse struct {
	ListingID     string          `json:"listing_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SellerID      string          `json:"seller_id"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	EndTime       string          `json:"end_time"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
	ImageURL      string          `json:"image_url,omitempty"`
	TimeRemaining string          `json:"time_remaining"`
}

type BidResponse struct {
	BidID     string          `json:"bid_id"`
	ListingID string          `json:"listing_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at"`
}

type PurchaseResponse struct {
	PurchaseID       string          `json:"purchase_id"`
	ListingID        string          `json:"listing_id"`
	BuyerID          string          `json:"buyer_id"`
	SellerID         string          `json:"seller_id"`
	WinningBidAmount decimal.Decimal `json:"winning_bid_amount"`
	PaymentStatus    string          `json:"payment_status"`
	PurchaseDate     string          `json:"purchase_date"`
	ProductTitle     string          `json:"product_title"`
	ProductImageURL  string          `json:"product_image_url,omitempty"`
}

// NewListingResponse converts a listing for the wire, rendering remaining
// time against the given instant.
func NewListingResponse(listing models.Listing, now time.Time) ListingResponse {
	remaining := "Auction ended"
	if listing.Status == models.StatusActive {
		remaining = lifecycle.FormatRemaining(lifecycle.TimeRemaining(listing, now))
	}
	return ListingResponse{
		ListingID:     listing.ListingID,
		Title:         listing.Title,
		Description:   listing.Description,
		SellerID:      listing.SellerID,
		StartingPrice: listing.StartingPrice,
		CurrentPrice:  listing.CurrentPrice,
		EndTime:       listing.EndTime.UTC().Format(time.RFC3339),
		Status:        string(listing.Status),
		CreatedAt:     listing.CreatedAt.UTC().Format(time.RFC3339),
		ImageURL:      listing.ImageURL,
		TimeRemaining: remaining,
	}
}

// NewBidResponse converts a bid for the wire.
func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewPurchaseResponse converts a purchase for the wire.
func NewPurchaseResponse(p models.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:       p.PurchaseID,
		ListingID:        p.ListingID,
		BuyerID:          p.BuyerID,
		SellerID:         p.SellerID,
		WinningBidAmount: p.WinningBidAmount,
		PaymentStatus:    string(p.PaymentStatus),
		PurchaseDate:     p.PurchaseDate.UTC().Format(time.RFC3339),
		ProductTitle:     p.ProductTitle,
		ProductImageURL:  p.ProductImageURL,
	}
}
