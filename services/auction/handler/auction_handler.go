package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/models"
	"auction-market/internal/notification"
	"auction-market/services/auction/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type LifecycleServiceInterface interface {
	CreateListing(draft lifecycle.ListingDraft) (models.Listing, error)
	GetListing(id string) (models.Listing, error)
	ListActiveListings() ([]models.Listing, error)
	ListEndedListings() ([]models.Listing, error)
	ListListingsBySeller(sellerID string) ([]models.Listing, error)
	Cancel(listingID, sellerID string) (models.Listing, error)
}

type BiddingServiceInterface interface {
	PlaceBid(listingID, bidderID string, amount decimal.Decimal) (models.Bid, error)
	BidsForListing(listingID string, limit int) ([]models.Bid, error)
	BidsByBidder(bidderID string) ([]models.Bid, error)
}

type SettlementServiceInterface interface {
	FinalizeIfEnded(listingID string) (models.Listing, *models.Purchase, error)
	Pay(purchaseID, payerID string) (models.Purchase, error)
	PurchasesByBuyer(buyerID string) ([]models.Purchase, error)
}

type NotificationServiceInterface interface {
	DeriveForUser(userID string) ([]notification.Notice, error)
}

type AuctionHandler struct {
	lifecycle  LifecycleServiceInterface
	bidding    BiddingServiceInterface
	settlement SettlementServiceInterface
	notifier   NotificationServiceInterface
	clock      clock.Clock
}

func NewAuctionHandler(
	lc LifecycleServiceInterface,
	bd BiddingServiceInterface,
	st SettlementServiceInterface,
	nt NotificationServiceInterface,
	cl clock.Clock,
) *AuctionHandler {
	return &AuctionHandler{lifecycle: lc, bidding: bd, settlement: st, notifier: nt, clock: cl}
}

func (h *AuctionHandler) fail(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	if fields == nil {
		fields = map[string]any{}
	}
	fields["error"] = err.Error()
	utils.Warn(handlerName+": request failed", fields)
}

// CreateListingHandler handles POST /listings
func (h *AuctionHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	listing, err := h.lifecycle.CreateListing(lifecycle.ListingDraft{
		SellerID:      req.SellerID,
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		EndTime:       req.EndTime,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.fail(c, "CreateListingHandler", err, map[string]any{"seller_id": req.SellerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewListingResponse(listing, h.clock.Now()), "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": listing.ListingID,
		"seller_id":  listing.SellerID,
	})
}

// ListListingsHandler handles GET /listings. The default view is active
// auctions; ?status=ended returns finished ones (sold included).
func (h *AuctionHandler) ListListingsHandler(c *gin.Context) {
	var listings []models.Listing
	var err error

	switch status := c.Query("status"); status {
	case "", "active":
		listings, err = h.lifecycle.ListActiveListings()
	case "ended":
		listings, err = h.lifecycle.ListEndedListings()
	default:
		helpers.HandleBindError(c, "ListListingsHandler", fmt.Errorf("invalid status %q", status))
		return
	}
	if err != nil {
		h.fail(c, "ListListingsHandler", err, nil)
		return
	}

	now := h.clock.Now()
	resp := make([]helpers.ListingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, helpers.NewListingResponse(l, now))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "listings retrieved successfully")
}

// GetListingHandler handles GET /listings/:listing_id
func (h *AuctionHandler) GetListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	listing, err := h.lifecycle.GetListing(listingID)
	if err != nil {
		h.fail(c, "GetListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing, h.clock.Now()), "listing retrieved successfully")
}

// GetBidsHandler handles GET /listings/:listing_id/bids
func (h *AuctionHandler) GetBidsHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			helpers.HandleBindError(c, "GetBidsHandler", fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	bids, err := h.bidding.BidsForListing(listingID, limit)
	if err != nil {
		h.fail(c, "GetBidsHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
}

// CancelListingHandler handles POST /listings/:listing_id/cancel
func (h *AuctionHandler) CancelListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	var req helpers.CancelListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CancelListingHandler", err)
		return
	}

	listing, err := h.lifecycle.Cancel(listingID, req.SellerID)
	if err != nil {
		h.fail(c, "CancelListingHandler", err, map[string]any{"listing_id": listingID, "seller_id": req.SellerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing, h.clock.Now()), "listing cancelled successfully")
	helpers.LogSuccess("CancelListingHandler", "listing cancelled successfully", map[string]any{
		"listing_id": listingID,
	})
}

// FinalizeListingHandler handles POST /listings/:listing_id/finalize.
// Change notifications and page loads both funnel through here: the call
// reconciles the lifecycle and ensures the winner's pending purchase exists.
func (h *AuctionHandler) FinalizeListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	listing, purchase, err := h.settlement.FinalizeIfEnded(listingID)
	if err != nil {
		h.fail(c, "FinalizeListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	data := gin.H{"listing": helpers.NewListingResponse(listing, h.clock.Now())}
	if purchase != nil {
		data["purchase"] = helpers.NewPurchaseResponse(*purchase)
	}
	utils.JSONResponse(c, http.StatusOK, data, "listing finalized")
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.bidding.PlaceBid(req.ListingID, req.BidderID, req.Amount)
	if err != nil {
		h.fail(c, "PlaceBidHandler", err, map[string]any{
			"listing_id": req.ListingID,
			"bidder_id":  req.BidderID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"listing_id": bid.ListingID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// PayPurchaseHandler handles POST /purchases/:purchase_id/pay
func (h *AuctionHandler) PayPurchaseHandler(c *gin.Context) {
	purchaseID := c.Param("purchase_id")

	var req helpers.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PayPurchaseHandler", err)
		return
	}

	purchase, err := h.settlement.Pay(purchaseID, req.PayerID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrPaymentDeclined) {
			status, message := helpers.MapErrorToHTTP(err)
			utils.JSONError(c, status, err, message)
			utils.Warn("PayPurchaseHandler: payment declined", map[string]any{
				"purchase_id": purchaseID,
				"payer_id":    req.PayerID,
			})
			return
		}
		h.fail(c, "PayPurchaseHandler", err, map[string]any{
			"purchase_id": purchaseID,
			"payer_id":    req.PayerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewPurchaseResponse(purchase), "payment completed successfully")
	helpers.LogSuccess("PayPurchaseHandler", "payment completed successfully", map[string]any{
		"purchase_id": purchaseID,
		"listing_id":  purchase.ListingID,
		"buyer_id":    purchase.BuyerID,
	})
}

// UserListingsHandler handles GET /users/:user_id/listings
func (h *AuctionHandler) UserListingsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listings, err := h.lifecycle.ListListingsBySeller(userID)
	if err != nil {
		h.fail(c, "UserListingsHandler", err, map[string]any{"user_id": userID})
		return
	}

	now := h.clock.Now()
	resp := make([]helpers.ListingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, helpers.NewListingResponse(l, now))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "listings retrieved successfully")
}

// UserBidsHandler handles GET /users/:user_id/bids
func (h *AuctionHandler) UserBidsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	bids, err := h.bidding.BidsByBidder(userID)
	if err != nil {
		h.fail(c, "UserBidsHandler", err, map[string]any{"user_id": userID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
}

// UserPurchasesHandler handles GET /users/:user_id/purchases
func (h *AuctionHandler) UserPurchasesHandler(c *gin.Context) {
	userID := c.Param("user_id")
	purchases, err := h.settlement.PurchasesByBuyer(userID)
	if err != nil {
		h.fail(c, "UserPurchasesHandler", err, map[string]any{"user_id": userID})
		return
	}

	resp := make([]helpers.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		resp = append(resp, helpers.NewPurchaseResponse(p))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "purchases retrieved successfully")
}

// UserNotificationsHandler handles GET /users/:user_id/notifications
func (h *AuctionHandler) UserNotificationsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	notices, err := h.notifier.DeriveForUser(userID)
	if err != nil {
		h.fail(c, "UserNotificationsHandler", err, map[string]any{"user_id": userID})
		return
	}

	if notices == nil {
		notices = []notification.Notice{}
	}
	utils.JSONResponse(c, http.StatusOK, notices, "notifications derived successfully")
}
