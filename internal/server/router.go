package server

import (
	"auction-market/internal/bidding"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/notification"
	"auction-market/internal/settlement"
	"auction-market/internal/store"
	handler "auction-market/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// Engines bundles the wired auction engines the router exposes.
type Engines struct {
	Store      store.ListingStore
	Clock      clock.Clock
	Lifecycle  *lifecycle.Engine
	Bidding    *bidding.Engine
	Settlement *settlement.Engine
	Notifier   *notification.Deriver
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(e Engines) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(e.Lifecycle, e.Bidding, e.Settlement, e.Notifier, e.Clock)
	watchHandler := NewWatchHandler(e.Store, e.Lifecycle, e.Bidding, e.Clock)

	listings := router.Group("/listings")
	{
		listings.POST("", auctionHandler.CreateListingHandler)
		listings.GET("", auctionHandler.ListListingsHandler)
		listings.GET("/:listing_id", auctionHandler.GetListingHandler)
		listings.GET("/:listing_id/bids", auctionHandler.GetBidsHandler)
		listings.POST("/:listing_id/cancel", auctionHandler.CancelListingHandler)
		listings.POST("/:listing_id/finalize", auctionHandler.FinalizeListingHandler)
		listings.GET("/:listing_id/watch", watchHandler.WatchListingHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	purchases := router.Group("/purchases")
	{
		purchases.POST("/:purchase_id/pay", auctionHandler.PayPurchaseHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/listings", auctionHandler.UserListingsHandler)
		users.GET("/:user_id/bids", auctionHandler.UserBidsHandler)
		users.GET("/:user_id/purchases", auctionHandler.UserPurchasesHandler)
		users.GET("/:user_id/notifications", auctionHandler.UserNotificationsHandler)
	}

	return router
}
