package main

import (
	"fmt"
	"os"
	"time"

	"auction-market/internal/bidding"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/notification"
	"auction-market/internal/server"
	"auction-market/internal/settlement"
	"auction-market/internal/store"
	"auction-market/utils"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// .env is optional; real deployments set env directly
	_ = godotenv.Load()

	cl := clock.System()
	st := store.NewMemoryStore()

	lifecycleEngine := lifecycle.NewEngine(st, cl)
	biddingEngine := bidding.NewEngine(st, cl, lifecycleEngine)
	settlementEngine := settlement.NewEngine(st, cl, lifecycleEngine, settlement.SimulatedProcessor{})
	notifier := notification.NewDeriver(st)

	prepopulateListings(lifecycleEngine, cl)

	router := server.SetupRouter(server.Engines{
		Store:      st,
		Clock:      cl,
		Lifecycle:  lifecycleEngine,
		Bidding:    biddingEngine,
		Settlement: settlementEngine,
		Notifier:   notifier,
	})

	port := getPort()
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// prepopulateListings seeds sample auctions into the in-memory store
func prepopulateListings(engine *lifecycle.Engine, cl clock.Clock) {
	now := cl.Now()
	drafts := []lifecycle.ListingDraft{
		{
			SellerID:      "seller1",
			Title:         "Vintage mechanical watch",
			Description:   "1960s hand-wound movement, recently serviced",
			StartingPrice: decimal.NewFromInt(100),
			EndTime:       now.Add(24 * time.Hour),
		},
		{
			SellerID:      "seller1",
			Title:         "Road bike frame",
			Description:   "54cm steel frame, small scratches",
			StartingPrice: decimal.NewFromInt(200),
			EndTime:       now.Add(48 * time.Hour),
		},
		{
			SellerID:      "seller2",
			Title:         "Film camera",
			Description:   "35mm rangefinder with 50mm lens",
			StartingPrice: decimal.NewFromInt(150),
			EndTime:       now.Add(12 * time.Hour),
		},
	}

	for _, draft := range drafts {
		if _, err := engine.CreateListing(draft); err != nil {
			utils.Warn("failed to seed listing", map[string]any{"title": draft.Title, "error": err.Error()})
		}
	}
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}
