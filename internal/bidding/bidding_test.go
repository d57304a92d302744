package bidding

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/models"
	"auction-market/internal/store"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func activeListing(price int64) models.Listing {
	return models.Listing{
		ListingID:     "listing1",
		Title:         "test listing",
		SellerID:      "seller1",
		StartingPrice: decimal.NewFromInt(price),
		CurrentPrice:  decimal.NewFromInt(price),
		EndTime:       testStart.Add(time.Hour),
		Status:        models.StatusActive,
		CreatedAt:     testStart,
	}
}

// Tests PlaceBid against a mocked store
func TestBiddingEngine_PlaceBid(t *testing.T) {
	tests := []struct {
		name          string
		listingID     string
		bidderID      string
		amount        decimal.Decimal
		mockSetup     func(mockStore *store.MockListingStore)
		expectedError error
	}{
		{
			name:      "valid_bid",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				listing := activeListing(100)
				raised := listing
				raised.CurrentPrice = decimal.NewFromInt(150)
				gomock.InOrder(
					mockStore.EXPECT().GetListing("listing1").Return(listing, nil),
					mockStore.EXPECT().UpdateListingPrice("listing1", decimal.NewFromInt(100), decimal.NewFromInt(150)).Return(raised, nil),
					mockStore.EXPECT().InsertBid(gomock.Any()).Return(nil),
				)
			},
		},
		{
			name:          "empty_listing_id",
			listingID:     "",
			bidderID:      "user1",
			amount:        decimal.NewFromInt(150),
			mockSetup:     func(*store.MockListingStore) {},
			expectedError: auctionerrors.ErrInvalidBid,
		},
		{
			name:          "empty_bidder_id",
			listingID:     "listing1",
			bidderID:      "",
			amount:        decimal.NewFromInt(150),
			mockSetup:     func(*store.MockListingStore) {},
			expectedError: auctionerrors.ErrInvalidBid,
		},
		{
			name:          "zero_amount",
			listingID:     "listing1",
			bidderID:      "user1",
			amount:        decimal.Zero,
			mockSetup:     func(*store.MockListingStore) {},
			expectedError: auctionerrors.ErrInvalidBid,
		},
		{
			name:          "negative_amount",
			listingID:     "listing1",
			bidderID:      "user1",
			amount:        decimal.NewFromInt(-10),
			mockSetup:     func(*store.MockListingStore) {},
			expectedError: auctionerrors.ErrInvalidBid,
		},
		{
			name:      "listing_not_found",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				mockStore.EXPECT().GetListing("listing1").
					Return(models.Listing{}, fmt.Errorf("get listing: %w", auctionerrors.ErrListingNotFound))
			},
			expectedError: auctionerrors.ErrListingNotFound,
		},
		{
			name:      "bid_equal_to_current_price_rejected",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(100),
			mockSetup: func(mockStore *store.MockListingStore) {
				mockStore.EXPECT().GetListing("listing1").Return(activeListing(100), nil)
			},
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:      "bid_below_current_price_rejected",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(80),
			mockSetup: func(mockStore *store.MockListingStore) {
				mockStore.EXPECT().GetListing("listing1").Return(activeListing(100), nil)
			},
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:      "ended_listing_rejected",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				listing := activeListing(100)
				listing.Status = models.StatusEnded
				mockStore.EXPECT().GetListing("listing1").Return(listing, nil)
			},
			expectedError: auctionerrors.ErrAuctionNotActive,
		},
		{
			name:      "stale_active_past_end_time_rejected",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				// The stored row still says active, but the end time has
				// passed: reconcile must fire first and the bid must lose.
				stale := activeListing(100)
				stale.EndTime = testStart.Add(-time.Minute)
				ended := stale
				ended.Status = models.StatusEnded
				gomock.InOrder(
					mockStore.EXPECT().GetListing("listing1").Return(stale, nil),
					mockStore.EXPECT().UpdateListingStatus("listing1", models.StatusActive, models.StatusEnded).Return(ended, nil),
				)
			},
			expectedError: auctionerrors.ErrAuctionNotActive,
		},
		{
			name:      "self_bid_rejected",
			listingID: "listing1",
			bidderID:  "seller1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				mockStore.EXPECT().GetListing("listing1").Return(activeListing(100), nil)
			},
			expectedError: auctionerrors.ErrSelfBidNotAllowed,
		},
		{
			name:      "price_race_lost_then_won",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				first := activeListing(100)
				second := activeListing(120)
				raised := second
				raised.CurrentPrice = decimal.NewFromInt(150)
				gomock.InOrder(
					mockStore.EXPECT().GetListing("listing1").Return(first, nil),
					mockStore.EXPECT().UpdateListingPrice("listing1", decimal.NewFromInt(100), decimal.NewFromInt(150)).
						Return(models.Listing{}, fmt.Errorf("swap: %w", auctionerrors.ErrConflict)),
					mockStore.EXPECT().GetListing("listing1").Return(second, nil),
					mockStore.EXPECT().UpdateListingPrice("listing1", decimal.NewFromInt(120), decimal.NewFromInt(150)).Return(raised, nil),
					mockStore.EXPECT().InsertBid(gomock.Any()).Return(nil),
				)
			},
		},
		{
			name:      "price_race_lost_every_attempt",
			listingID: "listing1",
			bidderID:  "user1",
			amount:    decimal.NewFromInt(150),
			mockSetup: func(mockStore *store.MockListingStore) {
				listing := activeListing(100)
				mockStore.EXPECT().GetListing("listing1").Return(listing, nil).Times(maxPlaceBidAttempts)
				mockStore.EXPECT().UpdateListingPrice("listing1", decimal.NewFromInt(100), decimal.NewFromInt(150)).
					Return(models.Listing{}, fmt.Errorf("swap: %w", auctionerrors.ErrConflict)).
					Times(maxPlaceBidAttempts)
			},
			expectedError: auctionerrors.ErrConflict,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := store.NewMockListingStore(ctrl)
			cl := clock.NewManual(testStart)
			engine := NewEngine(mockStore, cl, lifecycle.NewEngine(mockStore, cl))

			tc.mockSetup(mockStore)

			bid, err := engine.PlaceBid(tc.listingID, tc.bidderID, tc.amount)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, bid.BidID)
			_, parseErr := uuid.Parse(bid.BidID)
			require.NoError(t, parseErr, "BidID should be a valid UUID")
			require.Equal(t, tc.listingID, bid.ListingID)
			require.Equal(t, tc.bidderID, bid.BidderID)
			require.True(t, bid.Amount.Equal(tc.amount))
			require.True(t, bid.CreatedAt.Equal(testStart))
		})
	}
}

// A price swap that commits without its bid row must surface as an error.
func TestBiddingEngine_InsertFailureAfterPriceCommit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockListingStore(ctrl)
	cl := clock.NewManual(testStart)
	engine := NewEngine(mockStore, cl, lifecycle.NewEngine(mockStore, cl))

	listing := activeListing(100)
	raised := listing
	raised.CurrentPrice = decimal.NewFromInt(150)
	gomock.InOrder(
		mockStore.EXPECT().GetListing("listing1").Return(listing, nil),
		mockStore.EXPECT().UpdateListingPrice("listing1", decimal.NewFromInt(100), decimal.NewFromInt(150)).Return(raised, nil),
		mockStore.EXPECT().InsertBid(gomock.Any()).Return(errors.New("store write failed")),
	)

	_, err := engine.PlaceBid("listing1", "user1", decimal.NewFromInt(150))
	require.Error(t, err)
	require.Contains(t, err.Error(), "price committed but bid row missing")
}

// Concurrency: N bidders race on one listing through the real memory store.
func TestBiddingEngine_ConcurrentBidders(t *testing.T) {
	t.Parallel()

	cl := clock.NewManual(testStart)
	st := store.NewMemoryStore()
	lc := lifecycle.NewEngine(st, cl)
	engine := NewEngine(st, cl, lc)

	listing, err := lc.CreateListing(lifecycle.ListingDraft{
		SellerID:      "seller1",
		Title:         "contended listing",
		StartingPrice: decimal.NewFromInt(100),
		EndTime:       testStart.Add(time.Hour),
	})
	require.NoError(t, err)

	const bidders = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := make([]models.Bid, 0, bidders)

	for i := 0; i < bidders; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			amount := decimal.NewFromInt(int64(101 + i))
			bid, err := engine.PlaceBid(listing.ListingID, fmt.Sprintf("user-%d", i), amount)
			if err != nil {
				// Losing the race is legitimate; corruption is not.
				require.True(t,
					errors.Is(err, auctionerrors.ErrBidTooLow) || errors.Is(err, auctionerrors.ErrConflict),
					"unexpected error: %v", err)
				return
			}
			mu.Lock()
			accepted = append(accepted, bid)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.NotEmpty(t, accepted)

	// The stored price equals the maximum accepted amount, and every
	// accepted bid has a matching stored row.
	final, err := st.GetListing(listing.ListingID)
	require.NoError(t, err)

	maxAccepted := decimal.Zero
	for _, b := range accepted {
		if b.Amount.GreaterThan(maxAccepted) {
			maxAccepted = b.Amount
		}
	}
	require.True(t, final.CurrentPrice.Equal(maxAccepted),
		"final price %s != max accepted %s", final.CurrentPrice, maxAccepted)

	stored, err := st.ListBidsForListing(listing.ListingID, 0)
	require.NoError(t, err)
	require.Len(t, stored, len(accepted))

	leading, err := st.GetLeadingBid(listing.ListingID)
	require.NoError(t, err)
	require.True(t, leading.Amount.Equal(maxAccepted))
}

// A rejected bid must leave price and bid set untouched.
func TestBiddingEngine_RejectionLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	cl := clock.NewManual(testStart)
	st := store.NewMemoryStore()
	lc := lifecycle.NewEngine(st, cl)
	engine := NewEngine(st, cl, lc)

	listing, err := lc.CreateListing(lifecycle.ListingDraft{
		SellerID:      "seller1",
		Title:         "quiet listing",
		StartingPrice: decimal.NewFromInt(100),
		EndTime:       testStart.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = engine.PlaceBid(listing.ListingID, "user1", decimal.NewFromInt(100))
	require.ErrorIs(t, err, auctionerrors.ErrBidTooLow)

	after, err := st.GetListing(listing.ListingID)
	require.NoError(t, err)
	require.True(t, after.CurrentPrice.Equal(decimal.NewFromInt(100)))

	bids, err := st.ListBidsForListing(listing.ListingID, 0)
	require.NoError(t, err)
	require.Empty(t, bids)
}

// Tests BidsForListing / BidsByBidder input validation
func TestBiddingEngine_Queries(t *testing.T) {
	t.Parallel()

	cl := clock.NewManual(testStart)
	st := store.NewMemoryStore()
	engine := NewEngine(st, cl, lifecycle.NewEngine(st, cl))

	_, err := engine.BidsForListing("", 0)
	require.ErrorIs(t, err, auctionerrors.ErrInvalidBid)

	_, err = engine.BidsByBidder("")
	require.ErrorIs(t, err, auctionerrors.ErrInvalidBid)

	bids, err := engine.BidsForListing("unknown", 0)
	require.NoError(t, err)
	require.Empty(t, bids)
}
