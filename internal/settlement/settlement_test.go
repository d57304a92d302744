package settlement

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/bidding"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/models"
	"auction-market/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type declineProcessor struct{}

func (declineProcessor) Charge(models.Purchase) error {
	return errors.New("card declined by issuer")
}

// countingProcessor approves every charge and counts invocations.
type countingProcessor struct {
	charges int32
}

func (p *countingProcessor) Charge(models.Purchase) error {
	atomic.AddInt32(&p.charges, 1)
	return nil
}

type testEnv struct {
	clock      *clock.Manual
	store      *store.MemoryStore
	lifecycle  *lifecycle.Engine
	bidding    *bidding.Engine
	settlement *Engine
}

func newTestEnv(t *testing.T, processor PaymentProcessor) *testEnv {
	t.Helper()
	cl := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore()
	lc := lifecycle.NewEngine(st, cl)
	if processor == nil {
		processor = SimulatedProcessor{}
	}
	return &testEnv{
		clock:      cl,
		store:      st,
		lifecycle:  lc,
		bidding:    bidding.NewEngine(st, cl, lc),
		settlement: NewEngine(st, cl, lc, processor),
	}
}

// endedListing seeds a listing, places the given bids, then advances the
// clock past the end time.
func (env *testEnv) endedListing(t *testing.T, bids map[string]int64) models.Listing {
	t.Helper()
	listing, err := env.lifecycle.CreateListing(lifecycle.ListingDraft{
		SellerID:      "seller1",
		Title:         "settlement listing",
		StartingPrice: decimal.NewFromInt(100),
		EndTime:       env.clock.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// Map order is random; insert in ascending amount so each bid is valid.
	amounts := make([]int64, 0, len(bids))
	byAmount := make(map[int64]string, len(bids))
	for bidder, amount := range bids {
		amounts = append(amounts, amount)
		byAmount[amount] = bidder
	}
	for i := 0; i < len(amounts); i++ {
		for j := i + 1; j < len(amounts); j++ {
			if amounts[j] < amounts[i] {
				amounts[i], amounts[j] = amounts[j], amounts[i]
			}
		}
	}
	for _, amount := range amounts {
		_, err := env.bidding.PlaceBid(listing.ListingID, byAmount[amount], decimal.NewFromInt(amount))
		require.NoError(t, err)
	}

	env.clock.Advance(2 * time.Hour)
	return listing
}

// Tests FinalizeIfEnded
func TestSettlement_FinalizeIfEnded(t *testing.T) {
	t.Parallel()

	t.Run("active_listing_returns_no_purchase", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing, err := env.lifecycle.CreateListing(lifecycle.ListingDraft{
			SellerID:      "seller1",
			Title:         "still running",
			StartingPrice: decimal.NewFromInt(100),
			EndTime:       env.clock.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		got, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)
		require.Nil(t, purchase)
		require.Equal(t, models.StatusActive, got.Status)
	})

	t.Run("ended_without_bids_stays_unsold", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, nil)

		got, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)
		require.Nil(t, purchase)
		require.Equal(t, models.StatusEnded, got.Status)

		_, err = env.store.GetPurchaseForListing(listing.ListingID)
		require.ErrorIs(t, err, auctionerrors.ErrPurchaseNotFound)
	})

	t.Run("cancelled_listing_returns_no_purchase", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing, err := env.lifecycle.CreateListing(lifecycle.ListingDraft{
			SellerID:      "seller1",
			Title:         "withdrawn",
			StartingPrice: decimal.NewFromInt(100),
			EndTime:       env.clock.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		_, err = env.lifecycle.Cancel(listing.ListingID, "seller1")
		require.NoError(t, err)

		got, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)
		require.Nil(t, purchase)
		require.Equal(t, models.StatusCancelled, got.Status)
	})

	t.Run("creates_pending_purchase_for_leading_bidder", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150, "userB": 175})

		got, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)
		require.Equal(t, models.StatusEnded, got.Status)
		require.NotNil(t, purchase)
		require.Equal(t, "userB", purchase.BuyerID)
		require.Equal(t, "seller1", purchase.SellerID)
		require.Equal(t, listing.ListingID, purchase.ListingID)
		require.Equal(t, models.PaymentPending, purchase.PaymentStatus)
		require.True(t, purchase.WinningBidAmount.Equal(decimal.NewFromInt(175)))
		require.Equal(t, "settlement listing", purchase.ProductTitle)
	})

	t.Run("repeated_finalize_returns_same_purchase", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150})

		_, first, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)
		require.NotNil(t, first)

		_, second, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)
		require.NotNil(t, second)
		require.Equal(t, first.PurchaseID, second.PurchaseID)
	})

	t.Run("concurrent_finalize_creates_exactly_one_purchase", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150})

		const observers = 50
		var wg sync.WaitGroup
		ids := make(chan string, observers)

		for i := 0; i < observers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
				require.NoError(t, err)
				require.NotNil(t, purchase)
				ids <- purchase.PurchaseID
			}()
		}
		wg.Wait()
		close(ids)

		unique := make(map[string]bool)
		for id := range ids {
			unique[id] = true
		}
		require.Len(t, unique, 1, "all observers must see the same purchase")
	})
}

// Tests Pay
func TestSettlement_Pay(t *testing.T) {
	t.Parallel()

	t.Run("winner_pays_and_listing_sells", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150, "userB": 175})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		paid, err := env.settlement.Pay(purchase.PurchaseID, "userB")
		require.NoError(t, err)
		require.Equal(t, models.PaymentCompleted, paid.PaymentStatus)
		require.True(t, paid.PurchaseDate.Equal(env.clock.Now()))

		sold, err := env.store.GetListing(listing.ListingID)
		require.NoError(t, err)
		require.Equal(t, models.StatusSold, sold.Status)
	})

	t.Run("non_winner_rejected_without_mutation", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150, "userB": 175})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		_, err = env.settlement.Pay(purchase.PurchaseID, "userA")
		require.ErrorIs(t, err, auctionerrors.ErrNotWinner)

		stored, err := env.store.GetPurchase(purchase.PurchaseID)
		require.NoError(t, err)
		require.Equal(t, models.PaymentPending, stored.PaymentStatus)

		ended, err := env.store.GetListing(listing.ListingID)
		require.NoError(t, err)
		require.Equal(t, models.StatusEnded, ended.Status)
	})

	t.Run("second_payment_rejected", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		_, err = env.settlement.Pay(purchase.PurchaseID, "userA")
		require.NoError(t, err)

		_, err = env.settlement.Pay(purchase.PurchaseID, "userA")
		require.ErrorIs(t, err, auctionerrors.ErrAlreadySettled)
	})

	t.Run("missing_purchase", func(t *testing.T) {
		env := newTestEnv(t, nil)
		_, err := env.settlement.Pay("missing", "userA")
		require.ErrorIs(t, err, auctionerrors.ErrPurchaseNotFound)
	})

	t.Run("declined_charge_marks_failed_listing_stays_ended", func(t *testing.T) {
		env := newTestEnv(t, declineProcessor{})
		listing := env.endedListing(t, map[string]int64{"userA": 150})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		failed, err := env.settlement.Pay(purchase.PurchaseID, "userA")
		require.ErrorIs(t, err, auctionerrors.ErrPaymentDeclined)
		require.Equal(t, models.PaymentFailed, failed.PaymentStatus)

		ended, err := env.store.GetListing(listing.ListingID)
		require.NoError(t, err)
		require.Equal(t, models.StatusEnded, ended.Status)

		// Failed is terminal for this purchase row.
		_, err = env.settlement.Pay(purchase.PurchaseID, "userA")
		require.ErrorIs(t, err, auctionerrors.ErrAlreadySettled)
	})

	t.Run("concurrent_payments_settle_once", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		const attempts = 20
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.settlement.Pay(purchase.PurchaseID, "userA")
				if err != nil {
					require.ErrorIs(t, err, auctionerrors.ErrAlreadySettled)
					return
				}
				mu.Lock()
				successes++
				mu.Unlock()
			}()
		}
		wg.Wait()

		require.Equal(t, 1, successes, "exactly one payment attempt may succeed")

		sold, err := env.store.GetListing(listing.ListingID)
		require.NoError(t, err)
		require.Equal(t, models.StatusSold, sold.Status)
	})

	t.Run("concurrent_payments_charge_at_most_once", func(t *testing.T) {
		processor := &countingProcessor{}
		env := newTestEnv(t, processor)
		listing := env.endedListing(t, map[string]int64{"userA": 150})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		const attempts = 20
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.settlement.Pay(purchase.PurchaseID, "userA")
				if err != nil {
					require.ErrorIs(t, err, auctionerrors.ErrAlreadySettled)
				}
			}()
		}
		wg.Wait()

		// Losing payers are turned away before the gateway is invoked.
		require.Equal(t, int32(1), atomic.LoadInt32(&processor.charges))

		settled, err := env.store.GetPurchase(purchase.PurchaseID)
		require.NoError(t, err)
		require.Equal(t, models.PaymentCompleted, settled.PaymentStatus)
	})

	t.Run("listing_never_sold_before_purchase_completes", func(t *testing.T) {
		env := newTestEnv(t, nil)
		listing := env.endedListing(t, map[string]int64{"userA": 150})
		_, purchase, err := env.settlement.FinalizeIfEnded(listing.ListingID)
		require.NoError(t, err)

		// Watch listing status while payment runs. Whenever the listing
		// reads sold, the purchase must already read completed.
		done := make(chan struct{})
		violation := make(chan string, 1)
		go func() {
			defer close(done)
			for {
				select {
				case <-violation:
					return
				default:
				}
				l, err := env.store.GetListing(listing.ListingID)
				if err != nil {
					return
				}
				if l.Status == models.StatusSold {
					p, err := env.store.GetPurchase(purchase.PurchaseID)
					if err != nil || p.PaymentStatus != models.PaymentCompleted {
						violation <- "listing sold before purchase completed"
					}
					return
				}
			}
		}()

		_, err = env.settlement.Pay(purchase.PurchaseID, "userA")
		require.NoError(t, err)
		<-done

		select {
		case msg := <-violation:
			t.Fatal(msg)
		default:
		}
	})
}

// Tests PurchasesByBuyer
func TestSettlement_PurchasesByBuyer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	_, err := env.settlement.PurchasesByBuyer("")
	require.Error(t, err)

	purchases, err := env.settlement.PurchasesByBuyer("nobody")
	require.NoError(t, err)
	require.Empty(t, purchases)

	listing := env.endedListing(t, map[string]int64{"userA": 150})
	_, _, err = env.settlement.FinalizeIfEnded(listing.ListingID)
	require.NoError(t, err)

	purchases, err = env.settlement.PurchasesByBuyer("userA")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, listing.ListingID, purchases[0].ListingID)
}
