package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryStore is a concurrency-safe in-memory implementation of ListingStore.
// It mirrors the conditional-write semantics a row-level database would give:
// status and price updates are compare-and-swap, purchase creation is
// create-once keyed by listing id.
type MemoryStore struct {
	mu          sync.RWMutex
	listings    map[string]models.Listing  // key: listingID
	bids        map[string][]models.Bid    // key: listingID -> bids in arrival order
	purchases   map[string]models.Purchase // key: purchaseID
	byListing   map[string]string          // key: listingID -> purchaseID
	subscribers map[int]subscriber
	nextSubID   int
}

type subscriber struct {
	table     Table
	listingID string
	onChange  func(Event)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings:    make(map[string]models.Listing),
		bids:        make(map[string][]models.Bid),
		purchases:   make(map[string]models.Purchase),
		byListing:   make(map[string]string),
		subscribers: make(map[int]subscriber),
	}
}

// InsertListing stores a new listing row.
func (s *MemoryStore) InsertListing(listing models.Listing) error {
	s.mu.Lock()
	if listing.ListingID == "" {
		s.mu.Unlock()
		return fmt.Errorf("insert listing: %w: empty listing id", auctionerrors.ErrInvalidListing)
	}
	s.listings[listing.ListingID] = listing
	s.mu.Unlock()

	s.notify(Event{Table: TableListings, RowID: listing.ListingID, ListingID: listing.ListingID})
	return nil
}

// GetListing returns one listing by id.
func (s *MemoryStore) GetListing(id string) (models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("get listing %s: %w", id, auctionerrors.ErrListingNotFound)
	}
	return listing, nil
}

// ListActiveListings returns all active listings, newest first.
func (s *MemoryStore) ListActiveListings() ([]models.Listing, error) {
	return s.listByStatus(func(l models.Listing) bool { return l.Status == models.StatusActive })
}

// ListEndedListings returns listings in ended or sold state, newest first.
func (s *MemoryStore) ListEndedListings() ([]models.Listing, error) {
	return s.listByStatus(func(l models.Listing) bool {
		return l.Status == models.StatusEnded || l.Status == models.StatusSold
	})
}

// ListListingsBySeller returns a seller's listings, newest first.
func (s *MemoryStore) ListListingsBySeller(sellerID string) ([]models.Listing, error) {
	return s.listByStatus(func(l models.Listing) bool { return l.SellerID == sellerID })
}

func (s *MemoryStore) listByStatus(keep func(models.Listing) bool) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, 0)
	for _, l := range s.listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ListingID < out[j].ListingID
	})
	return out, nil
}

// UpdateListingStatus applies a status transition only if the stored status
// still equals expected; otherwise it fails with ErrConflict.
func (s *MemoryStore) UpdateListingStatus(id string, expected, next models.ListingStatus) (models.Listing, error) {
	s.mu.Lock()
	listing, ok := s.listings[id]
	if !ok {
		s.mu.Unlock()
		return models.Listing{}, fmt.Errorf("update listing %s status: %w", id, auctionerrors.ErrListingNotFound)
	}
	if listing.Status != expected {
		s.mu.Unlock()
		return models.Listing{}, fmt.Errorf("update listing %s status %s->%s: stored status is %s: %w",
			id, expected, next, listing.Status, auctionerrors.ErrConflict)
	}
	listing.Status = next
	s.listings[id] = listing
	s.mu.Unlock()

	s.notify(Event{Table: TableListings, RowID: id, ListingID: id})
	return listing, nil
}

// UpdateListingPrice raises the current price only if the stored price still
// equals expected and the listing is still active. Exactly one of any set of
// concurrent callers with the same expected price wins.
func (s *MemoryStore) UpdateListingPrice(id string, expected, next decimal.Decimal) (models.Listing, error) {
	s.mu.Lock()
	listing, ok := s.listings[id]
	if !ok {
		s.mu.Unlock()
		return models.Listing{}, fmt.Errorf("update listing %s price: %w", id, auctionerrors.ErrListingNotFound)
	}
	if listing.Status != models.StatusActive {
		s.mu.Unlock()
		return models.Listing{}, fmt.Errorf("update listing %s price: status is %s: %w",
			id, listing.Status, auctionerrors.ErrConflict)
	}
	if !listing.CurrentPrice.Equal(expected) {
		s.mu.Unlock()
		return models.Listing{}, fmt.Errorf("update listing %s price: stored price %s != expected %s: %w",
			id, listing.CurrentPrice, expected, auctionerrors.ErrConflict)
	}
	listing.CurrentPrice = next
	s.listings[id] = listing
	s.mu.Unlock()

	s.notify(Event{Table: TableListings, RowID: id, ListingID: id})
	return listing, nil
}

// InsertBid appends a bid row for its listing.
func (s *MemoryStore) InsertBid(bid models.Bid) error {
	s.mu.Lock()
	if _, ok := s.listings[bid.ListingID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("insert bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
	}
	s.bids[bid.ListingID] = append(s.bids[bid.ListingID], bid)
	s.mu.Unlock()

	s.notify(Event{Table: TableBids, RowID: bid.BidID, ListingID: bid.ListingID})
	return nil
}

// ListBidsForListing returns bids for a listing ordered by amount descending,
// ties earliest first. A limit <= 0 means no limit.
func (s *MemoryStore) ListBidsForListing(listingID string, limit int) ([]models.Bid, error) {
	s.mu.RLock()
	bids := append([]models.Bid(nil), s.bids[listingID]...)
	s.mu.RUnlock()

	sort.Slice(bids, func(i, j int) bool { return bids[i].Outbids(bids[j]) })
	if limit > 0 && len(bids) > limit {
		bids = bids[:limit]
	}
	return bids, nil
}

// ListBidsByBidder returns all of one user's bids, newest first.
func (s *MemoryStore) ListBidsByBidder(bidderID string) ([]models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Bid, 0)
	for _, bids := range s.bids {
		for _, b := range bids {
			if b.BidderID == bidderID {
				out = append(out, b)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].BidID < out[j].BidID
	})
	return out, nil
}

// GetLeadingBid returns the leading bid for a listing: maximum amount, ties
// broken by earliest timestamp.
func (s *MemoryStore) GetLeadingBid(listingID string) (models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.bids[listingID]
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("get leading bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	leading := bids[0]
	for _, b := range bids[1:] {
		if b.Outbids(leading) {
			leading = b
		}
	}
	return leading, nil
}

// InsertPurchaseIfAbsent creates the purchase row unless one already exists
// for the same listing. It returns the stored row and whether this call
// created it, so concurrent finalizers converge on a single purchase.
func (s *MemoryStore) InsertPurchaseIfAbsent(purchase models.Purchase) (models.Purchase, bool, error) {
	s.mu.Lock()
	if existingID, ok := s.byListing[purchase.ListingID]; ok {
		existing := s.purchases[existingID]
		s.mu.Unlock()
		return existing, false, nil
	}
	s.purchases[purchase.PurchaseID] = purchase
	s.byListing[purchase.ListingID] = purchase.PurchaseID
	s.mu.Unlock()

	s.notify(Event{Table: TablePurchases, RowID: purchase.PurchaseID, ListingID: purchase.ListingID})
	return purchase, true, nil
}

// GetPurchase returns one purchase by id.
func (s *MemoryStore) GetPurchase(id string) (models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.purchases[id]
	if !ok {
		return models.Purchase{}, fmt.Errorf("get purchase %s: %w", id, auctionerrors.ErrPurchaseNotFound)
	}
	return p, nil
}

// GetPurchaseForListing returns the purchase keyed by listing id, if any.
func (s *MemoryStore) GetPurchaseForListing(listingID string) (models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byListing[listingID]
	if !ok {
		return models.Purchase{}, fmt.Errorf("get purchase for listing %s: %w", listingID, auctionerrors.ErrPurchaseNotFound)
	}
	return s.purchases[id], nil
}

// ListPurchasesByBuyer returns a buyer's purchases, newest first.
func (s *MemoryStore) ListPurchasesByBuyer(buyerID string) ([]models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Purchase, 0)
	for _, p := range s.purchases {
		if p.BuyerID == buyerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].PurchaseID < out[j].PurchaseID
	})
	return out, nil
}

// UpdatePurchaseStatus applies a payment-status transition only if the stored
// status still equals expected; otherwise it fails with ErrConflict.
func (s *MemoryStore) UpdatePurchaseStatus(id string, expected, next models.PaymentStatus, paidAt time.Time) (models.Purchase, error) {
	s.mu.Lock()
	p, ok := s.purchases[id]
	if !ok {
		s.mu.Unlock()
		return models.Purchase{}, fmt.Errorf("update purchase %s: %w", id, auctionerrors.ErrPurchaseNotFound)
	}
	if p.PaymentStatus != expected {
		s.mu.Unlock()
		return models.Purchase{}, fmt.Errorf("update purchase %s status %s->%s: stored status is %s: %w",
			id, expected, next, p.PaymentStatus, auctionerrors.ErrConflict)
	}
	p.PaymentStatus = next
	p.PurchaseDate = paidAt
	s.purchases[id] = p
	s.mu.Unlock()

	s.notify(Event{Table: TablePurchases, RowID: id, ListingID: p.ListingID})
	return p, nil
}

// Subscribe registers a change callback for one table, optionally scoped to a
// single listing. Events are delivered on separate goroutines; callbacks must
// re-read authoritative state instead of trusting the hint.
func (s *MemoryStore) Subscribe(table Table, listingID string, onChange func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = subscriber{table: table, listingID: listingID, onChange: onChange}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *MemoryStore) notify(ev Event) {
	s.mu.RLock()
	targets := make([]func(Event), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		if sub.table != ev.Table {
			continue
		}
		if sub.listingID != "" && sub.listingID != ev.ListingID {
			continue
		}
		targets = append(targets, sub.onChange)
	}
	s.mu.RUnlock()

	for _, fn := range targets {
		go fn(ev)
	}
}
