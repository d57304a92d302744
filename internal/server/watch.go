package server

import (
	"net/http"
	"time"

	"auction-market/internal/bidding"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/store"
	"auction-market/services/auction/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket timeouts
const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsEventBuffer  = 16
)

// listingSnapshot is the payload pushed to watchers. It is always re-read
// from the store after a change hint; the hint itself carries no state.
type listingSnapshot struct {
	Listing helpers.ListingResponse `json:"listing"`
	Bids    []helpers.BidResponse   `json:"bids"`
}

// WatchHandler streams listing and bid changes to browsers over a websocket.
type WatchHandler struct {
	store     store.ListingStore
	lifecycle *lifecycle.Engine
	bidding   *bidding.Engine
	clock     clock.Clock
	upgrader  websocket.Upgrader
}

// NewWatchHandler creates a websocket watch handler.
func NewWatchHandler(st store.ListingStore, lc *lifecycle.Engine, bd *bidding.Engine, cl clock.Clock) *WatchHandler {
	return &WatchHandler{
		store:     st,
		lifecycle: lc,
		bidding:   bd,
		clock:     cl,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// WatchListingHandler handles GET /listings/:listing_id/watch. It subscribes
// to listing and bid changes for one listing and pushes a fresh snapshot on
// every change until the client disconnects.
func (h *WatchHandler) WatchListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	if _, err := h.store.GetListing(listingID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("WatchListingHandler: upgrade failed", map[string]any{
			"listing_id": listingID,
			"error":      err.Error(),
		})
		return
	}
	defer conn.Close()

	// Coalescing buffer: a dropped hint is fine because the next snapshot
	// re-reads everything anyway.
	events := make(chan store.Event, wsEventBuffer)
	push := func(ev store.Event) {
		select {
		case events <- ev:
		default:
		}
	}
	unsubListing := h.store.Subscribe(store.TableListings, listingID, push)
	defer unsubListing()
	unsubBids := h.store.Subscribe(store.TableBids, listingID, push)
	defer unsubBids()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.writeSnapshot(conn, listingID); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-events:
			if err := h.writeSnapshot(conn, listingID); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WatchHandler) writeSnapshot(conn *websocket.Conn, listingID string) error {
	listing, err := h.lifecycle.GetListing(listingID)
	if err != nil {
		utils.Warn("WatchListingHandler: snapshot read failed", map[string]any{
			"listing_id": listingID,
			"error":      err.Error(),
		})
		return err
	}
	bids, err := h.bidding.BidsForListing(listingID, 0)
	if err != nil {
		return err
	}

	bidResp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		bidResp = append(bidResp, helpers.NewBidResponse(b))
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(listingSnapshot{
		Listing: helpers.NewListingResponse(listing, h.clock.Now()),
		Bids:    bidResp,
	})
}
