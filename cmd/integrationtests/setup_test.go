package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"auction-market/internal/bidding"
	"auction-market/internal/clock"
	"auction-market/internal/lifecycle"
	"auction-market/internal/notification"
	"auction-market/internal/server"
	"auction-market/internal/settlement"
	"auction-market/internal/store"

	"github.com/gin-gonic/gin"
)

// TestApp bundles the router with the in-memory store and manual clock so
// tests can advance time and inspect state directly.
type TestApp struct {
	Router *gin.Engine
	Store  *store.MemoryStore
	Clock  *clock.Manual
}

// SetupTestApp initializes the full application against an in-memory store
// and a manual clock for integration testing.
func SetupTestApp() *TestApp {
	gin.SetMode(gin.TestMode)

	cl := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore()
	lc := lifecycle.NewEngine(st, cl)

	router := server.SetupRouter(server.Engines{
		Store:      st,
		Clock:      cl,
		Lifecycle:  lc,
		Bidding:    bidding.NewEngine(st, cl, lc),
		Settlement: settlement.NewEngine(st, cl, lc, settlement.SimulatedProcessor{}),
		Notifier:   notification.NewDeriver(st),
	})

	return &TestApp{Router: router, Store: st, Clock: cl}
}

// ExecuteRequestAndParse executes an HTTP request on the app and parses the
// JSON envelope. The returned map is the full envelope; use Data/DataList to
// unwrap the payload.
func (app *TestApp) ExecuteRequestAndParse(t *testing.T, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	app.Router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data unwraps the envelope's data field as an object.
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response data is not an object: %v", resp["data"])
	}
	return data
}

// DataList unwraps the envelope's data field as a list of objects.
func DataList(t *testing.T, resp map[string]any) []map[string]any {
	t.Helper()
	raw, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("response data is not a list: %v", resp["data"])
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("response data item is not an object: %v", item)
		}
		out = append(out, obj)
	}
	return out
}
