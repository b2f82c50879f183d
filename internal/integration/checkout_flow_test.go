package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArslanEjaz61/carzar-backend/internal/cart"
	"github.com/ArslanEjaz61/carzar-backend/internal/checkout"
	httpapi "github.com/ArslanEjaz61/carzar-backend/internal/http"
	"github.com/ArslanEjaz61/carzar-backend/internal/notify"
	"github.com/ArslanEjaz61/carzar-backend/internal/order"
	"github.com/ArslanEjaz61/carzar-backend/internal/sequence"
	"github.com/ArslanEjaz61/carzar-backend/internal/testutil"
)

// TestCheckoutFlow walks the whole funnel against real Postgres: fill a cart,
// place a cash-on-delivery order, read it back, then advance its status as an
// administrator would.
func TestCheckoutFlow(t *testing.T) {
	db, cleanup := testutil.StartPostgres(t)
	t.Cleanup(cleanup)
	truncateTables(t, db)

	logger := log.New(io.Discard, "", 0)

	repo := order.NewRepository(db)
	seqRepo := sequence.NewRepository(db)
	carts := cart.NewService(cart.NewMemoryStore(), logger)
	pricing := checkout.Pricing{FreeShippingThreshold: 5000, ShippingFee: 200}
	orch := checkout.NewOrchestrator(repo, carts, seqRepo, nil, pricing, logger)
	svc := order.NewService(repo, nil, logger)

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(carts),
		httpapi.NewCheckoutHandler(carts, orch),
		httpapi.NewOrderHandler(repo, svc),
		nil,
		nil,
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/cart/sess-flow/items", map[string]any{
		"productId": "prod-brake-pads",
		"title":     "Front Brake Pads",
		"unitPrice": 1500,
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/api/checkout", map[string]any{
		"sessionId": "sess-flow",
		"customer": map[string]any{
			"fullName": "Ahsan Raza",
			"phone":    "03001234567",
			"address":  "House 12, Gulberg III",
			"city":     "Lahore",
		},
		"paymentMethod": "cash_on_delivery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var placed struct {
		Order        order.Order    `json:"order"`
		Notification notify.Payload `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Equal(t, "CZ-000001", placed.Order.Number)
	require.Equal(t, order.StatusPending, placed.Order.Status)
	require.Contains(t, placed.Notification.Link, "https://wa.me/923001234567")

	rec = do(http.MethodGet, "/api/cart/sess-flow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var c cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.True(t, c.IsEmpty())

	rec = do(http.MethodGet, "/api/orders/CZ-000001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, placed.Order.ID, fetched.ID)
	require.Len(t, fetched.Lines, 1)

	rec = do(http.MethodGet, "/api/orders/by-phone/03001234567", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = do(http.MethodPatch, "/api/admin/orders/"+placed.Order.ID+"/status", map[string]any{
		"orderStatus": "confirmed",
		"version":     1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Order        order.Order     `json:"order"`
		Notification *notify.Payload `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, order.StatusConfirmed, updated.Order.Status)
	require.Equal(t, int64(2), updated.Order.Version)
	require.NotNil(t, updated.Notification)

	// the version we just consumed is stale now
	rec = do(http.MethodPatch, "/api/admin/orders/"+placed.Order.ID+"/status", map[string]any{
		"orderStatus": "processing",
		"version":     1,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutFlow_WalletTransfer(t *testing.T) {
	db, cleanup := testutil.StartPostgres(t)
	t.Cleanup(cleanup)
	truncateTables(t, db)

	logger := log.New(io.Discard, "", 0)

	repo := order.NewRepository(db)
	seqRepo := sequence.NewRepository(db)
	carts := cart.NewService(cart.NewMemoryStore(), logger)
	pricing := checkout.Pricing{FreeShippingThreshold: 5000, ShippingFee: 200}
	orch := checkout.NewOrchestrator(repo, carts, seqRepo, nil, pricing, logger)
	svc := order.NewService(repo, nil, logger)

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(carts),
		httpapi.NewCheckoutHandler(carts, orch),
		httpapi.NewOrderHandler(repo, svc),
		nil,
		nil,
	)

	body, err := json.Marshal(map[string]any{
		"productId": "prod-clutch-kit",
		"title":     "Clutch Kit",
		"unitPrice": 6500,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/cart/sess-wallet/items", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err = json.Marshal(map[string]any{
		"sessionId": "sess-wallet",
		"customer": map[string]any{
			"fullName": "Sana Malik",
			"phone":    "03119876543",
			"address":  "Flat 4B, Clifton Block 2",
			"city":     "Karachi",
		},
		"paymentMethod":  "wallet_transfer",
		"transactionRef": "EP987654",
	})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var placed struct {
		Order order.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotNil(t, placed.Order.TransactionRef)
	require.Equal(t, "EP987654", *placed.Order.TransactionRef)
	// subtotal over the threshold ships free
	require.Equal(t, 0.0, placed.Order.Shipping)
	require.Equal(t, 6500.0, placed.Order.Total)
}
