package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ArslanEjaz61/carzar-backend/internal/metrics"
	"github.com/ArslanEjaz61/carzar-backend/internal/middleware"
)

func NewRouter(cartH *CartHandler, checkoutH *CheckoutHandler, orderH *OrderHandler, m *metrics.ServerMetrics, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CORS(corsOrigins))
	if m != nil {
		r.Use(m.Middleware)
	}

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/cart/{sessionId}", func(r chi.Router) {
		r.Get("/", cartH.GetCart)
		r.Delete("/", cartH.ClearCart)
		r.Post("/items", cartH.AddItem)
		r.Put("/items/{productId}", cartH.SetQuantity)
		r.Delete("/items/{productId}", cartH.RemoveItem)
	})

	r.Post("/api/checkout", checkoutH.PlaceOrder)

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/{orderNumber}", orderH.GetByNumber)
		r.Get("/by-phone/{phone}", orderH.ListByPhone)
	})

	r.Patch("/api/admin/orders/{orderId}/status", orderH.UpdateStatus)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "carzar-backend",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
