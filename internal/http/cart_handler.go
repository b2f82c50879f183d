package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ArslanEjaz61/carzar-backend/internal/cart"
)

type CartHandler struct {
	carts *cart.Service
}

func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing sessionId")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	c, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing sessionId")
		return
	}

	var body struct {
		ProductID string  `json:"productId"`
		Title     string  `json:"title"`
		UnitPrice float64 `json:"unitPrice"`
		Quantity  int     `json:"quantity"`
		ImageRef  string  `json:"imageRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(body.ProductID) == "" {
		writeError(w, http.StatusBadRequest, "productId required")
		return
	}
	if body.UnitPrice < 0 {
		writeError(w, http.StatusBadRequest, "unitPrice must not be negative")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	c, err := h.carts.AddItem(ctx, sessionID, cart.Line{
		ProductID: body.ProductID,
		Title:     body.Title,
		UnitPrice: body.UnitPrice,
		Quantity:  body.Quantity,
		ImageRef:  body.ImageRef,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	productID := chi.URLParam(r, "productId")
	if sessionID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing sessionId or productId")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	c, err := h.carts.SetQuantity(ctx, sessionID, productID, body.Quantity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	productID := chi.URLParam(r, "productId")
	if sessionID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing sessionId or productId")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	c, err := h.carts.RemoveItem(ctx, sessionID, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing sessionId")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}

func withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 3*time.Second)
}
