package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ArslanEjaz61/carzar-backend/internal/cart"
	"github.com/ArslanEjaz61/carzar-backend/internal/checkout"
	"github.com/ArslanEjaz61/carzar-backend/internal/order"
)

type CheckoutHandler struct {
	carts *cart.Service
	orch  *checkout.Orchestrator
}

func NewCheckoutHandler(carts *cart.Service, orch *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, orch: orch}
}

type checkoutRequest struct {
	SessionID      string         `json:"sessionId"`
	Customer       order.Customer `json:"customer"`
	PaymentMethod  string         `json:"paymentMethod"`
	TransactionRef string         `json:"transactionRef"`
}

type checkoutResponse struct {
	Order        *order.Order `json:"order"`
	Notification any          `json:"notification"`
}

// PlaceOrder runs the full checkout in one request: the client has already
// walked the staged UI, so the handler replays the stages against the session
// machine and the same gates apply.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	session, err := checkout.NewSession(req.SessionID, c)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	if err := session.SubmitAddress(req.Customer); err != nil {
		writeCheckoutError(w, err)
		return
	}

	method := order.PaymentMethod(req.PaymentMethod)
	if err := session.SelectPaymentMethod(method); err != nil {
		writeCheckoutError(w, err)
		return
	}
	if method == order.PaymentWalletTransfer {
		if err := session.SubmitTransactionRef(req.TransactionRef); err != nil {
			writeCheckoutError(w, err)
			return
		}
	}

	result, err := h.orch.PlaceOrder(ctx, session)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		Order:        result.Order,
		Notification: result.Notification,
	})
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case order.IsValidation(err), errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrNotReady):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrPlacementInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case checkout.IsPersistence(err):
		writeError(w, http.StatusServiceUnavailable, "could not save the order, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "failed to place order")
	}
}
