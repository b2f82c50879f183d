package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ArslanEjaz61/carzar-backend/internal/notify"
	"github.com/ArslanEjaz61/carzar-backend/internal/order"
)

type OrderHandler struct {
	repo order.Repository
	svc  *order.Service
}

func NewOrderHandler(repo order.Repository, svc *order.Service) *OrderHandler {
	return &OrderHandler{repo: repo, svc: svc}
}

func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNumber")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing orderNumber")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	o, err := h.repo.GetByNumber(ctx, number)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "missing phone")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	orders, err := h.repo.ListByPhone(ctx, phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

type statusUpdateRequest struct {
	OrderStatus   *string `json:"orderStatus"`
	PaymentStatus *string `json:"paymentStatus"`
	Version       int64   `json:"version"`
	Force         bool    `json:"force"`
}

type statusUpdateResponse struct {
	Order        *order.Order    `json:"order"`
	Notification *notify.Payload `json:"notification,omitempty"`
}

// UpdateStatus applies an administrator status change. The response carries
// the composed customer notification; dispatching it stays a manual step.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderId")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := order.StatusUpdate{}
	if req.OrderStatus != nil {
		s := order.Status(*req.OrderStatus)
		patch.OrderStatus = &s
	}
	if req.PaymentStatus != nil {
		p := order.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &p
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	var change *order.StatusChange
	var err error
	if req.Force {
		change, err = h.svc.ForceStatus(ctx, orderID, req.Version, patch)
	} else {
		change, err = h.svc.UpdateStatus(ctx, orderID, req.Version, patch)
	}
	if err != nil {
		switch {
		case order.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrVersionConflict):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	resp := statusUpdateResponse{Order: change.Order}
	if change.Order.Status != change.PreviousStatus || change.Order.PaymentStatus != change.PreviousPayment {
		payload := notify.ComposeStatusChange(change.Order, change.PreviousStatus)
		resp.Notification = &payload
	}

	writeJSON(w, http.StatusOK, resp)
}
