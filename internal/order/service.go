package order

import (
	"context"
	"log"
)

// StatusUpdate is a partial update: nil fields keep their current value.
type StatusUpdate struct {
	OrderStatus   *Status
	PaymentStatus *PaymentStatus
}

// StatusChange is the result of an administrator update, carrying enough
// context for the caller to compose a customer notification.
type StatusChange struct {
	Order           *Order
	PreviousStatus  Status
	PreviousPayment PaymentStatus
}

// StatusEventPublisher pushes a status-change event to the ops channel.
// Publishing is best-effort; the Service never fails an update over it.
type StatusEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, o *Order, previous Status) error
}

// Service is the administrator-facing status machine on top of the Repository.
type Service struct {
	repo      Repository
	publisher StatusEventPublisher
	logger    *log.Logger
}

func NewService(repo Repository, publisher StatusEventPublisher, logger *log.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// UpdateStatus advances the order along the normal fulfillment progression.
// Requests that skip states or revive terminal orders are rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, version int64, patch StatusUpdate) (*StatusChange, error) {
	return s.update(ctx, orderID, version, patch, false)
}

// ForceStatus is the operational override: any valid status is settable from
// any state. Used when a human needs to correct a mis-entered state.
func (s *Service) ForceStatus(ctx context.Context, orderID string, version int64, patch StatusUpdate) (*StatusChange, error) {
	return s.update(ctx, orderID, version, patch, true)
}

func (s *Service) update(ctx context.Context, orderID string, version int64, patch StatusUpdate, force bool) (*StatusChange, error) {
	if patch.OrderStatus == nil && patch.PaymentStatus == nil {
		return nil, &ValidationError{Field: "status", Reason: "nothing to update"}
	}
	if patch.OrderStatus != nil && !patch.OrderStatus.IsValid() {
		return nil, &ValidationError{Field: "orderStatus", Reason: "unknown status " + string(*patch.OrderStatus)}
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.IsValid() {
		return nil, &ValidationError{Field: "paymentStatus", Reason: "unknown status " + string(*patch.PaymentStatus)}
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	nextStatus := current.Status
	if patch.OrderStatus != nil {
		nextStatus = *patch.OrderStatus
		if !force && nextStatus != current.Status && !current.Status.CanTransitionTo(nextStatus) {
			return nil, &ValidationError{
				Field:  "orderStatus",
				Reason: "cannot move from " + string(current.Status) + " to " + string(nextStatus),
			}
		}
	}

	nextPayment := current.PaymentStatus
	if patch.PaymentStatus != nil {
		nextPayment = *patch.PaymentStatus
		if !force && nextPayment != current.PaymentStatus && current.PaymentStatus.IsTerminal() {
			return nil, &ValidationError{
				Field:  "paymentStatus",
				Reason: "payment already settled as " + string(current.PaymentStatus),
			}
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, version, nextStatus, nextPayment)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil && updated.Status != current.Status {
		if err := s.publisher.PublishOrderStatusChanged(ctx, updated, current.Status); err != nil {
			s.logger.Printf("publish status change for order %s: %v", updated.ID, err)
		}
	}

	return &StatusChange{
		Order:           updated,
		PreviousStatus:  current.Status,
		PreviousPayment: current.PaymentStatus,
	}, nil
}
