package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service wraps a Store with the marketplace's cart semantics. Losing a
// persisted cart is an inconvenience, not an error: any load failure degrades
// to a fresh empty cart so the shopper can keep browsing.
type Service struct {
	store  Store
	logger *log.Logger
	sfg    singleflight.Group
}

func NewService(store Store, logger *log.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get loads the cart for the session, collapsing concurrent loads for the
// same key through singleflight.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		c, err := s.store.Load(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				s.logger.Printf("cart load error for session %s: %v", sessionID, err)
			}
			return &Cart{SessionID: sessionID, UpdatedAt: time.Now().UTC()}, nil
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Cart), nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, line Line) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Add(line)
	})
}

func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.SetQuantity(productID, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Remove(productID)
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Cart)) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(c)
	c.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}
