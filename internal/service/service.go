// Package service implements the storefront use cases: browsing the catalog,
// keeping a session cart, handing an order off to WhatsApp and the admin
// operations behind the login.
package service

import (
	"context"

	"github.com/alfonso816/Tienda/internal/domain"
)

// EventPublisher is the part of the event producer the services use.
// event.Nop satisfies it when events are disabled.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart, change domain.Change) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishCheckoutHandoff(ctx context.Context, cart *domain.Cart, link string) error
}
