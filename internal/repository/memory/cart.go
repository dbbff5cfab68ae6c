package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alfonso816/Tienda/internal/domain"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// CartRepository implements repository.CartRepository in memory. Expired
// carts are dropped lazily on access.
type CartRepository struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
	ttl   time.Duration
	now   func() time.Time
}

// NewCartRepository creates an in-memory cart store.
func NewCartRepository(ttl time.Duration) *CartRepository {
	return &CartRepository{carts: make(map[string]domain.Cart), ttl: ttl, now: time.Now}
}

func cloneCart(c domain.Cart) *domain.Cart {
	c.Lines = slices.Clone(c.Lines)
	if c.Lines == nil {
		c.Lines = []domain.Line{}
	}
	return &c
}

// lookup returns the live cart for id. Callers hold mu.
func (r *CartRepository) lookup(id string) (domain.Cart, bool) {
	c, ok := r.carts[id]
	if ok && !c.ExpiresAt.IsZero() && !r.now().Before(c.ExpiresAt) {
		delete(r.carts, id)
		return domain.Cart{}, false
	}
	return c, ok
}

// Get retrieves a cart by session id.
func (r *CartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.lookup(sessionID)
	if !ok {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	return cloneCart(c), nil
}

// SaveIfVersion stores cart when the stored version equals expected.
func (r *CartRepository) SaveIfVersion(_ context.Context, cart *domain.Cart, expected int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := 0
	if c, ok := r.lookup(cart.SessionID); ok {
		current = c.Version
	}
	if current != expected {
		return apperrors.Conflict(fmt.Sprintf("cart %s changed: version %d, expected %d", cart.SessionID, current, expected))
	}
	stored := *cloneCart(*cart)
	stored.Version = expected + 1
	stored.ExpiresAt = r.now().Add(r.ttl)
	r.carts[cart.SessionID] = stored
	cart.Version = stored.Version
	return nil
}

// Delete removes a cart.
func (r *CartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}
