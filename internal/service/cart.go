package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/checkout"
	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// Cart limits to prevent abuse.
const (
	// MaxQuantityPerLine is the highest quantity a single line may reach.
	MaxQuantityPerLine = 100
	// MaxLinesPerCart is the maximum number of distinct (item, size) lines.
	MaxLinesPerCart = 50
	// maxSaveAttempts bounds the reload-and-retry loop on version conflicts.
	maxSaveAttempts = 3
)

// CartOptions tunes CartService.
type CartOptions struct {
	TTL             time.Duration
	ClearOnCheckout bool
	// Composer renders the order message; nil uses the Spanish default.
	Composer *checkout.Composer
}

// CheckoutResult is what a shopper needs to continue the order on WhatsApp.
type CheckoutResult struct {
	Message string          `json:"message"`
	Link    string          `json:"link"`
	Total   decimal.Decimal `json:"total"`
	Cart    *domain.Cart    `json:"cart"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	carts    repository.CartRepository
	catalog  repository.CatalogRepository
	settings *SettingsService
	events   EventPublisher
	composer *checkout.Composer
	logger   *slog.Logger
	opts     CartOptions
	now      func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	settings *SettingsService,
	events EventPublisher,
	logger *slog.Logger,
	opts CartOptions,
) *CartService {
	composer := opts.Composer
	if composer == nil {
		composer = checkout.DefaultComposer()
	}
	return &CartService{
		carts:    carts,
		catalog:  catalog,
		settings: settings,
		events:   events,
		composer: composer,
		logger:   logger,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetCart retrieves the session's cart. A session without a cart gets an
// empty one, which is not stored until the first mutation.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.load(ctx, sessionID)
}

func (s *CartService) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID, s.now(), s.opts.TTL), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// mutateFunc edits a cart in place. It reports false to leave the cart
// unsaved.
type mutateFunc func(cart *domain.Cart) (domain.Change, bool, error)

// mutate loads the session's cart, applies fn and saves the result with an
// optimistic version check. A lost race reloads and reapplies fn up to
// maxSaveAttempts times.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn mutateFunc) (*domain.Cart, *domain.Change, error) {
	for attempt := 1; ; attempt++ {
		cart, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, nil, err
		}
		expected := cart.Version

		change, changed, err := fn(cart)
		if err != nil {
			return nil, nil, err
		}
		if !changed {
			return cart, nil, nil
		}
		cart.Touch(s.now(), s.opts.TTL)

		err = s.carts.SaveIfVersion(ctx, cart, expected)
		if err == nil {
			return cart, &change, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, nil, fmt.Errorf("save cart: %w", err)
		}
		cartConflictsTotal.Inc()
		if attempt == maxSaveAttempts {
			return nil, nil, apperrors.Conflict("cart was modified concurrently, please retry")
		}
		s.logger.WarnContext(ctx, "cart version conflict, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt),
		)
	}
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart, change *domain.Change) {
	if change == nil {
		return
	}
	if err := s.events.PublishCartUpdated(ctx, cart, *change); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

// AddItem puts one unit of a catalog product into the cart. An empty size
// picks the product's first size; a size the product does not offer is
// rejected. The returned change has RevealCart set.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID, size string) (cart *domain.Cart, change *domain.Change, err error) {
	defer func() { observeCartOp("add_item", err) }()

	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("get product: %w", err)
	}

	size = strings.TrimSpace(size)
	if size == "" {
		size = product.DefaultSize()
	}
	if !product.HasSize(size) {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("size %q is not offered for %s", size, product.Name))
	}

	cart, change, err = s.mutate(ctx, sessionID, func(c *domain.Cart) (domain.Change, bool, error) {
		if i := c.FindLine(product.ID, size); i >= 0 {
			if c.Lines[i].Quantity >= MaxQuantityPerLine {
				return domain.Change{}, false, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
			}
		} else if len(c.Lines) >= MaxLinesPerCart {
			return domain.Change{}, false, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", MaxLinesPerCart))
		}
		return c.AddItem(product, size), true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.publishUpdated(ctx, cart, change)
	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
		slog.String("size", size),
		slog.Int("quantity", change.Quantity),
	)
	return cart, change, nil
}

// UpdateQuantity changes the quantity of a line by delta. A result of zero
// or less removes the line. A zero delta or an unknown line leaves the cart
// as it is and yields a nil change.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID, size string, delta int) (cart *domain.Cart, change *domain.Change, err error) {
	defer func() { observeCartOp("update_quantity", err) }()

	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" || size == "" {
		return nil, nil, apperrors.InvalidInput("item id and size are required")
	}
	cart, change, err = s.mutate(ctx, sessionID, func(c *domain.Cart) (domain.Change, bool, error) {
		if delta == 0 {
			return domain.Change{}, false, nil
		}
		if i := c.FindLine(itemID, size); i >= 0 && delta > MaxQuantityPerLine-c.Lines[i].Quantity {
			return domain.Change{}, false, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
		}
		ch, ok := c.UpdateQuantity(itemID, size, delta)
		return ch, ok, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if change == nil {
		return cart, nil, nil
	}

	s.publishUpdated(ctx, cart, change)
	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
		slog.String("size", size),
		slog.Int("delta", delta),
		slog.String("change", string(change.Kind)),
	)
	return cart, change, nil
}

// RemoveLine drops a line whatever its quantity. An unknown line is a no-op.
func (s *CartService) RemoveLine(ctx context.Context, sessionID, itemID, size string) (cart *domain.Cart, change *domain.Change, err error) {
	defer func() { observeCartOp("remove_line", err) }()

	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" || size == "" {
		return nil, nil, apperrors.InvalidInput("item id and size are required")
	}

	cart, change, err = s.mutate(ctx, sessionID, func(c *domain.Cart) (domain.Change, bool, error) {
		ch, ok := c.RemoveLine(itemID, size)
		return ch, ok, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if change == nil {
		return cart, nil, nil
	}

	s.publishUpdated(ctx, cart, change)
	s.logger.InfoContext(ctx, "cart line removed",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
		slog.String("size", size),
	)
	return cart, change, nil
}

// ClearCart deletes the session's cart and returns a fresh empty one.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (cart *domain.Cart, err error) {
	defer func() { observeCartOp("clear", err) }()

	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if err := s.clear(ctx, sessionID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return domain.NewCart(sessionID, s.now(), s.opts.TTL), nil
}

func (s *CartService) clear(ctx context.Context, sessionID string) error {
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if err := s.events.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Checkout composes the order message for the session's cart and builds the
// WhatsApp hand-off link for the store's number. The cart is kept unless
// the service was configured to clear it on checkout.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (res *CheckoutResult, err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		checkoutsTotal.WithLabelValues(outcome).Inc()
	}()

	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if checkout.PhoneDigits(settings.WhatsApp) == "" {
		return nil, apperrors.Unavailable("store WhatsApp number is not configured", nil)
	}

	total := cart.Total()
	msg := s.composer.Compose(settings.Name, cart.Lines, total)
	link := checkout.BuildHandoffLink(settings.WhatsApp, msg)

	if err := s.events.PublishCheckoutHandoff(ctx, cart, link); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.handoff event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	checkoutAmount.Observe(total.InexactFloat64())

	s.logger.InfoContext(ctx, "checkout handed off to whatsapp",
		slog.String("session_id", sessionID),
		slog.Int("lines", len(cart.Lines)),
		slog.String("total", total.StringFixed(2)),
	)

	if s.opts.ClearOnCheckout {
		if err := s.clear(ctx, sessionID); err != nil {
			return nil, err
		}
		cart = domain.NewCart(sessionID, s.now(), s.opts.TTL)
	}

	return &CheckoutResult{Message: msg, Link: link, Total: total, Cart: cart}, nil
}
