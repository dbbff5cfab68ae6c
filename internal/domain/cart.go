package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. No two lines of a cart share a key.
type LineKey struct {
	ItemID string `json:"item_id"`
	Size   string `json:"size"`
}

// Line is one (item, size) entry of a cart. Name, UnitPrice and media are
// copied from the product when the line is created and never refreshed.
type Line struct {
	ItemID    string          `json:"item_id"`
	Size      string          `json:"size"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	MediaURL  string          `json:"media_url,omitempty"`
	MediaType MediaType       `json:"media_type,omitempty"`
}

// Key returns the line's identity.
func (l Line) Key() LineKey { return LineKey{ItemID: l.ItemID, Size: l.Size} }

// LineTotal is UnitPrice × Quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ChangeKind classifies a cart mutation.
type ChangeKind string

const (
	LineAdded       ChangeKind = "line_added"
	QuantityChanged ChangeKind = "quantity_changed"
	LineRemoved     ChangeKind = "line_removed"
)

// Change describes the effect of one mutation. RevealCart asks the
// presentation layer to open the cart view.
type Change struct {
	Kind       ChangeKind `json:"kind"`
	ItemID     string     `json:"item_id"`
	Size       string     `json:"size"`
	Quantity   int        `json:"quantity"`
	RevealCart bool       `json:"reveal_cart"`
}

// Cart is a shopper's ordered list of lines, keyed by session.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewCart returns an empty cart for sessionID.
func NewCart(sessionID string, now time.Time, ttl time.Duration) *Cart {
	return &Cart{
		SessionID: sessionID,
		Lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// FindLine returns the index of the line with the given key, or -1.
func (c *Cart) FindLine(itemID, size string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID && c.Lines[i].Size == size {
			return i
		}
	}
	return -1
}

// AddItem puts one unit of item in the given size into the cart. An
// existing (item, size) line is incremented; otherwise a line with quantity
// 1 is appended with the item's name, price and media copied in.
//
// size is expected to be one of item.AvailableSizes(); callers at the API
// boundary check it.
func (c *Cart) AddItem(item *Product, size string) Change {
	if i := c.FindLine(item.ID, size); i >= 0 {
		c.Lines[i].Quantity++
		return Change{Kind: QuantityChanged, ItemID: item.ID, Size: size, Quantity: c.Lines[i].Quantity, RevealCart: true}
	}
	c.Lines = append(c.Lines, Line{
		ItemID:    item.ID,
		Size:      size,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		MediaURL:  item.MediaURL,
		MediaType: item.MediaType,
	})
	return Change{Kind: LineAdded, ItemID: item.ID, Size: size, Quantity: 1, RevealCart: true}
}

// UpdateQuantity adds delta to the quantity of the (itemID, size) line. A
// result of zero or less removes the line. It reports false, leaving the
// cart untouched, when no such line exists.
func (c *Cart) UpdateQuantity(itemID, size string, delta int) (Change, bool) {
	i := c.FindLine(itemID, size)
	if i < 0 {
		return Change{}, false
	}
	qty := c.Lines[i].Quantity
	switch {
	case delta <= -qty:
		qty = 0
	case delta > math.MaxInt-qty:
		qty = math.MaxInt
	default:
		qty += delta
	}
	if qty == 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return Change{Kind: LineRemoved, ItemID: itemID, Size: size}, true
	}
	c.Lines[i].Quantity = qty
	return Change{Kind: QuantityChanged, ItemID: itemID, Size: size, Quantity: qty}, true
}

// RemoveLine drops the (itemID, size) line whatever its quantity.
func (c *Cart) RemoveLine(itemID, size string) (Change, bool) {
	i := c.FindLine(itemID, size)
	if i < 0 {
		return Change{}, false
	}
	return c.UpdateQuantity(itemID, size, -c.Lines[i].Quantity)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = []Line{}
}

// Total is the sum of every line total; zero for an empty cart.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Touch records a mutation at now and extends the expiry by ttl.
func (c *Cart) Touch(now time.Time, ttl time.Duration) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(ttl)
}
