package http

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/service"
)

// --- Request DTOs ---

// AddLineRequest is the body of POST /api/v1/cart/lines. An empty size
// picks the product's first size.
type AddLineRequest struct {
	ProductID string `json:"product_id" validate:"notblank,max=64"`
	Size      string `json:"size" validate:"max=40"`
}

// UpdateLineRequest is the body of PATCH /api/v1/cart/lines/{itemId}/{size}.
// A zero delta changes nothing.
type UpdateLineRequest struct {
	Delta int `json:"delta" validate:"min=-100,max=100"`
}

// LoginRequest is the body of POST /api/v1/admin/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=128"`
}

// CreateCategoryRequest is the body of POST /api/v1/admin/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"notblank,max=80"`
	Description string `json:"description" validate:"max=500"`
	Image       string `json:"img"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// CreateProductRequest is the body of POST /api/v1/admin/products.
type CreateProductRequest struct {
	CategoryID  string      `json:"category_id" validate:"notblank"`
	Name        string      `json:"name" validate:"notblank,max=120"`
	Description string      `json:"description" validate:"max=2000"`
	Price       json.Number `json:"price" validate:"required,money"`
	MediaURL    string      `json:"media_url"`
	MediaType   string      `json:"media_type" validate:"omitempty,oneof=image video"`
	Sizes       SizeList    `json:"sizes" validate:"max=20,dive,notblank,max=40"`
}

// SizeList accepts either a JSON array of sizes or the admin form's comma
// separated text, e.g. "S, M, L".
type SizeList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *SizeList) UnmarshalJSON(b []byte) error {
	var csv string
	if err := json.Unmarshal(b, &csv); err == nil {
		*s = domain.ParseSizes(csv)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("sizes must be a list or comma separated text: %w", err)
	}
	*s = list
	return nil
}

// UpdateSettingsRequest is the body of PUT /api/v1/admin/settings.
type UpdateSettingsRequest struct {
	Name            string `json:"name" validate:"notblank,max=80"`
	Title           string `json:"title" validate:"max=120"`
	PrimaryColor    string `json:"primaryColor" validate:"omitempty,hexcolor"`
	WhatsApp        string `json:"whatsapp" validate:"omitempty,phone"`
	Logo            string `json:"logo"`
	HeroTitle       string `json:"heroTitle" validate:"max=120"`
	HeroDescription string `json:"heroDescription" validate:"max=500"`
}

// --- Response DTOs ---

// LineView is a cart line with its computed total.
type LineView struct {
	domain.Line
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView is the cart as the front end renders it.
type CartView struct {
	SessionID string          `json:"session_id"`
	Lines     []LineView      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// CartResponse pairs the cart with the change a mutation produced. Change
// is omitted when nothing changed.
type CartResponse struct {
	Cart   CartView       `json:"cart"`
	Change *domain.Change `json:"change,omitempty"`
}

// CheckoutResponse is the hand-off to WhatsApp.
type CheckoutResponse struct {
	Message string          `json:"message"`
	Link    string          `json:"link"`
	Total   decimal.Decimal `json:"total"`
	Cart    CartView        `json:"cart"`
}

func toCartView(c *domain.Cart) CartView {
	lines := make([]LineView, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = LineView{Line: l, LineTotal: l.LineTotal()}
	}
	return CartView{
		SessionID: c.SessionID,
		Lines:     lines,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

func toCheckoutResponse(res *service.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		Message: res.Message,
		Link:    res.Link,
		Total:   res.Total,
		Cart:    toCartView(res.Cart),
	}
}
