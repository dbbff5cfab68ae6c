package checkout

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/alfonso816/Tienda/internal/domain"
)

func line(name, size string, price string, qty int) domain.Line {
	return domain.Line{ItemID: name, Size: size, Name: name, UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestComposeOrderMessage_Golden(t *testing.T) {
	lines := []domain.Line{
		line("Vestido Floral", "M", "120", 2),
		line("Blusa Lino", "Única", "85.5", 1),
	}
	total := decimal.RequireFromString("325.5")

	want := "🛍️ *NUEVO PEDIDO - TUS CURVAS LINDAS*\n\n" +
		"Hola! Quiero realizar el siguiente pedido:\n\n" +
		"• *Vestido Floral*\nTalla: M | Cant: 2\nSubtotal: $240\n\n" +
		"• *Blusa Lino*\nTalla: Única | Cant: 1\nSubtotal: $85,5\n\n" +
		"💰 *TOTAL A PAGAR: $325,5*"

	assert.Equal(t, want, ComposeOrderMessage("TUS CURVAS LINDAS", lines, total))
}

func TestComposeOrderMessage_Deterministic(t *testing.T) {
	lines := []domain.Line{line("Top", "S", "10", 3)}
	a := ComposeOrderMessage("Shop", lines, decimal.NewFromInt(30))
	b := ComposeOrderMessage("Shop", lines, decimal.NewFromInt(30))
	assert.Equal(t, a, b)
}

func TestComposeOrderMessage_SpecScenario(t *testing.T) {
	msg := ComposeOrderMessage("Shop", []domain.Line{line("Camisa", "L", "10", 1)}, decimal.NewFromInt(10))
	assert.Contains(t, msg, "Shop")
	assert.Contains(t, msg, "Camisa")
	assert.Contains(t, msg, "Talla: L")
	assert.Contains(t, msg, "Cant: 1")
	assert.Contains(t, msg, "TOTAL A PAGAR: $10*")
}

func TestComposer_EnglishLabels(t *testing.T) {
	c := NewComposer(Labels{
		Header:   "*NEW ORDER",
		Greeting: "Hi! I'd like to order:",
		Bullet:   "-",
		Size:     "Size",
		Quantity: "Qty",
		Subtotal: "Subtotal",
		Total:    "*TOTAL",
		Currency: "$",
	}, language.English)

	msg := c.Compose("Shop", []domain.Line{line("Dress", "M", "22500.25", 2)}, decimal.RequireFromString("45000.5"))
	assert.Equal(t, "*NEW ORDER - Shop*\n\nHi! I'd like to order:\n\n"+
		"- *Dress*\nSize: M | Qty: 2\nSubtotal: $45,000.5\n\n"+
		"*TOTAL: $45,000.5*", msg)
}

func TestComposer_AmountRoundsToCents(t *testing.T) {
	c := NewComposer(SpanishLabels, language.English)
	assert.Equal(t, "0", c.Amount(decimal.Zero))
	assert.Equal(t, "0.1", c.Amount(decimal.RequireFromString("0.10")))
	assert.Equal(t, "19.99", c.Amount(decimal.RequireFromString("19.99")))
	assert.Equal(t, "20", c.Amount(decimal.RequireFromString("19.999")))
	assert.Equal(t, "-5.5", c.Amount(decimal.RequireFromString("-5.50")))
}

func TestComposer_AmountKeepsEveryDigit(t *testing.T) {
	big := decimal.RequireFromString("90071992547409.93")

	en := NewComposer(SpanishLabels, language.English)
	assert.Equal(t, "90,071,992,547,409.93", en.Amount(big))

	es := NewComposer(SpanishLabels, language.Spanish)
	assert.Equal(t, "90.071.992.547.409,93", es.Amount(big))
	assert.Equal(t, "118.500", es.Amount(decimal.RequireFromString("118500")))
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("es-CO")
	require.NoError(t, err)
	base, _ := tag.Base()
	assert.Equal(t, "es", base.String())

	_, err = ParseLocale("not a locale!")
	assert.Error(t, err)
}

func TestBuildHandoffLink(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"plus and spaces", "+1 555 0100", "https://wa.me/15550100?text=hola"},
		{"separators", "(57) 300-123.4567", "https://wa.me/573001234567?text=hola"},
		{"tabs", "+57\t300 123", "https://wa.me/57300123?text=hola"},
		{"already clean", "573001234567", "https://wa.me/573001234567?text=hola"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildHandoffLink(tt.phone, "hola"))
		})
	}
}

func TestBuildHandoffLink_RoundTrip(t *testing.T) {
	msg := ComposeOrderMessage("Tus Curvas Lindas & Co.", []domain.Line{
		line("Jean 100% algodón + cinturón", "M/L", "59.9", 2),
	}, decimal.RequireFromString("119.8"))

	link := BuildHandoffLink("+57 300 123 4567", msg)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/573001234567", u.Path)
	assert.Equal(t, msg, u.Query().Get("text"))
	assert.NotContains(t, u.RawQuery, "+")
	assert.NotContains(t, u.RawQuery, " ")
}

func TestEncodeText_SpacesAsPercent20(t *testing.T) {
	assert.Equal(t, "a%20b%2Bc%0A", EncodeText("a b+c\n"))
}
