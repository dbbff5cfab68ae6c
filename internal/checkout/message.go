// Package checkout renders a cart as an order message and builds the
// messaging hand-off link that carries it.
package checkout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/alfonso816/Tienda/internal/domain"
)

// Labels are the fixed strings of the order template.
type Labels struct {
	Header   string // followed by " - <store>"
	Greeting string
	Bullet   string
	Size     string
	Quantity string
	Subtotal string
	Total    string
	Currency string
}

// SpanishLabels is the storefront's default template.
var SpanishLabels = Labels{
	Header:   "🛍️ *NUEVO PEDIDO",
	Greeting: "Hola! Quiero realizar el siguiente pedido:",
	Bullet:   "•",
	Size:     "Talla",
	Quantity: "Cant",
	Subtotal: "Subtotal",
	Total:    "💰 *TOTAL A PAGAR",
	Currency: "$",
}

// Composer renders order messages. The zero value is not usable; build one
// with NewComposer.
type Composer struct {
	labels     Labels
	printer    *message.Printer
	decimalSep string
}

// NewComposer returns a composer formatting amounts for tag.
func NewComposer(labels Labels, tag language.Tag) *Composer {
	p := message.NewPrinter(tag)
	sep := strings.TrimSuffix(strings.TrimPrefix(p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1))), "1"), "5")
	if sep == "" {
		sep = "."
	}
	return &Composer{labels: labels, printer: p, decimalSep: sep}
}

// ParseLocale resolves a BCP 47 locale such as "es" or "es-CO".
func ParseLocale(locale string) (language.Tag, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return tag, nil
}

var defaultComposer = NewComposer(SpanishLabels, language.Spanish)

// DefaultComposer returns the Spanish composer used by ComposeOrderMessage.
func DefaultComposer() *Composer { return defaultComposer }

// ComposeOrderMessage renders lines with the default Spanish template.
func ComposeOrderMessage(storeName string, lines []domain.Line, total decimal.Decimal) string {
	return defaultComposer.Compose(storeName, lines, total)
}

// Compose renders the order. The output depends only on its arguments.
func (c *Composer) Compose(storeName string, lines []domain.Line, total decimal.Decimal) string {
	l := c.labels
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s*\n\n%s\n\n", l.Header, storeName, l.Greeting)
	for _, line := range lines {
		fmt.Fprintf(&b, "%s *%s*\n%s: %s | %s: %d\n%s: %s%s\n\n",
			l.Bullet, line.Name,
			l.Size, line.Size, l.Quantity, line.Quantity,
			l.Subtotal, l.Currency, c.Amount(line.LineTotal()))
	}
	fmt.Fprintf(&b, "%s: %s%s*", l.Total, l.Currency, c.Amount(total))
	return b.String()
}

// Amount formats d with the composer's locale grouping and at most two
// fraction digits. Digits come from the decimal itself, never from a float.
func (c *Composer) Amount(d decimal.Decimal) string {
	rounded := d.Round(2)
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		b.WriteString(c.printer.Sprint(number.Decimal(n)))
	} else {
		b.WriteString(intPart)
	}
	if frac != "" {
		b.WriteString(c.decimalSep)
		b.WriteString(frac)
	}
	return b.String()
}
