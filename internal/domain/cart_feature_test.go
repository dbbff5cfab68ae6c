package domain_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/checkout"
	"github.com/alfonso816/Tienda/internal/domain"
)

type cartFeature struct {
	cart     *domain.Cart
	products map[string]*domain.Product
	message  string
	link     string
}

func (f *cartFeature) reset() {
	f.cart = domain.NewCart("feature", time.Now(), time.Hour)
	f.products = map[string]*domain.Product{}
	f.message = ""
	f.link = ""
}

func (f *cartFeature) anEmptyCart() error {
	if !f.cart.IsEmpty() {
		return fmt.Errorf("cart has %d lines", len(f.cart.Lines))
	}
	return nil
}

func (f *cartFeature) aProductWithSizes(id, name, price, sizes string) error {
	p, err := f.newProduct(id, name, price)
	if err != nil {
		return err
	}
	p.Sizes = domain.ParseSizes(sizes)
	return nil
}

func (f *cartFeature) aProductWithNoSizes(id, name, price string) error {
	_, err := f.newProduct(id, name, price)
	return err
}

func (f *cartFeature) newProduct(id, name, price string) (*domain.Product, error) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{ID: id, Name: name, Price: d}
	f.products[id] = p
	return p, nil
}

func (f *cartFeature) product(id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("unknown product %q", id)
	}
	return p, nil
}

func (f *cartFeature) iAddProductInSize(id, size string) error {
	p, err := f.product(id)
	if err != nil {
		return err
	}
	if !p.HasSize(size) {
		return fmt.Errorf("product %s has no size %q", id, size)
	}
	if ch := f.cart.AddItem(p, size); !ch.RevealCart {
		return fmt.Errorf("adding did not reveal the cart")
	}
	return nil
}

func (f *cartFeature) iAddProductInDefaultSize(id string) error {
	p, err := f.product(id)
	if err != nil {
		return err
	}
	f.cart.AddItem(p, p.DefaultSize())
	return nil
}

func (f *cartFeature) iChangeTheQuantity(id, size string, delta int) error {
	f.cart.UpdateQuantity(id, size, delta)
	return nil
}

func (f *cartFeature) theCartHasLines(n int) error {
	if len(f.cart.Lines) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(f.cart.Lines))
	}
	return nil
}

func (f *cartFeature) theLineHasQuantity(id, size string, qty int) error {
	i := f.cart.FindLine(id, size)
	if i < 0 {
		return fmt.Errorf("no line %s/%s", id, size)
	}
	if got := f.cart.Lines[i].Quantity; got != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, got)
	}
	return nil
}

func (f *cartFeature) theCartTotalIs(total string) error {
	want, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	if !f.cart.Total().Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, f.cart.Total())
	}
	return nil
}

func (f *cartFeature) iComposeTheOrder(store string) error {
	f.message = checkout.ComposeOrderMessage(store, f.cart.Lines, f.cart.Total())
	return nil
}

func (f *cartFeature) theMessageContains(s string) error {
	if !strings.Contains(f.message, s) {
		return fmt.Errorf("message %q does not contain %q", f.message, s)
	}
	return nil
}

func (f *cartFeature) iBuildTheLink(phone string) error {
	f.link = checkout.BuildHandoffLink(phone, f.message)
	return nil
}

func (f *cartFeature) theLinkStartsWith(prefix string) error {
	if !strings.HasPrefix(f.link, prefix) {
		return fmt.Errorf("link %q does not start with %q", f.link, prefix)
	}
	return nil
}

func (f *cartFeature) theLinkTextDecodes() error {
	u, err := url.Parse(f.link)
	if err != nil {
		return err
	}
	if got := u.Query().Get("text"); got != f.message {
		return fmt.Errorf("decoded text %q differs from message %q", got, f.message)
	}
	return nil
}

func initializeCartScenario(sc *godog.ScenarioContext) {
	f := &cartFeature{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	sc.Step(`^an empty cart$`, f.anEmptyCart)
	sc.Step(`^a product "([^"]*)" named "([^"]*)" priced ([\d.]+) with sizes "([^"]*)"$`, f.aProductWithSizes)
	sc.Step(`^a product "([^"]*)" named "([^"]*)" priced ([\d.]+) with no sizes$`, f.aProductWithNoSizes)
	sc.Step(`^I add product "([^"]*)" in size "([^"]*)"$`, f.iAddProductInSize)
	sc.Step(`^I add product "([^"]*)" in its default size$`, f.iAddProductInDefaultSize)
	sc.Step(`^I change the quantity of "([^"]*)" "([^"]*)" by (-?\d+)$`, f.iChangeTheQuantity)
	sc.Step(`^the cart has (\d+) lines?$`, f.theCartHasLines)
	sc.Step(`^the line "([^"]*)" "([^"]*)" has quantity (\d+)$`, f.theLineHasQuantity)
	sc.Step(`^the cart total is ([\d.]+)$`, f.theCartTotalIs)
	sc.Step(`^I compose the order for store "([^"]*)"$`, f.iComposeTheOrder)
	sc.Step(`^the message contains "([^"]*)"$`, f.theMessageContains)
	sc.Step(`^I build the hand-off link for phone "([^"]*)"$`, f.iBuildTheLink)
	sc.Step(`^the link starts with "([^"]*)"$`, f.theLinkStartsWith)
	sc.Step(`^the link text decodes to the message$`, f.theLinkTextDecodes)
}

func TestCartFeature(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "cart",
		ScenarioInitializer: initializeCartScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("cart feature scenarios failed")
	}
}
