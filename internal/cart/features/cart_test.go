package features

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/models"
)

type cartTestContext struct {
	products map[int64]models.Product
	state    models.CartState
}

func (c *cartTestContext) reset() {
	c.products = map[int64]models.Product{}
	c.state = cart.Empty()
}

func (c *cartTestContext) aProductPriced(id int64, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.products[id] = models.Product{
		ID:       id,
		Name:     fmt.Sprintf("product %d", id),
		Price:    p,
		Category: "test",
	}
	return nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.state = cart.Empty()
	return nil
}

func (c *cartTestContext) iAddProductToTheCart(id int64) error {
	p, ok := c.products[id]
	if !ok {
		return fmt.Errorf("unknown product %d", id)
	}
	c.state = cart.Apply(c.state, cart.AddToCart{Product: p})
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfProductTo(id int64, quantity int) error {
	c.state = cart.Apply(c.state, cart.UpdateQuantity{ID: id, Quantity: quantity})
	return nil
}

func (c *cartTestContext) iRemoveProductFromTheCart(id int64) error {
	c.state = cart.Apply(c.state, cart.RemoveFromCart{ID: id})
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.state = cart.Apply(c.state, cart.ClearCart{})
	return nil
}

func (c *cartTestContext) iToggleTheCartPanel() error {
	c.state = cart.Apply(c.state, cart.ToggleCartPanel{})
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if len(c.state.Lines) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(c.state.Lines))
	}
	return nil
}

func (c *cartTestContext) theItemCountIs(n int) error {
	if c.state.ItemCount != n {
		return fmt.Errorf("expected item count %d, got %d", n, c.state.ItemCount)
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want string) error {
	d, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !d.Equal(c.state.Subtotal) {
		return fmt.Errorf("expected subtotal %s, got %s", d, c.state.Subtotal)
	}
	return nil
}

func (c *cartTestContext) theCartPanelIsOpen() error {
	if !c.state.IsOpen {
		return fmt.Errorf("expected cart panel to be open")
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a product (\d+) priced ([\d.]+)$`, tc.aProductPriced)
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When steps
	ctx.Step(`^I add product (\d+) to the cart$`, tc.iAddProductToTheCart)
	ctx.Step(`^I set the quantity of product (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)
	ctx.Step(`^I remove product (\d+) from the cart$`, tc.iRemoveProductFromTheCart)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^I toggle the cart panel$`, tc.iToggleTheCartPanel)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the subtotal is ([\d.]+)$`, tc.theSubtotalIs)
	ctx.Step(`^the cart panel is open$`, tc.theCartPanelIsOpen)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
