package register

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type registerTestContext struct {
	catalog    *fakeCatalog
	controller *Controller
	lastNotice Notice
}

func (r *registerTestContext) reset() {
	r.catalog = newFakeCatalog()
	r.controller = NewController(r.catalog, NewJournal(10, nil), zap.NewNop())
	r.lastNotice = Notice{}
	r.controller.Subscribe(func(n Notice) { r.lastNotice = n })
}

func (r *registerTestContext) theEngineStocksNamedAt(sku, name, price string) error {
	r.catalog.stock(sku, name, price)
	return nil
}

func (r *registerTestContext) theEngineWillIssueInvoice(id string) error {
	r.catalog.invoices = append(r.catalog.invoices, id)
	return nil
}

func (r *registerTestContext) iScan(code string) error {
	r.controller.SetScanInput(code)
	_, _ = r.controller.SubmitScan(context.Background())
	return nil
}

func (r *registerTestContext) iPress(key string) error {
	if !r.controller.HandleKey(context.Background(), Key(key)) {
		return fmt.Errorf("key %q is not bound", key)
	}
	return nil
}

func (r *registerTestContext) iFillTheForm(sku, name, price, stock string) error {
	r.controller.UpdateDraft(FieldSKU, sku)
	r.controller.UpdateDraft(FieldName, name)
	r.controller.UpdateDraft(FieldPrice, price)
	r.controller.UpdateDraft(FieldStock, stock)
	return nil
}

func (r *registerTestContext) iSaveTheProduct() error {
	_, err := r.controller.SaveProduct(context.Background())
	return err
}

func (r *registerTestContext) theCartHasLines(n int) error {
	if got := len(r.controller.Snapshot().Items); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (r *registerTestContext) lineIsWithQty(pos int, sku string, qty int) error {
	items := r.controller.Snapshot().Items
	if pos < 1 || pos > len(items) {
		return fmt.Errorf("no line %d in a cart of %d", pos, len(items))
	}
	item := items[pos-1]
	if item.SKU != sku || item.Qty != qty {
		return fmt.Errorf("expected %s x%d at line %d, got %s x%d", sku, qty, pos, item.SKU, item.Qty)
	}
	return nil
}

func equalAmount(label string, got decimal.Decimal, want string) error {
	expected, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(expected) {
		return fmt.Errorf("expected %s %s, got %s", label, expected, got)
	}
	return nil
}

func (r *registerTestContext) theSubtotalIs(want string) error {
	return equalAmount("subtotal", r.controller.Totals().Subtotal, want)
}

func (r *registerTestContext) theTaxIs(want string) error {
	return equalAmount("tax", r.controller.Totals().Tax, want)
}

func (r *registerTestContext) theGrandTotalIs(want string) error {
	return equalAmount("grand total", r.controller.Totals().GrandTotal, want)
}

func (r *registerTestContext) theRegisterIs(phase string) error {
	if got := r.controller.Phase().String(); got != phase {
		return fmt.Errorf("expected phase %s, got %s", phase, got)
	}
	return nil
}

func (r *registerTestContext) theLastInvoiceIs(id string) error {
	got, ok := r.controller.Snapshot().LastInvoice.Get()
	if !ok || got != id {
		return fmt.Errorf("expected last invoice %q, got %q (set=%v)", id, got, ok)
	}
	return nil
}

func (r *registerTestContext) thereIsNoLastInvoice() error {
	if got, ok := r.controller.Snapshot().LastInvoice.Get(); ok {
		return fmt.Errorf("expected no last invoice, got %q", got)
	}
	return nil
}

func (r *registerTestContext) theEngineReceivedCheckouts(n int) error {
	if got := r.catalog.checkoutCount(); got != n {
		return fmt.Errorf("expected %d checkouts, got %d", n, got)
	}
	return nil
}

func (r *registerTestContext) theNoticeSays(message string) error {
	if r.lastNotice.Message != message {
		return fmt.Errorf("expected notice %q, got %q", message, r.lastNotice.Message)
	}
	return nil
}

func (r *registerTestContext) theScanInputIsEmpty() error {
	if got := r.controller.Snapshot().ScanInput; got != "" {
		return fmt.Errorf("expected empty scan input, got %q", got)
	}
	return nil
}

func (r *registerTestContext) theAddProductFormIs(state string) error {
	open := r.controller.ModalOpen()
	if (state == "open") != open {
		return fmt.Errorf("expected the form to be %s", state)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	rc := &registerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the engine stocks "([^"]*)" named "([^"]*)" at ([\d.]+)$`, rc.theEngineStocksNamedAt)
	ctx.Step(`^the engine will issue invoice "([^"]*)"$`, rc.theEngineWillIssueInvoice)

	// When steps
	ctx.Step(`^I scan "([^"]*)"$`, rc.iScan)
	ctx.Step(`^I press "([^"]*)"$`, rc.iPress)
	ctx.Step(`^I fill the form with sku "([^"]*)", name "([^"]*)", price "([^"]*)" and stock "([^"]*)"$`, rc.iFillTheForm)
	ctx.Step(`^I save the product$`, rc.iSaveTheProduct)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines$`, rc.theCartHasLines)
	ctx.Step(`^line (\d+) is "([^"]*)" with qty (\d+)$`, rc.lineIsWithQty)
	ctx.Step(`^the subtotal is ([\d.]+)$`, rc.theSubtotalIs)
	ctx.Step(`^the tax is ([\d.]+)$`, rc.theTaxIs)
	ctx.Step(`^the grand total is ([\d.]+)$`, rc.theGrandTotalIs)
	ctx.Step(`^the register is (idle|building|completed)$`, rc.theRegisterIs)
	ctx.Step(`^the last invoice is "([^"]*)"$`, rc.theLastInvoiceIs)
	ctx.Step(`^there is no last invoice$`, rc.thereIsNoLastInvoice)
	ctx.Step(`^the engine received (\d+) checkouts$`, rc.theEngineReceivedCheckouts)
	ctx.Step(`^the notice says "([^"]*)"$`, rc.theNoticeSays)
	ctx.Step(`^the scan input is empty$`, rc.theScanInputIsEmpty)
	ctx.Step(`^the add-product form is (open|closed)$`, rc.theAddProductFormIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/register.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
