package register

import (
	"context"
	"fmt"
	"sync"

	"hytech_pos/internal/engine"

	"github.com/shopspring/decimal"
)

// fakeCatalog is an in-memory engine. Errors set on it are returned by the
// next matching call and then kept until cleared.
type fakeCatalog struct {
	mu          sync.Mutex
	products    map[string]engine.Product
	searchErr   error
	checkoutErr error
	addErr      error
	invoices    []string

	searches  []string
	checkouts []fakeCheckout
	added     []engine.NewProduct

	// gates lets a test hold a search until it closes the channel.
	gates map[string]chan struct{}
}

type fakeCheckout struct {
	req engine.CheckoutRequest
	key string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[string]engine.Product{},
		gates:    map[string]chan struct{}{},
	}
}

func (f *fakeCatalog) stock(sku, name, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[sku] = engine.Product{SKU: sku, Name: name, Price: decimal.RequireFromString(price)}
}

func (f *fakeCatalog) Search(ctx context.Context, sku string) (engine.Product, error) {
	f.mu.Lock()
	f.searches = append(f.searches, sku)
	gate := f.gates[sku]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return engine.Product{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return engine.Product{}, f.searchErr
	}
	product, ok := f.products[sku]
	if !ok {
		return engine.Product{}, fmt.Errorf("%w: %s", engine.ErrNotFound, sku)
	}
	return product, nil
}

func (f *fakeCatalog) Checkout(_ context.Context, req engine.CheckoutRequest, key string) (engine.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkouts = append(f.checkouts, fakeCheckout{req: req, key: key})
	if f.checkoutErr != nil {
		return engine.Receipt{}, f.checkoutErr
	}
	id := fmt.Sprintf("INV-%d", len(f.checkouts))
	if len(f.invoices) > 0 {
		id, f.invoices = f.invoices[0], f.invoices[1:]
	}
	return engine.Receipt{InvoiceID: id, Message: "Success"}, nil
}

func (f *fakeCatalog) AddProduct(_ context.Context, product engine.NewProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, product)
	if f.addErr != nil {
		return f.addErr
	}
	f.products[product.SKU] = engine.Product{SKU: product.SKU, Name: product.Name, Price: product.Price, Stock: product.Stock}
	return nil
}

func (f *fakeCatalog) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeCatalog) checkoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checkouts)
}
