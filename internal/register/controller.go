package register

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hytech_pos/internal/engine"

	"github.com/alecthomas/types/optional"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyScan = errors.New("scan input is empty")
	ErrCartEmpty = errors.New("cart is empty")
	ErrBusy      = errors.New("checkout in progress")
)

const (
	msgNotFound     = "Item not found. Press F2 to add it!"
	msgDisconnected = "Engine disconnected"
	msgBusy         = "Checkout in progress, wait for the invoice"
	msgSaveFailed   = "Database error!"
)

// Catalog is the backend the register depends on.
type Catalog interface {
	Search(ctx context.Context, sku string) (engine.Product, error)
	Checkout(ctx context.Context, req engine.CheckoutRequest, idempotencyKey string) (engine.Receipt, error)
	AddProduct(ctx context.Context, product engine.NewProduct) error
}

// Snapshot is a point-in-time copy of the register state.
type Snapshot struct {
	Phase           Phase
	Items           []LineItem
	Totals          Totals
	ScanInput       string
	LastInvoice     optional.Option[string]
	ModalOpen       bool
	Draft           Draft
	CheckoutPending bool
}

// Controller owns one register session: cart, scan input, last invoice,
// the add-product draft and modal. It is safe for concurrent use.
type Controller struct {
	catalog Catalog
	journal *Journal
	keymap  Keymap
	logger  *zap.Logger
	now     func() time.Time
	newKey  func() string

	mu             sync.Mutex
	cart           *cart
	phase          Phase
	scanInput      string
	invoice        optional.Option[string]
	draft          Draft
	modalOpen      bool
	checkingOut    bool
	checkoutKey    string
	pendingLookups int
	seq            sequencer

	subsMu      sync.Mutex
	subscribers map[int]func(Notice)
	nextSub     int
}

func NewController(catalog Catalog, journal *Journal, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if journal == nil {
		journal = NewJournal(defaultJournalSize, logger)
	}
	return &Controller{
		catalog:     catalog,
		journal:     journal,
		keymap:      DefaultKeymap(),
		logger:      logger.Named("register"),
		now:         time.Now,
		newKey:      uuid.NewString,
		cart:        newCart(),
		phase:       PhaseIdle,
		subscribers: make(map[int]func(Notice)),
	}
}

// Subscribe registers fn for every notice raised after this call. Notices are
// delivered synchronously, outside the controller lock.
func (c *Controller) Subscribe(fn func(Notice)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subscribers, id)
		c.subsMu.Unlock()
	}
}

func (c *Controller) publish(level NoticeLevel, kind NoticeKind, message string) {
	notice := Notice{Level: level, Kind: kind, Message: message}

	c.subsMu.Lock()
	subs := make([]func(Notice), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range subs {
		fn(notice)
	}
}

func (c *Controller) SetScanInput(text string) {
	c.mu.Lock()
	c.scanInput = text
	c.mu.Unlock()
}

// SubmitScan commits the pending scan input. Whitespace-only input is ignored
// and left in place.
func (c *Controller) SubmitScan(ctx context.Context) (LineItem, error) {
	c.mu.Lock()
	code := c.scanInput
	c.mu.Unlock()

	return c.Lookup(ctx, code)
}

// Lookup searches the engine for code and adds the product to the cart.
// The scan input is cleared whatever the outcome.
func (c *Controller) Lookup(ctx context.Context, code string) (LineItem, error) {
	sku := strings.TrimSpace(code)
	if sku == "" {
		return LineItem{}, ErrEmptyScan
	}

	c.mu.Lock()
	c.scanInput = ""
	if c.checkingOut {
		c.mu.Unlock()
		c.publish(NoticeWarning, NoticeBusy, msgBusy)
		return LineItem{}, ErrBusy
	}
	c.pendingLookups++
	t := c.seq.next()
	c.mu.Unlock()
	defer t.done()

	product, err := c.catalog.Search(ctx, sku)
	t.wait()

	c.mu.Lock()
	c.pendingLookups--
	if err != nil {
		c.mu.Unlock()
		c.lookupFailed(sku, err)
		return LineItem{}, err
	}

	qty := c.cart.add(product.SKU, product.Name, product.Price)
	c.invoice = optional.None[string]()
	c.phase = PhaseBuilding
	c.checkoutKey = ""
	item := LineItem{SKU: product.SKU, Name: product.Name, Price: product.Price, Qty: qty}
	c.mu.Unlock()

	c.logger.Info("item scanned",
		zap.String("sku", item.SKU),
		zap.String("name", item.Name),
		zap.String("price", item.Price.String()),
		zap.Int("qty", item.Qty),
	)
	return item, nil
}

func (c *Controller) lookupFailed(sku string, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		c.logger.Info("item not found", zap.String("sku", sku))
		c.publish(NoticeWarning, NoticeNotFound, msgNotFound)
	case errors.Is(err, context.Canceled):
		c.logger.Info("lookup cancelled", zap.String("sku", sku))
	default:
		c.logger.Error("lookup failed", zap.String("sku", sku), zap.Error(err))
		c.publish(NoticeError, NoticeDisconnected, msgDisconnected)
	}
}

// Checkout completes the sale. An empty cart is a no-op returning
// ErrCartEmpty without touching the engine.
func (c *Controller) Checkout(ctx context.Context) (Sale, error) {
	c.mu.Lock()
	if c.checkingOut {
		c.mu.Unlock()
		c.publish(NoticeWarning, NoticeBusy, msgBusy)
		return Sale{}, ErrBusy
	}
	if c.cart.len() == 0 && c.pendingLookups == 0 {
		c.mu.Unlock()
		return Sale{}, ErrCartEmpty
	}
	c.checkingOut = true
	t := c.seq.next()
	c.mu.Unlock()
	defer t.done()

	// Scans submitted before F5 belong to this sale.
	t.wait()

	c.mu.Lock()
	if c.cart.len() == 0 {
		c.checkingOut = false
		c.mu.Unlock()
		return Sale{}, ErrCartEmpty
	}
	items := c.cart.snapshot()
	totals := ComputeTotals(items)
	if c.checkoutKey == "" {
		c.checkoutKey = c.newKey()
	}
	key := c.checkoutKey
	c.mu.Unlock()

	req := engine.CheckoutRequest{Total: totals.GrandTotal, Items: make([]engine.CheckoutItem, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, engine.CheckoutItem{SKU: item.SKU, Name: item.Name, Price: item.Price, Qty: item.Qty})
	}

	receipt, err := c.catalog.Checkout(ctx, req, key)

	c.mu.Lock()
	c.checkingOut = false
	if err != nil {
		c.mu.Unlock()
		c.checkoutFailed(key, err)
		return Sale{}, err
	}

	sale := Sale{
		InvoiceID:   receipt.InvoiceID,
		Items:       items,
		Total:       totals.GrandTotal,
		CompletedAt: c.now(),
	}
	c.invoice = optional.Some(receipt.InvoiceID)
	c.cart.clear()
	c.scanInput = ""
	c.phase = PhaseCompleted
	c.checkoutKey = ""
	c.journal.Append(sale)
	c.mu.Unlock()

	c.logger.Info("sale completed",
		zap.String("invoice_id", sale.InvoiceID),
		zap.Int("lines", len(sale.Items)),
		zap.Int("units", sale.Units()),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	c.publish(NoticeInfo, NoticeSaleCompleted, fmt.Sprintf("Sale complete! Invoice No: %s", sale.InvoiceID))
	return sale, nil
}

func (c *Controller) checkoutFailed(key string, err error) {
	if errors.Is(err, context.Canceled) {
		c.logger.Warn("checkout cancelled", zap.String("idempotency_key", key))
		return
	}
	c.logger.Error("checkout failed", zap.String("idempotency_key", key), zap.Error(err))

	var apiErr *engine.APIError
	switch {
	case errors.As(err, &apiErr):
		c.publish(NoticeError, NoticeCheckoutFailed, fmt.Sprintf("Checkout rejected (%s). The cart is unchanged.", apiErr.Status))
	case errors.Is(err, engine.ErrMissingInvoice):
		c.publish(NoticeError, NoticeCheckoutFailed, "Checkout returned no invoice number. Press F5 to retry.")
	default:
		c.publish(NoticeError, NoticeDisconnected, "Engine disconnected during checkout. The sale may already be recorded; press F5 to retry it safely.")
	}
}

// SaveProduct validates the draft and registers the product with the engine.
func (c *Controller) SaveProduct(ctx context.Context) (engine.NewProduct, error) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	product, err := ParseDraft(draft)
	if err != nil {
		c.logger.Info("product draft rejected", zap.Error(err))
		c.publish(NoticeWarning, NoticeProductInvalid, err.Error())
		return engine.NewProduct{}, err
	}

	if err := c.catalog.AddProduct(ctx, product); err != nil {
		c.logger.Error("add product failed", zap.String("sku", product.SKU), zap.Error(err))
		c.publish(NoticeError, NoticeSaveFailed, msgSaveFailed)
		return engine.NewProduct{}, err
	}

	c.mu.Lock()
	c.modalOpen = false
	if c.draft == draft {
		c.draft = Draft{}
	}
	c.mu.Unlock()

	c.logger.Info("product saved",
		zap.String("sku", product.SKU),
		zap.String("name", product.Name),
		zap.String("price", product.Price.String()),
		zap.Int("stock", product.Stock),
	)
	c.publish(NoticeInfo, NoticeProductSaved, fmt.Sprintf("%s saved successfully!", product.Name))
	return product, nil
}

// Void empties the cart without a sale.
func (c *Controller) Void() error {
	c.mu.Lock()
	if c.checkingOut {
		c.mu.Unlock()
		c.publish(NoticeWarning, NoticeBusy, msgBusy)
		return ErrBusy
	}
	if c.cart.len() == 0 {
		c.mu.Unlock()
		return ErrCartEmpty
	}
	lines := c.cart.len()
	c.cart.clear()
	c.scanInput = ""
	c.checkoutKey = ""
	c.phase = PhaseIdle
	c.mu.Unlock()

	c.logger.Info("cart voided", zap.Int("lines", lines))
	c.publish(NoticeInfo, NoticeCartVoided, "Cart voided")
	return nil
}

// HandleKey runs the action bound to key. It reports whether the key was
// consumed, in which case the front-end must not apply its own default.
func (c *Controller) HandleKey(ctx context.Context, key Key) bool {
	action, ok := c.keymap[key]
	if !ok {
		return false
	}
	c.logger.Debug("shortcut", zap.String("key", string(key)))
	action(ctx, c)
	return true
}

func (c *Controller) OpenModal() {
	c.mu.Lock()
	c.modalOpen = true
	c.mu.Unlock()
}

// CloseModal hides the add-product form and discards the draft.
func (c *Controller) CloseModal() {
	c.mu.Lock()
	c.modalOpen = false
	c.discardDraftLocked()
	c.mu.Unlock()
}

func (c *Controller) ToggleModal() {
	c.mu.Lock()
	c.modalOpen = !c.modalOpen
	if !c.modalOpen {
		c.discardDraftLocked()
	}
	c.mu.Unlock()
}

func (c *Controller) discardDraftLocked() {
	if c.draft.IsEmpty() {
		return
	}
	c.logger.Debug("product draft discarded", zap.String("sku", c.draft.SKU))
	c.draft = Draft{}
}

func (c *Controller) ModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalOpen
}

func (c *Controller) UpdateDraft(field Field, value string) {
	c.mu.Lock()
	c.draft.Set(field, value)
	c.mu.Unlock()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeTotals(c.cart.items)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.cart.snapshot()
	return Snapshot{
		Phase:           c.phase,
		Items:           items,
		Totals:          ComputeTotals(items),
		ScanInput:       c.scanInput,
		LastInvoice:     c.invoice,
		ModalOpen:       c.modalOpen,
		Draft:           c.draft,
		CheckoutPending: c.checkingOut,
	}
}

// Takings sums the sales still held in the journal.
func (c *Controller) Takings() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journal.Takings()
}

// RecentSales returns up to n of the newest completed sales, newest first.
func (c *Controller) RecentSales(n int) []Sale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journal.Last(n)
}

// SalesCount is the number of sales held since start or the last shift close.
func (c *Controller) SalesCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journal.Len()
}

// CloseShift hands back every sale of the shift, oldest first, with their
// takings, and starts an empty journal.
func (c *Controller) CloseShift() ([]Sale, decimal.Decimal) {
	c.mu.Lock()
	sales := c.journal.Sales()
	takings := c.journal.Takings()
	c.journal.Clear()
	c.mu.Unlock()

	c.logger.Info("shift closed",
		zap.Int("sales", len(sales)),
		zap.String("takings", takings.StringFixed(2)),
	)
	return sales, takings
}
