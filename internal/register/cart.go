package register

import (
	"github.com/shopspring/decimal"
)

// taxRate is the GST applied to every sale. It is fixed, not configurable.
var taxRate = decimal.RequireFromString("0.18")

type LineItem struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// cart keeps items in first-scan order with at most one entry per SKU.
type cart struct {
	items []LineItem
	index map[string]int
}

func newCart() *cart {
	return &cart{index: make(map[string]int)}
}

// add appends sku with qty 1 or bumps the existing entry, returning the new qty.
func (c *cart) add(sku, name string, price decimal.Decimal) int {
	if i, ok := c.index[sku]; ok {
		c.items[i].Qty++
		return c.items[i].Qty
	}
	c.index[sku] = len(c.items)
	c.items = append(c.items, LineItem{SKU: sku, Name: name, Price: price, Qty: 1})
	return 1
}

func (c *cart) clear() {
	c.items = nil
	c.index = make(map[string]int)
}

func (c *cart) len() int {
	return len(c.items)
}

func (c *cart) snapshot() []LineItem {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ComputeTotals derives the bill for items. An empty slice yields all zeros.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}
