package engine

import "github.com/shopspring/decimal"

// Product is what the engine returns for a barcode lookup.
type Product struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock,omitempty"`
}

type CheckoutItem struct {
	SKU   string
	Name  string
	Price decimal.Decimal
	Qty   int
}

type CheckoutRequest struct {
	Items []CheckoutItem
	Total decimal.Decimal
}

type Receipt struct {
	InvoiceID string `json:"invoice_id"`
	Message   string `json:"message,omitempty"`
}

type NewProduct struct {
	SKU   string
	Name  string
	Price decimal.Decimal
	Stock int
}

// The engine expects plain JSON numbers, decimal.Decimal marshals as a string.
type checkoutItemPayload struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type checkoutPayload struct {
	Items []checkoutItemPayload `json:"items"`
	Total float64               `json:"total"`
}

type newProductPayload struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func (r CheckoutRequest) payload() checkoutPayload {
	items := make([]checkoutItemPayload, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, checkoutItemPayload{
			SKU:   item.SKU,
			Name:  item.Name,
			Price: item.Price.InexactFloat64(),
			Qty:   item.Qty,
		})
	}
	return checkoutPayload{Items: items, Total: r.Total.InexactFloat64()}
}

func (p NewProduct) payload() newProductPayload {
	return newProductPayload{
		SKU:   p.SKU,
		Name:  p.Name,
		Price: p.Price.InexactFloat64(),
		Stock: p.Stock,
	}
}
