package register

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hytech_pos/internal/engine"

	"github.com/shopspring/decimal"
)

type Field string

const (
	FieldSKU   Field = "sku"
	FieldName  Field = "name"
	FieldPrice Field = "price"
	FieldStock Field = "stock"
)

// DraftFields lists the add-product form fields in entry order.
var DraftFields = []Field{FieldSKU, FieldName, FieldPrice, FieldStock}

// Draft is the raw add-product form text.
type Draft struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock string `json:"stock"`
}

func (d Draft) Get(field Field) string {
	switch field {
	case FieldSKU:
		return d.SKU
	case FieldName:
		return d.Name
	case FieldPrice:
		return d.Price
	case FieldStock:
		return d.Stock
	default:
		return ""
	}
}

func (d *Draft) Set(field Field, value string) {
	switch field {
	case FieldSKU:
		d.SKU = value
	case FieldName:
		d.Name = value
	case FieldPrice:
		d.Price = value
	case FieldStock:
		d.Stock = value
	}
}

func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// ValidationError holds one message per rejected field.
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[Field(field)]))
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// FirstInvalid returns the earliest rejected field in form order.
func (e *ValidationError) FirstInvalid() (Field, bool) {
	for _, field := range DraftFields {
		if _, ok := e.Fields[field]; ok {
			return field, true
		}
	}
	return "", false
}

// ParseDraft turns form text into a product ready to send, or a
// *ValidationError naming every bad field.
func ParseDraft(d Draft) (engine.NewProduct, error) {
	errs := map[Field]string{}

	sku := strings.TrimSpace(d.SKU)
	if sku == "" {
		errs[FieldSKU] = "required"
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		errs[FieldName] = "required"
	}

	var price decimal.Decimal
	switch raw := strings.TrimSpace(d.Price); {
	case raw == "":
		errs[FieldPrice] = "required"
	default:
		parsed, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			errs[FieldPrice] = fmt.Sprintf("%q is not a number", raw)
		case parsed.IsNegative():
			errs[FieldPrice] = "must not be negative"
		case !parsed.Equal(parsed.Round(2)):
			errs[FieldPrice] = "at most 2 decimal places"
		default:
			price = parsed
		}
	}

	var stock int
	switch raw := strings.TrimSpace(d.Stock); {
	case raw == "":
		errs[FieldStock] = "required"
	default:
		parsed, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs[FieldStock] = fmt.Sprintf("%q is not a whole number", raw)
		case parsed < 0:
			errs[FieldStock] = "must not be negative"
		default:
			stock = parsed
		}
	}

	if len(errs) > 0 {
		return engine.NewProduct{}, &ValidationError{Fields: errs}
	}
	return engine.NewProduct{SKU: sku, Name: name, Price: price, Stock: stock}, nil
}
