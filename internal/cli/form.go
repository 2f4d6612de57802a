package cli

import (
	"errors"
	"slices"

	"hytech_pos/internal/register"
)

var fieldLabels = map[register.Field]string{
	register.FieldSKU:   "Barcode / SKU",
	register.FieldName:  "Product Name",
	register.FieldPrice: "Price",
	register.FieldStock: "Stock",
}

// productForm walks the cashier through the add-product draft one field per line.
type productForm struct {
	cursor int
}

func (f *productForm) reset() {
	f.cursor = 0
}

// field is the one the next line fills; ok is false once every field is in.
func (f *productForm) field() (register.Field, bool) {
	if f.cursor >= len(register.DraftFields) {
		return "", false
	}
	return register.DraftFields[f.cursor], true
}

func (f *productForm) advance() {
	if f.cursor < len(register.DraftFields) {
		f.cursor++
	}
}

// rewind moves back to the first field validation rejected,
// or stays on the submit step for any other failure.
func (f *productForm) rewind(err error) {
	var vErr *register.ValidationError
	if !errors.As(err, &vErr) {
		return
	}
	if field, ok := vErr.FirstInvalid(); ok {
		f.cursor = slices.Index(register.DraftFields, field)
	}
}
