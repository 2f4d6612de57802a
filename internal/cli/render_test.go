package cli

import (
	"bytes"
	"testing"
	"time"

	"hytech_pos/internal/register"

	"github.com/alecthomas/types/optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []register.LineItem {
	return []register.LineItem{
		{SKU: "SKU1", Name: "Rice 1kg", Price: decimal.NewFromInt(100), Qty: 2},
		{SKU: "SKU2", Name: "Salt", Price: decimal.RequireFromString("49.99"), Qty: 1},
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹236.00", formatMoney("₹", decimal.NewFromInt(236)))
	assert.Equal(t, "$0.50", formatMoney("$", decimal.RequireFromString("0.5")))
}

func TestWriteBill_Idle(t *testing.T) {
	var buf bytes.Buffer
	writeBill(&buf, register.Snapshot{Phase: register.PhaseIdle}, "₹")

	out := buf.String()
	assert.Contains(t, out, emptyCartText)
	assert.Contains(t, out, "BILL SUMMARY")
	assert.Contains(t, out, "GST (18%)")
	assert.Contains(t, out, "₹0.00")
}

func TestWriteBill_Building(t *testing.T) {
	items := testItems()
	snap := register.Snapshot{
		Phase:  register.PhaseBuilding,
		Items:  items,
		Totals: register.ComputeTotals(items),
	}

	var buf bytes.Buffer
	writeBill(&buf, snap, "₹")

	out := buf.String()
	assert.NotContains(t, out, emptyCartText)
	assert.Contains(t, out, "Rice 1kg")
	assert.Contains(t, out, "₹200.00")
	assert.Contains(t, out, "₹249.99")
	assert.Contains(t, out, "₹45.00")
	assert.Contains(t, out, "₹294.99")
}

func TestWriteBill_Completed(t *testing.T) {
	snap := register.Snapshot{
		Phase:       register.PhaseCompleted,
		LastInvoice: optional.Some("INV-9"),
	}

	var buf bytes.Buffer
	writeBill(&buf, snap, "₹")

	assert.Contains(t, buf.String(), "Sale Complete! Invoice No: INV-9")
	assert.NotContains(t, buf.String(), emptyCartText)
}

func TestWriteNotice(t *testing.T) {
	var buf bytes.Buffer
	writeNotice(&buf, register.Notice{Level: register.NoticeInfo, Message: "Cart voided"})
	writeNotice(&buf, register.Notice{Level: register.NoticeWarning, Message: "Item not found"})
	writeNotice(&buf, register.Notice{Level: register.NoticeError, Message: "Engine disconnected"})

	assert.Equal(t, "[i] Cart voided\n[!] Item not found\n[x] Engine disconnected\n", buf.String())
}

func TestWriteSales(t *testing.T) {
	var buf bytes.Buffer
	writeSales(&buf, nil, decimal.Zero, "₹")
	assert.Equal(t, "No sales yet.\n", buf.String())

	buf.Reset()
	sales := []register.Sale{{
		InvoiceID:   "INV-3",
		Items:       testItems(),
		Total:       decimal.RequireFromString("294.99"),
		CompletedAt: time.Date(2026, 10, 17, 14, 5, 0, 0, time.UTC),
	}}
	writeSales(&buf, sales, decimal.RequireFromString("294.99"), "₹")

	out := buf.String()
	assert.Contains(t, out, "INV-3")
	assert.Contains(t, out, "14:05:00")
	assert.Contains(t, out, "Takings: ₹294.99")
}

func TestNewJSONSnapshot(t *testing.T) {
	items := testItems()
	snap := newJSONSnapshot(register.Snapshot{
		Phase:  register.PhaseBuilding,
		Items:  items,
		Totals: register.ComputeTotals(items),
	})

	require.Len(t, snap.Items, 2)
	assert.Equal(t, "200.00", snap.Items[0].LineTotal)
	assert.Equal(t, "294.99", snap.GrandTotal)
	assert.Nil(t, snap.LastInvoice)
	assert.Nil(t, snap.Draft)

	snap = newJSONSnapshot(register.Snapshot{
		Phase:       register.PhaseCompleted,
		LastInvoice: optional.Some("INV-1"),
		ModalOpen:   true,
		Draft:       register.Draft{SKU: "890123"},
	})
	require.NotNil(t, snap.LastInvoice)
	assert.Equal(t, "INV-1", *snap.LastInvoice)
	require.NotNil(t, snap.Draft)
	assert.Equal(t, "890123", snap.Draft.SKU)
	assert.Empty(t, snap.Items)
}
