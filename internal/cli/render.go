package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"hytech_pos/internal/register"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	emptyCartText = "No items in cart. Start scanning..."
	banner        = "HYTECH ERP v2.0  |  F2: Add Product  |  F5: Complete Sale  |  /help"
	formHint      = "Add product: one field per line, Enter keeps the shown value, Esc cancels."
)

func formatMoney(currency string, amount decimal.Decimal) string {
	return currency + amount.StringFixed(2)
}

// writeBill prints the cart area followed by the bill summary.
func writeBill(w io.Writer, snap register.Snapshot, currency string) {
	switch snap.Phase {
	case register.PhaseBuilding:
		writeItems(w, snap.Items, currency)
	case register.PhaseCompleted:
		invoice, _ := snap.LastInvoice.Get()
		fmt.Fprintf(w, "\n  Sale Complete! Invoice No: %s\n\n", invoice)
	default:
		fmt.Fprintf(w, "\n  %s\n\n", emptyCartText)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "BILL SUMMARY\t\t")
	fmt.Fprintf(tw, "Subtotal\t%s\t\n", formatMoney(currency, snap.Totals.Subtotal))
	fmt.Fprintf(tw, "GST (18%%)\t%s\t\n", formatMoney(currency, snap.Totals.Tax))
	fmt.Fprintf(tw, "Total\t%s\t\n", formatMoney(currency, snap.Totals.GrandTotal))
	_ = tw.Flush()
}

func writeItems(w io.Writer, items []register.LineItem, currency string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tSKU\tQTY\tPRICE\tTOTAL\t")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n",
			item.Name,
			item.SKU,
			item.Qty,
			formatMoney(currency, item.Price),
			formatMoney(currency, item.LineTotal()),
		)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func writeNotice(w io.Writer, notice register.Notice) {
	prefix := "i"
	switch notice.Level {
	case register.NoticeWarning:
		prefix = "!"
	case register.NoticeError:
		prefix = "x"
	}
	fmt.Fprintf(w, "[%s] %s\n", prefix, notice.Message)
}

func writeSales(w io.Writer, sales []register.Sale, takings decimal.Decimal, currency string) {
	if len(sales) == 0 {
		fmt.Fprintln(w, "No sales yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INVOICE\tTIME\tUNITS\tTOTAL\t")
	for _, sale := range sales {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t\n",
			sale.InvoiceID,
			sale.CompletedAt.Format(time.TimeOnly),
			sale.Units(),
			formatMoney(currency, sale.Total),
		)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Takings: %s\n", formatMoney(currency, takings))
}

func writeHelp(w io.Writer) {
	fmt.Fprintln(w, strings.TrimSpace(`
Scan a barcode and press Enter to add it to the bill.
  F2 / Esc        open / close the add-product form
  F5              complete the sale
  /void           clear the cart without a sale
  /sales          sales completed this shift
  /close          print the shift's sales and start a new shift
  /ask <question> ask the assistant
  exit            quit (also inside the add-product form)`))
}

type jsonLine struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Qty       int    `json:"qty"`
	LineTotal string `json:"line_total"`
}

type jsonSnapshot struct {
	Phase       register.Phase  `json:"phase"`
	Items       []jsonLine      `json:"items"`
	Subtotal    string          `json:"subtotal"`
	Tax         string          `json:"tax"`
	GrandTotal  string          `json:"grand_total"`
	LastInvoice *string         `json:"last_invoice,omitempty"`
	ModalOpen   bool            `json:"modal_open"`
	Draft       *register.Draft `json:"draft,omitempty"`
}

func newJSONSnapshot(snap register.Snapshot) jsonSnapshot {
	out := jsonSnapshot{
		Phase:      snap.Phase,
		Items:      make([]jsonLine, 0, len(snap.Items)),
		Subtotal:   snap.Totals.Subtotal.StringFixed(2),
		Tax:        snap.Totals.Tax.StringFixed(2),
		GrandTotal: snap.Totals.GrandTotal.StringFixed(2),
		ModalOpen:  snap.ModalOpen,
	}
	for _, item := range snap.Items {
		out.Items = append(out.Items, jsonLine{
			SKU:       item.SKU,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			Qty:       item.Qty,
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}
	if invoice, ok := snap.LastInvoice.Get(); ok {
		out.LastInvoice = &invoice
	}
	if snap.ModalOpen {
		draft := snap.Draft
		out.Draft = &draft
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func logSnapshot(logger *zap.Logger, snap register.Snapshot) {
	if logger == nil {
		return
	}
	logger.Debug("bill",
		zap.Stringer("phase", snap.Phase),
		zap.Int("lines", len(snap.Items)),
		zap.String("grand_total", snap.Totals.GrandTotal.StringFixed(2)),
		zap.Bool("modal_open", snap.ModalOpen),
	)
}
