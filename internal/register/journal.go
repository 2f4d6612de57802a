package register

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultJournalSize = 50

// Sale is one completed checkout.
type Sale struct {
	InvoiceID   string          `json:"invoice_id"`
	Items       []LineItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	CompletedAt time.Time       `json:"completed_at"`
}

func (s Sale) Units() int {
	units := 0
	for _, item := range s.Items {
		units += item.Qty
	}
	return units
}

// Journal keeps the most recent sales of this process in memory, oldest first.
// It is not safe for concurrent use on its own; the Controller guards it.
type Journal struct {
	sales   []Sale
	maxSize int
	logger  *zap.Logger
}

func NewJournal(maxSize int, logger *zap.Logger) *Journal {
	if maxSize <= 0 {
		maxSize = defaultJournalSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		maxSize: maxSize,
		logger:  logger.Named("journal"),
	}
}

func (j *Journal) Append(sale Sale) {
	j.sales = append(j.sales, sale)
	if len(j.sales) <= j.maxSize {
		return
	}

	dropped := len(j.sales) - j.maxSize
	j.sales = append([]Sale(nil), j.sales[dropped:]...)
	j.logger.Info("sales journal trimmed",
		zap.Int("dropped", dropped),
		zap.Int("kept", len(j.sales)),
	)
}

// Sales returns a copy, oldest first.
func (j *Journal) Sales() []Sale {
	if len(j.sales) == 0 {
		return nil
	}
	out := make([]Sale, len(j.sales))
	copy(out, j.sales)
	return out
}

// Last returns up to n of the newest sales, newest first.
func (j *Journal) Last(n int) []Sale {
	if n <= 0 || n > len(j.sales) {
		n = len(j.sales)
	}
	out := make([]Sale, 0, n)
	for i := len(j.sales) - 1; i >= len(j.sales)-n; i-- {
		out = append(out, j.sales[i])
	}
	return out
}

func (j *Journal) Len() int {
	return len(j.sales)
}

// Takings sums the totals of every sale still in the journal.
func (j *Journal) Takings() decimal.Decimal {
	sum := decimal.Zero
	for _, sale := range j.sales {
		sum = sum.Add(sale.Total)
	}
	return sum
}

func (j *Journal) Clear() {
	j.sales = nil
}
