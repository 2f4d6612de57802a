package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hytech_pos/internal/config"
	"hytech_pos/internal/engine"
	"hytech_pos/internal/llm"
	"hytech_pos/internal/register"

	"go.uber.org/zap/zaptest"
)

// stubEngine serves the inventory engine's three endpoints from memory.
type stubEngine struct {
	mu        sync.Mutex
	products  map[string]map[string]any
	checkouts []map[string]any
	added     []map[string]any
	keys      []string
	searches  int
}

func newStubEngine() *stubEngine {
	return &stubEngine{products: map[string]map[string]any{
		"SKU1": {"sku": "SKU1", "name": "Rice 1kg", "price": 100, "stock": 12},
		"SKU2": {"sku": "SKU2", "name": "Salt", "price": 50, "stock": 3},
	}}
}

func (e *stubEngine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch r.URL.Path {
	case "/api/search":
		e.searches++
		product, ok := e.products[r.URL.Query().Get("sku")]
		if !ok {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		respondJSON(w, product)
	case "/api/checkout":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		e.checkouts = append(e.checkouts, body)
		e.keys = append(e.keys, r.Header.Get("Idempotency-Key"))
		respondJSON(w, map[string]string{"message": "Success", "invoice_id": fmt.Sprintf("INV-%d", len(e.checkouts))})
	case "/api/add-product":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		e.added = append(e.added, body)
		respondJSON(w, map[string]string{"message": "Product saved successfully!"})
	default:
		http.NotFound(w, r)
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type testRunner struct {
	runner *Runner
	engine *stubEngine
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestRunner(t *testing.T, input string) testRunner {
	t.Helper()
	stub := newStubEngine()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.EngineURL = srv.URL
	cfg.Timeout = 2 * time.Second

	logger := zaptest.NewLogger(t)
	client := engine.NewClient(cfg, logger)
	controller := register.NewController(client, register.NewJournal(cfg.JournalSize, logger), logger)

	runner := NewRunner(cfg, logger, controller, client, llm.NewClient(cfg, logger))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	runner.in = strings.NewReader(input)
	runner.out = out
	runner.errOut = errOut
	runner.interactive = false

	return testRunner{runner: runner, engine: stub, out: out, errOut: errOut}
}
