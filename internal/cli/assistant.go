package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hytech_pos/internal/engine"
	"hytech_pos/internal/llm"
	"hytech_pos/internal/register"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

const (
	maxToolRounds     = 4
	defaultSalesLimit = 10
)

// chatter is the part of *llm.Client the assistant needs.
type chatter interface {
	Enabled() bool
	Chat(ctx context.Context, messages []openrouter.ChatCompletionMessage, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error)
}

// toolbox answers the assistant's tool calls from the live register.
type toolbox struct {
	controller *register.Controller
	catalog    register.Catalog
	currency   string
}

type answer struct {
	Question  string           `json:"question"`
	Text      string           `json:"answer_text"`
	ToolCalls []toolCallRecord `json:"tool_calls,omitempty"`
}

type toolCallRecord struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
	MS   int64          `json:"ms"`
	OK   bool           `json:"ok"`
	Err  string         `json:"err,omitempty"`
}

func runAssistant(ctx context.Context, logger *zap.Logger, client chatter, tools toolbox, question string) (answer, error) {
	if client == nil || !client.Enabled() {
		return answer{}, llm.ErrNotConfigured
	}

	messages := []openrouter.ChatCompletionMessage{
		openrouter.SystemMessage(llm.SystemPrompt(tools.currency)),
		openrouter.UserMessage(question),
	}
	var records []toolCallRecord

	for round := 0; round < maxToolRounds; round++ {
		resp, err := client.Chat(ctx, messages, llm.ToolSchemas())
		if err != nil {
			return answer{}, fmt.Errorf("assistant: %w", err)
		}
		if len(resp.Choices) == 0 {
			return answer{}, errors.New("assistant returned an empty response")
		}

		msg := resp.Choices[0].Message
		logger.Debug("assistant reply",
			zap.Int("round", round),
			zap.String("content", msg.Content.Text),
			zap.Int("tool_calls", len(msg.ToolCalls)),
		)

		if len(msg.ToolCalls) == 0 {
			return answer{
				Question:  question,
				Text:      strings.TrimSpace(msg.Content.Text),
				ToolCalls: records,
			}, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			payload, record := tools.execute(ctx, logger, call)
			records = append(records, record)
			messages = append(messages, openrouter.ToolMessage(call.ID, payload))
		}
	}

	return answer{
		Question:  question,
		Text:      "The assistant could not finish within its step limit. Try a narrower question.",
		ToolCalls: records,
	}, nil
}

// execute never fails the conversation: tool errors go back to the model as
// an {"error": ...} payload.
func (t toolbox) execute(ctx context.Context, logger *zap.Logger, call llm.ToolCall) (string, toolCallRecord) {
	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			record := toolCallRecord{Name: call.Function.Name, OK: false, Err: fmt.Sprintf("invalid tool args: %v", err)}
			logToolRecord(logger, record)
			return toolErrorPayload(record.Err), record
		}
	}

	result, record, err := trackCall(logger, call.Function.Name, args, func() (any, error) {
		return t.dispatch(ctx, call.Function.Name, args)
	})
	if err != nil {
		return toolErrorPayload(err.Error()), record
	}

	payload, err := json.Marshal(result)
	if err != nil {
		record.OK = false
		record.Err = err.Error()
		return toolErrorPayload(err.Error()), record
	}
	return string(payload), record
}

func (t toolbox) dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case llm.ToolGetBill:
		return newJSONSnapshot(t.controller.Snapshot()), nil
	case llm.ToolSearchProduct:
		sku, _ := getStringArg(args, "sku")
		product, err := t.catalog.Search(ctx, sku)
		if errors.Is(err, engine.ErrNotFound) {
			return map[string]any{"found": false, "sku": sku}, nil
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"found": true,
			"sku":   product.SKU,
			"name":  product.Name,
			"price": product.Price.StringFixed(2),
			"stock": product.Stock,
		}, nil
	case llm.ToolListSales:
		limit := getIntArg(args, "limit", defaultSalesLimit)
		sales := t.controller.RecentSales(limit)
		out := make([]map[string]any, 0, len(sales))
		for _, sale := range sales {
			out = append(out, map[string]any{
				"invoice_id":   sale.InvoiceID,
				"total":        sale.Total.StringFixed(2),
				"units":        sale.Units(),
				"completed_at": sale.CompletedAt.Format(time.RFC3339),
			})
		}
		return map[string]any{
			"sales":   out,
			"takings": t.controller.Takings().StringFixed(2),
		}, nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func trackCall[T any](logger *zap.Logger, name string, args map[string]any, fn func() (T, error)) (T, toolCallRecord, error) {
	start := time.Now()
	result, err := fn()
	record := toolCallRecord{
		Name: name,
		Args: args,
		MS:   time.Since(start).Milliseconds(),
		OK:   err == nil,
	}
	if err != nil {
		record.Err = err.Error()
	}
	logToolRecord(logger, record)
	return result, record, err
}

func logToolRecord(logger *zap.Logger, record toolCallRecord) {
	logger.Info("tool call",
		zap.String("name", record.Name),
		zap.Any("args", record.Args),
		zap.Int64("ms", record.MS),
		zap.Bool("ok", record.OK),
		zap.String("err", record.Err),
	)
}

func getStringArg(args map[string]any, key string) (string, bool) {
	value, ok := args[key]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func getIntArg(args map[string]any, key string, fallback int) int {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func toolErrorPayload(message string) string {
	encoded, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, message)
	}
	return string(encoded)
}
