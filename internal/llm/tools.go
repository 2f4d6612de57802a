package llm

import openrouter "github.com/revrost/go-openrouter"

const (
	ToolGetBill       = "GetBill"
	ToolSearchProduct = "SearchProduct"
	ToolListSales     = "ListSales"
)

func ToolSchemas() []openrouter.Tool {
	return []openrouter.Tool{
		getBillTool(),
		searchProductTool(),
		listSalesTool(),
	}
}

func getBillTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        ToolGetBill,
			Description: "Current bill of the register: phase (idle, building, completed), cart lines with sku, name, price, qty and line_total, subtotal, tax (18% GST), grand_total, and the last invoice number when a sale was just completed.",
			Parameters: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
		},
	}
}

func searchProductTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        ToolSearchProduct,
			Description: "Look up a product by exact barcode / SKU in the inventory engine. Returns found=false when the engine does not know it. Does not add anything to the cart.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sku": map[string]any{
						"type":        "string",
						"description": "Exact barcode or SKU.",
					},
				},
				"required":             []string{"sku"},
				"additionalProperties": false,
			},
		},
	}
}

func listSalesTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        ToolListSales,
			Description: "Sales completed on this register since it started, newest first, with invoice_id, total, units and completed_at, plus the takings of every sale the register still remembers.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of sales to return (default: 10).",
					},
				},
				"additionalProperties": false,
			},
		},
	}
}
