package app

import (
	"context"
	"encoding/json"
	"fmt"

	"warehouse-backend/internal/ai"

	"github.com/invopop/jsonschema"
)

// Tool parameter structs. Schemas are reflected from these so the wire format
// and the handler's expectations cannot drift apart.

type noParams struct{}

type productRefParams struct {
	Ref string `json:"ref" jsonschema:"description=Product numeric ID or SKU"`
}

type listProductsParams struct {
	Category string `json:"category,omitempty" jsonschema:"description=Category code filter such as BEVERAGES or DAIRY; empty for all"`
}

type listPOsParams struct {
	Status string `json:"status,omitempty" jsonschema:"description=PENDING, RECEIVED, or CANCELLED; empty for all"`
}

type salesOrderRefParams struct {
	Ref string `json:"ref" jsonschema:"description=Sales order numeric ID or SO number such as SO-0042"`
}

type salesSummaryParams struct {
	FromDate string `json:"from_date,omitempty" jsonschema:"description=Inclusive lower bound, YYYY-MM-DD"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"description=Inclusive upper bound, YYYY-MM-DD"`
}

type priceChangesParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"description=Maximum entries to return, default 50"`
}

// buildToolRegistry binds each read tool to the service it queries. Every
// handler returns a JSON document the model can quote from.
func (s *appService) buildToolRegistry() *ai.ToolRegistry {
	reg := ai.NewToolRegistry()

	reg.Register(ai.ToolDefinition{
		Name:        "get_stock_levels",
		Description: "Current on-hand quantity and reorder thresholds for every stocked product.",
		InputSchema: schemaFor(noParams{}),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			res, err := s.GetStockLevels(ctx)
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Levels)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_low_stock",
		Description: "Products at or below their reorder level, i.e. candidates for a purchase order.",
		InputSchema: schemaFor(noParams{}),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			res, err := s.GetLowStock(ctx)
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Levels)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_product",
		Description: "A single product with cost, retail price, floor price, and margin.",
		InputSchema: schemaFor(productRefParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			ref := stringParam(params, "ref")
			if ref == "" {
				return "", fmt.Errorf("ref is required")
			}
			res, err := s.GetProduct(ctx, ref)
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Product)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "list_products",
		Description: "Active catalog products, optionally filtered by category code.",
		InputSchema: schemaFor(listProductsParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			res, err := s.ListProducts(ctx, stringParam(params, "category"))
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Products)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_inventory_valuation",
		Description: "Inventory valued at cost and at retail, with the overall potential margin.",
		InputSchema: schemaFor(noParams{}),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			report, err := s.GetInventoryValuation(ctx)
			if err != nil {
				return "", err
			}
			return encodeJSON(report)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_sales_summary",
		Description: "Per-customer order counts, units sold, and revenue within an optional date range.",
		InputSchema: schemaFor(salesSummaryParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			summaries, err := s.GetSalesSummary(ctx, stringParam(params, "from_date"), stringParam(params, "to_date"))
			if err != nil {
				return "", err
			}
			return encodeJSON(summaries)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_recent_price_changes",
		Description: "Newest product price and cost changes from the audit trail.",
		InputSchema: schemaFor(priceChangesParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			entries, err := s.GetRecentPriceChanges(ctx, intParam(params, "limit"))
			if err != nil {
				return "", err
			}
			return encodeJSON(entries)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "list_purchase_orders",
		Description: "Purchase orders with vendor and line items, optionally filtered by status.",
		InputSchema: schemaFor(listPOsParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			res, err := s.ListPurchaseOrders(ctx, stringParam(params, "status"))
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Orders)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_sales_order",
		Description: "A single sales order with customer, line items, and totals.",
		InputSchema: schemaFor(salesOrderRefParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			ref := stringParam(params, "ref")
			if ref == "" {
				return "", fmt.Errorf("ref is required")
			}
			res, err := s.GetSalesOrder(ctx, ref)
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Order)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "list_customers",
		Description: "Customers with credit limits and current balances.",
		InputSchema: schemaFor(noParams{}),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			res, err := s.ListCustomers(ctx)
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Customers)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "list_vendors",
		Description: "Active vendors with contact details.",
		InputSchema: schemaFor(noParams{}),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			res, err := s.ListVendors(ctx)
			if err != nil {
				return "", err
			}
			return encodeJSON(res.Vendors)
		},
	})

	return reg
}

// schemaFor reflects a JSON schema map from a params struct.
func schemaFor(v any) map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		// Reflection over our own static structs cannot fail at runtime.
		panic(fmt.Sprintf("reflect tool schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		panic(fmt.Sprintf("decode tool schema: %v", err))
	}
	return m
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(raw), nil
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return 0
}
