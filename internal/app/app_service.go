package app

import (
	"context"
	"fmt"
	"strconv"

	"warehouse-backend/internal/ai"
	"warehouse-backend/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	products  core.ProductService
	inventory core.InventoryService
	vendors   core.VendorService
	customers core.CustomerService
	purchases core.PurchaseOrderService
	sales     core.SalesOrderService
	reporting core.ReportingService
	agent     *ai.Agent
	registry  *ai.ToolRegistry
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil when no API key is configured; AskAssistant then fails
// with a clear error while everything else keeps working.
func NewAppService(
	pool *pgxpool.Pool,
	products core.ProductService,
	inventory core.InventoryService,
	vendors core.VendorService,
	customers core.CustomerService,
	purchases core.PurchaseOrderService,
	sales core.SalesOrderService,
	reporting core.ReportingService,
	agent *ai.Agent,
) ApplicationService {
	s := &appService{
		pool:      pool,
		products:  products,
		inventory: inventory,
		vendors:   vendors,
		customers: customers,
		purchases: purchases,
		sales:     sales,
		reporting: reporting,
		agent:     agent,
	}
	s.registry = s.buildToolRegistry()
	return s
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	p, err := s.products.CreateProduct(ctx, core.ProductInput{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		CategoryCode: core.CategoryCode(req.CategoryCode),
		Subcategory:  req.Subcategory,
		Brand:        req.Brand,
		Unit:         req.Unit,
		Cost:         req.Cost,
		RetailPrice:  req.RetailPrice,
		FloorPrice:   req.FloorPrice,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, productID int, req UpdateProductRequest) (*ProductResult, error) {
	p, err := s.products.UpdateProduct(ctx, productID, core.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
		RetailPrice: req.RetailPrice,
		FloorPrice:  req.FloorPrice,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

// GetProduct looks up a product by numeric ID or SKU.
func (s *appService) GetProduct(ctx context.Context, ref string) (*ProductResult, error) {
	var p *core.Product
	var err error
	if id, convErr := strconv.Atoi(ref); convErr == nil {
		p, err = s.products.GetProduct(ctx, id)
	} else {
		p, err = s.products.GetProductBySKU(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) ListProducts(ctx context.Context, category string) (*ProductListResult, error) {
	products, err := s.products.GetProducts(ctx, core.CategoryCode(category))
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProductChangeLog(ctx context.Context, productID int) (*ChangeLogResult, error) {
	entries, err := s.products.GetChangeLog(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ChangeLogResult{ProductID: productID, Entries: entries}, nil
}

func (s *appService) RecomputeFloorPrices(ctx context.Context) (int64, error) {
	return s.products.RecomputeFloorPrices(ctx)
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) GetStockLevels(ctx context.Context) (*StockResult, error) {
	levels, err := s.inventory.GetStockLevels(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels}, nil
}

func (s *appService) GetLowStock(ctx context.Context) (*StockResult, error) {
	levels, err := s.inventory.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels}, nil
}

// ── Vendors ───────────────────────────────────────────────────────────────────

func (s *appService) ListVendors(ctx context.Context) (*VendorListResult, error) {
	vendors, err := s.vendors.GetVendors(ctx)
	if err != nil {
		return nil, err
	}
	return &VendorListResult{Vendors: vendors}, nil
}

func (s *appService) CreateVendor(ctx context.Context, req CreateVendorRequest) (*VendorResult, error) {
	v, err := s.vendors.CreateVendor(ctx, core.VendorInput{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return nil, err
	}
	return &VendorResult{Vendor: v}, nil
}

// ── Purchase orders ───────────────────────────────────────────────────────────

func (s *appService) CreatePurchaseOrder(ctx context.Context, req CreatePORequest) (*PurchaseOrderResult, error) {
	items := make([]core.POItemInput, len(req.Lines))
	for i, l := range req.Lines {
		items[i] = core.POItemInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		}
	}
	po, err := s.purchases.CreatePO(ctx, req.VendorID, req.OrderDate, req.ExpectedDate, items, req.Notes)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: po}, nil
}

func (s *appService) ReceivePurchaseOrder(ctx context.Context, poID int) (*ReceiptResult, error) {
	summary, err := s.purchases.ReceivePO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &ReceiptResult{Summary: summary}, nil
}

func (s *appService) CancelPurchaseOrder(ctx context.Context, poID int) (*PurchaseOrderResult, error) {
	po, err := s.purchases.CancelPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: po}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, poID int) (*PurchaseOrderResult, error) {
	po, err := s.purchases.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: po}, nil
}

func (s *appService) ListPurchaseOrders(ctx context.Context, status string) (*PurchaseOrderListResult, error) {
	orders, err := s.purchases.GetPOs(ctx, status)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderListResult{Orders: orders}, nil
}

// ── Customers and payments ────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customers.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error) {
	c, err := s.customers.CreateCustomer(ctx, core.CustomerInput{
		Code:        req.Code,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		GroupTag:    req.GroupTag,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) GetCustomer(ctx context.Context, customerID int) (*CustomerResult, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error) {
	p, err := s.customers.RecordPayment(ctx, req.CustomerID, req.Amount, req.PaymentDate, req.Method)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: p}, nil
}

func (s *appService) ListPayments(ctx context.Context, customerID int) (*PaymentListResult, error) {
	payments, err := s.customers.GetPayments(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{CustomerID: customerID, Payments: payments}, nil
}

// ── Sales orders ──────────────────────────────────────────────────────────────

func (s *appService) CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error) {
	items := make([]core.SOItemInput, len(req.Lines))
	for i, l := range req.Lines {
		items[i] = core.SOItemInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	order, err := s.sales.CreateSalesOrder(ctx, req.CustomerID, items, req.Notes)
	if err != nil {
		return nil, err
	}
	return &SalesOrderResult{Order: order}, nil
}

// GetSalesOrder looks up an order by numeric ID or SO number.
func (s *appService) GetSalesOrder(ctx context.Context, ref string) (*SalesOrderResult, error) {
	var order *core.SalesOrder
	var err error
	if id, convErr := strconv.Atoi(ref); convErr == nil {
		order, err = s.sales.GetOrder(ctx, id)
	} else {
		order, err = s.sales.GetOrderBySONumber(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	return &SalesOrderResult{Order: order}, nil
}

func (s *appService) ListSalesOrders(ctx context.Context, customerID int) (*SalesOrderListResult, error) {
	orders, err := s.sales.GetOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &SalesOrderListResult{Orders: orders}, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) GetInventoryValuation(ctx context.Context) (*core.ValuationReport, error) {
	return s.reporting.GetInventoryValuation(ctx)
}

func (s *appService) GetSalesSummary(ctx context.Context, fromDate, toDate string) ([]core.CustomerSalesSummary, error) {
	return s.reporting.GetSalesSummary(ctx, fromDate, toDate)
}

func (s *appService) GetRecentPriceChanges(ctx context.Context, limit int) ([]core.PriceChangeEntry, error) {
	return s.reporting.GetRecentPriceChanges(ctx, limit)
}

// ── Assistant ─────────────────────────────────────────────────────────────────

func (s *appService) AskAssistant(ctx context.Context, question string) (*AssistantResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("assistant is not configured: set OPENAI_API_KEY")
	}
	answer, err := s.agent.Ask(ctx, question, s.registry)
	if err != nil {
		return nil, err
	}
	return &AssistantResult{Answer: answer.Text, ToolCalls: answer.ToolCalls}, nil
}

func (s *appService) ListTools() []ToolInfo {
	tools := s.registry.All()
	out := make([]ToolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

func (s *appService) ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error) {
	tool, ok := s.registry.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return tool.Handler(ctx, args)
}
