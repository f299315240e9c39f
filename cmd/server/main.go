package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "warehouse-backend/internal/adapters/web"
	"warehouse-backend/internal/ai"
	"warehouse-backend/internal/app"
	"warehouse-backend/internal/core"
	"warehouse-backend/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	policy := core.DefaultSalesPolicy
	if os.Getenv("ENFORCE_CREDIT_LIMIT") == "false" {
		policy.EnforceCreditLimit = false
	}

	productService := core.NewProductService(pool)
	inventoryService := core.NewInventoryService(pool)
	vendorService := core.NewVendorService(pool)
	customerService := core.NewCustomerService(pool)
	purchaseService := core.NewPurchaseOrderService(pool, inventoryService)
	salesService := core.NewSalesOrderService(pool, inventoryService, policy)
	reportingService := core.NewReportingService(pool)

	apiKey := os.Getenv("OPENAI_API_KEY")
	var agent *ai.Agent
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, assistant endpoints disabled")
	} else {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(pool, productService, inventoryService, vendorService,
		customerService, purchaseService, salesService, reportingService, agent)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
