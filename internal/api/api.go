package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/salescast/internal/api/handlers"
	"github.com/andresuchdata/salescast/internal/api/middleware"
	"github.com/andresuchdata/salescast/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Sales     *service.SalesService
	Inventory *service.InventoryService
	Dashboard *service.DashboardService
	Chat      *service.ChatService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	apiGroup := router.Group("/api")

	if services.Sales != nil {
		salesHandler := handlers.NewSalesHandler(services.Sales)
		router.POST("/add_sales", salesHandler.AddSales)
		apiGroup.POST("/add-sale", salesHandler.AddSale)
		apiGroup.GET("/sales-data", salesHandler.ListSales)
		apiGroup.PUT("/update-sales", salesHandler.UpdateSales)
		apiGroup.DELETE("/delete-sale", salesHandler.DeleteSale)
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		router.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	if services.Inventory != nil {
		productHandler := handlers.NewProductHandler(services.Inventory)
		router.POST("/add_product_sales", productHandler.AddProductSales)
		router.GET("/products-dashboard", productHandler.ProductsDashboard)
		apiGroup.GET("/product-sales", productHandler.ListProducts)
		apiGroup.POST("/add_product_stock", productHandler.AddProductStock)
		apiGroup.POST("/restock", productHandler.Restock)
		apiGroup.POST("/sell_product", productHandler.SellProduct)
		apiGroup.DELETE("/delete-product", productHandler.DeleteProduct)
	}

	if services.Chat != nil {
		chatHandler := handlers.NewChatHandler(services.Chat)
		apiGroup.POST("/mistral", chatHandler.Ask)
	}

	router.NoRoute(func(c *gin.Context) {
		errorResponse(c, http.StatusNotFound, "route not found: "+c.Request.URL.Path)
	})

	return router
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Warn().Int("status", statusCode).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
