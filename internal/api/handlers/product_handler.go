package handlers

import (
	"net/http"

	"github.com/andresuchdata/salescast/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	inventoryService *service.InventoryService
}

func NewProductHandler(inventoryService *service.InventoryService) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService}
}

type productSalesRequest struct {
	Product   string `json:"product"`
	LastSales *int   `json:"last_sales"`
	Stock     *int   `json:"stock"`
}

type addStockRequest struct {
	Product    string `json:"product"`
	AddedStock *int   `json:"added_stock"`
}

type restockRequest struct {
	ProductName string `json:"productName"`
	Quantity    *int   `json:"quantity"`
}

type sellRequest struct {
	Product      string `json:"product"`
	SoldQuantity *int   `json:"sold_quantity"`
}

type deleteProductRequest struct {
	Product string `json:"product"`
}

func (h *ProductHandler) AddProductSales(c *gin.Context) {
	var req productSalesRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.LastSales == nil {
		respondError(c, required("last_sales"))
		return
	}
	if req.Stock == nil {
		respondError(c, required("stock"))
		return
	}

	rec, created, err := h.inventoryService.UpsertProductSales(c.Request.Context(), req.Product, *req.LastSales, *req.Stock)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Product updated successfully"
	if created {
		message = "Product added successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "data": rec})
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	records, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ProductsDashboard returns the projected demand of every product.
func (h *ProductHandler) ProductsDashboard(c *gin.Context) {
	predictions, err := h.inventoryService.ProjectedDemand(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

func (h *ProductHandler) AddProductStock(c *gin.Context) {
	var req addStockRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AddedStock == nil {
		respondError(c, required("added_stock"))
		return
	}
	h.addStock(c, req.Product, *req.AddedStock)
}

// Restock is the frontend's spelling of AddProductStock.
func (h *ProductHandler) Restock(c *gin.Context) {
	var req restockRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil {
		respondError(c, required("quantity"))
		return
	}
	h.addStock(c, req.ProductName, *req.Quantity)
}

func (h *ProductHandler) addStock(c *gin.Context, product string, delta int) {
	records, err := h.inventoryService.AddStock(c.Request.Context(), product, delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "data": records})
}

func (h *ProductHandler) SellProduct(c *gin.Context) {
	var req sellRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.SoldQuantity == nil {
		respondError(c, required("sold_quantity"))
		return
	}

	rec, err := h.inventoryService.Sell(c.Request.Context(), req.Product, *req.SoldQuantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product sold successfully", "data": rec})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	var req deleteProductRequest
	if !bindJSON(c, &req) {
		return
	}

	remaining, err := h.inventoryService.Delete(c.Request.Context(), req.Product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product '" + req.Product + "' deleted successfully",
		"data":    remaining,
	})
}
