package handlers

import (
	"net/http"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/service"
	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	salesService *service.SalesService
}

func NewSalesHandler(salesService *service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

type addSaleRequest struct {
	Month string `json:"month"`
	Sales *int   `json:"sales"`
}

type updateSalesRequest struct {
	Data []domain.SalesRecord `json:"data"`
}

type deleteSaleRequest struct {
	Month string `json:"month"`
}

func (h *SalesHandler) parseAddSale(c *gin.Context) (domain.SalesRecord, bool) {
	var req addSaleRequest
	if !bindJSON(c, &req) {
		return domain.SalesRecord{}, false
	}
	if req.Sales == nil {
		respondError(c, required("sales"))
		return domain.SalesRecord{}, false
	}
	return domain.SalesRecord{Period: req.Month, Amount: *req.Sales}, true
}

// AddSales appends a record and echoes it back.
func (h *SalesHandler) AddSales(c *gin.Context) {
	rec, ok := h.parseAddSale(c)
	if !ok {
		return
	}

	if _, err := h.salesService.Add(c.Request.Context(), rec.Period, rec.Amount); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sales data added successfully", "data": rec})
}

// AddSale appends a record and returns the whole list.
func (h *SalesHandler) AddSale(c *gin.Context) {
	rec, ok := h.parseAddSale(c)
	if !ok {
		return
	}

	records, err := h.salesService.Add(c.Request.Context(), rec.Period, rec.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale added successfully", "data": records})
}

func (h *SalesHandler) ListSales(c *gin.Context) {
	records, err := h.salesService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *SalesHandler) UpdateSales(c *gin.Context) {
	var req updateSalesRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		respondError(c, domain.NewValidationError("data", "Invalid data format. Must be a list."))
		return
	}

	records, err := h.salesService.ReplaceAll(c.Request.Context(), req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All sales updated successfully", "data": records})
}

func (h *SalesHandler) DeleteSale(c *gin.Context) {
	var req deleteSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	remaining, err := h.salesService.DeletePeriod(c.Request.Context(), req.Month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted sales for month: " + req.Month, "data": remaining})
}
