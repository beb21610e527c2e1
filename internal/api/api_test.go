package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/salescast/internal/cache"
	"github.com/andresuchdata/salescast/internal/chat"
	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/forecast"
	"github.com/andresuchdata/salescast/internal/service"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCompleter struct{}

func (echoCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return "echo", nil
}

func newTestRouter(t *testing.T, completer chat.Completer) (*gin.Engine, *storage.Collection[[]domain.ProductRecord]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs := storage.NewMemoryStore()
	sales := storage.NewCollection[[]domain.SalesRecord](blobs, "sales_data")
	products := storage.NewCollection[[]domain.ProductRecord](blobs, "product_data")
	locker := cache.NewLocalLocker()

	router := NewRouter(&Services{
		Sales:     service.NewSalesService(sales, locker),
		Inventory: service.NewInventoryService(products, locker),
		Dashboard: service.NewDashboardService(sales, forecast.NewEngine()),
		Chat:      service.NewChatService(products, sales, completer),
	}, []string{"*"})
	return router, products
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, echoCompleter{})
	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSalesFlowAndDashboard(t *testing.T) {
	router, _ := newTestRouter(t, echoCompleter{})

	for _, body := range []string{`{"month":"Jan","sales":100}`, `{"month":"Feb","sales":110}`} {
		w := doJSON(router, http.MethodPost, "/add_sales", body)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(router, http.MethodPost, "/api/add-sale", `{"month":"Mar","sales":120}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 3)

	w = doJSON(router, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode(t, w)
	assert.Equal(t, float64(130), dash["linear_regression_prediction"])
	assert.Equal(t, float64(110), dash["timeseries_prediction"])
	assert.Equal(t, "Increase", dash["recommendation_code"])

	w = doJSON(router, http.MethodDelete, "/api/delete-sale", `{"month":"Jan"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/sales-data", "")
	assert.JSONEq(t, `[{"month":"Feb","sales":110},{"month":"Mar","sales":120}]`, w.Body.String())

	w = doJSON(router, http.MethodPut, "/api/update-sales", `{"data":[{"month":"Apr","sales":5}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, "/api/sales-data", "")
	assert.JSONEq(t, `[{"month":"Apr","sales":5}]`, w.Body.String())
}

func TestSalesValidation(t *testing.T) {
	router, _ := newTestRouter(t, echoCompleter{})

	w := doJSON(router, http.MethodPost, "/add_sales", `{"month":"Jan"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sales", decode(t, w)["field"])

	w = doJSON(router, http.MethodPost, "/add_sales", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/api/update-sales", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWrongFieldTypeNamesTheField(t *testing.T) {
	router, _ := newTestRouter(t, echoCompleter{})

	w := doJSON(router, http.MethodPost, "/add_sales", `{"month":"Jan","sales":12.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "sales", body["field"])
	assert.Equal(t, "sales: must be of type int", body["error"])

	w = doJSON(router, http.MethodPost, "/api/sell_product", `{"product":"Widget","sold_quantity":"3"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sold_quantity", decode(t, w)["field"])
}

func TestProductStatusMapping(t *testing.T) {
	router, products := newTestRouter(t, echoCompleter{})
	require.NoError(t, products.Save(context.Background(), []domain.ProductRecord{
		{Product: "Widget", LastSales: 40, Stock: 3},
	}))

	w := doJSON(router, http.MethodPost, "/api/sell_product", `{"product":"widget","sold_quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Current stock: 3")

	w = doJSON(router, http.MethodPost, "/api/sell_product", `{"product":"ghost","sold_quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/api/sell_product", `{"product":"Widget","sold_quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["data"].(map[string]any)["stock"])

	w = doJSON(router, http.MethodPost, "/api/restock", `{"productName":"NewItem","quantity":10}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/add_product_stock", `{"product":"newitem","added_stock":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/product-sales", "")
	assert.JSONEq(t, `[
		{"product":"Widget","last_sales":40,"stock":1},
		{"product":"NewItem","last_sales":0,"stock":12}
	]`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/products-dashboard", "")
	assert.JSONEq(t, `{"predictions":[
		{"product":"Widget","last_sales":40,"forecast":48,"trend":"Up","stock":1},
		{"product":"NewItem","last_sales":0,"forecast":0,"trend":"Down","stock":12}
	]}`, w.Body.String())

	w = doJSON(router, http.MethodDelete, "/api/delete-product", `{"product":"widget"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodDelete, "/api/delete-product", `{"product":"widget"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/add_product_sales", `{"product":"Gadget","last_sales":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "stock", decode(t, w)["field"])
}

func TestChatEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, echoCompleter{})

	w := doJSON(router, http.MethodPost, "/api/mistral", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"echo"}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/mistral", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No message received", decode(t, w)["reply"])
}

func TestChatEndpoint_ProviderFailureIsStill200(t *testing.T) {
	router, _ := newTestRouter(t, chat.Unconfigured("mistral"))

	w := doJSON(router, http.MethodPost, "/api/mistral", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["reply"])
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
