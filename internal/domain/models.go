// internal/domain/models.go
package domain

import "strings"

// SalesRecord is one sales entry for a period. Periods are free-form labels and
// may repeat; repeated periods are separate transactions.
type SalesRecord struct {
	Period string `json:"month"`
	Amount int    `json:"sales"`
}

// ProductRecord holds the stock level and last sales figure of one product.
type ProductRecord struct {
	Product   string `json:"product"`
	LastSales int    `json:"last_sales"`
	Stock     int    `json:"stock"`
}

// Key is the case-insensitive identity of the product.
func (p ProductRecord) Key() string {
	return ProductKey(p.Product)
}

// ProductKey normalizes a product name for identity comparison.
func ProductKey(name string) string {
	return strings.ToLower(name)
}

// SalesDashboard is the read model returned by the dashboard endpoint.
type SalesDashboard struct {
	Months             []string `json:"months"`
	Sales              []int    `json:"sales"`
	TrendForecast      int      `json:"linear_regression_prediction"`
	SeriesForecast     int      `json:"timeseries_prediction"`
	SeriesMethod       string   `json:"timeseries_method"`
	Recommendation     string   `json:"recommendation"`
	RecommendationCode string   `json:"recommendation_code"`
}

// ProductProjection is the per-product projected demand view.
type ProductProjection struct {
	Product   string `json:"product"`
	LastSales int    `json:"last_sales"`
	Forecast  int    `json:"forecast"`
	Trend     string `json:"trend"`
	Stock     int    `json:"stock"`
}

const (
	TrendUp   = "Up"
	TrendDown = "Down"
)
