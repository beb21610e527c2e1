package forecast

import (
	"math"

	"github.com/andresuchdata/salescast/internal/domain"
)

const demandGrowthFactor = 1.2

// ProjectDemand derives the per-product demand projection from its last sales figure.
func ProjectDemand(p domain.ProductRecord) domain.ProductProjection {
	projected := int(math.Round(float64(p.LastSales) * demandGrowthFactor))

	trend := domain.TrendDown
	if projected > p.LastSales {
		trend = domain.TrendUp
	}

	return domain.ProductProjection{
		Product:   p.Product,
		LastSales: p.LastSales,
		Forecast:  projected,
		Trend:     trend,
		Stock:     p.Stock,
	}
}
