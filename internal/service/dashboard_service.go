package service

import (
	"context"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/forecast"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/rs/zerolog/log"
)

const noDataMessage = "No data available yet."

// DashboardService builds the sales dashboard from the stored series.
type DashboardService struct {
	sales  *storage.Collection[[]domain.SalesRecord]
	engine *forecast.Engine
}

func NewDashboardService(sales *storage.Collection[[]domain.SalesRecord], engine *forecast.Engine) *DashboardService {
	if engine == nil {
		engine = forecast.NewEngine()
	}
	return &DashboardService{sales: sales, engine: engine}
}

// Build forecasts over the raw series: one point per stored record, in order.
func (s *DashboardService) Build(ctx context.Context) (domain.SalesDashboard, error) {
	records, err := s.sales.Load(ctx, []domain.SalesRecord{})
	if err != nil {
		return domain.SalesDashboard{}, err
	}

	months, values := forecast.BuildSeries(records)
	result := s.engine.Forecast(values)

	message := result.Recommendation.Message()
	if len(values) == 0 {
		message = noDataMessage
	}
	if result.Cause != nil {
		log.Debug().Err(result.Cause).Str("method", string(result.Method)).Msg("Dashboard used fallback series forecast")
	}

	return domain.SalesDashboard{
		Months:             months,
		Sales:              values,
		TrendForecast:      result.Trend,
		SeriesForecast:     result.Series,
		SeriesMethod:       string(result.Method),
		Recommendation:     message,
		RecommendationCode: string(result.Recommendation),
	}, nil
}
