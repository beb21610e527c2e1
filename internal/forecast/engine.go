package forecast

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Method names the estimator that produced a series forecast.
type Method string

const (
	MethodNone          Method = "none"
	MethodARIMA         Method = "arima"
	MethodMovingAverage Method = "moving_average"
	MethodMean          Method = "mean"
)

const (
	defaultMinARIMAObservations = 5
	defaultFallbackWindow       = 3
	defaultMaxIterations        = 1000
)

// Result is a next-period forecast for one series.
type Result struct {
	Trend          int            `json:"trend_forecast"`
	Series         int            `json:"series_forecast"`
	Method         Method         `json:"series_method"`
	Recommendation Recommendation `json:"recommendation"`

	// Cause is the model failure that pushed the series forecast onto the
	// fallback chain, if any.
	Cause error `json:"-"`
}

// Engine computes trend and series-model forecasts with a fallback chain.
type Engine struct {
	Model          ARIMA111
	FallbackWindow int
}

func NewEngine() *Engine {
	return &Engine{
		Model: ARIMA111{
			MinObservations: defaultMinARIMAObservations,
			MaxIterations:   defaultMaxIterations,
		},
		FallbackWindow: defaultFallbackWindow,
	}
}

// Forecast computes both forecasts for values and the derived recommendation.
// An empty series forecasts zero and is Stable.
func (e *Engine) Forecast(values []int) Result {
	if len(values) == 0 {
		return Result{Method: MethodNone, Recommendation: Stable}
	}

	trend := TrendForecast(values)
	series, method, cause := e.seriesForecast(values)

	return Result{
		Trend:          trend,
		Series:         series,
		Method:         method,
		Recommendation: Recommend(trend, values[len(values)-1]),
		Cause:          cause,
	}
}

func (e *Engine) seriesForecast(values []int) (int, Method, error) {
	y := toFloats(values)

	fit, err := e.Model.Fit(y)
	if err == nil {
		var next float64
		if next, err = fit.Forecast(); err == nil {
			return int(math.Round(next)), MethodARIMA, nil
		}
	}

	log.Debug().Err(err).Int("observations", len(values)).Msg("forecast: series model failed, using fallback")

	window := e.FallbackWindow
	if window <= 0 {
		window = defaultFallbackWindow
	}
	if len(y) >= window {
		return int(math.Round(stat.Mean(y[len(y)-window:], nil))), MethodMovingAverage, err
	}
	return int(math.Round(stat.Mean(y, nil))), MethodMean, err
}
