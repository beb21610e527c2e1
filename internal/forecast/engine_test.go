package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EmptySeries(t *testing.T) {
	res := NewEngine().Forecast(nil)

	assert.Equal(t, 0, res.Trend)
	assert.Equal(t, 0, res.Series)
	assert.Equal(t, MethodNone, res.Method)
	assert.Equal(t, Stable, res.Recommendation)
	assert.NoError(t, res.Cause)
}

func TestEngine_ShortLinearSeriesFallsBack(t *testing.T) {
	res := NewEngine().Forecast([]int{100, 110, 120})

	assert.Equal(t, 130, res.Trend)
	assert.Equal(t, 110, res.Series)
	assert.Equal(t, MethodMovingAverage, res.Method)
	assert.Equal(t, Increase, res.Recommendation)
	require.Error(t, res.Cause)
	assert.True(t, errors.Is(res.Cause, ErrInsufficientData))

	again := NewEngine().Forecast([]int{100, 110, 120})
	assert.Equal(t, res.Series, again.Series)
}

func TestEngine_FallbackMeanOfAll(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"Single", []int{42}, 42},
		{"Pair", []int{10, 21}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine().Forecast(tt.values)
			assert.Equal(t, tt.want, res.Series)
			assert.Equal(t, MethodMean, res.Method)
		})
	}
}

func TestEngine_MovingAverageUsesLastThree(t *testing.T) {
	res := NewEngine().Forecast([]int{1000, 10, 20, 30})

	assert.Equal(t, 20, res.Series)
	assert.Equal(t, MethodMovingAverage, res.Method)
}

func TestEngine_ARIMAFitsLongerSeries(t *testing.T) {
	values := []int{100, 120, 110, 130, 120, 140, 130, 150, 140, 160}

	res := NewEngine().Forecast(values)

	assert.Equal(t, MethodARIMA, res.Method)
	assert.NoError(t, res.Cause)
	assert.GreaterOrEqual(t, res.Series, 120)
	assert.LessOrEqual(t, res.Series, 190)
}

func TestEngine_TrendIndependentOfSeriesFailure(t *testing.T) {
	eng := NewEngine()
	eng.Model.MinObservations = 1000

	res := eng.Forecast([]int{10, 20, 30, 40, 50, 60})

	assert.Equal(t, 70, res.Trend)
	assert.Equal(t, 50, res.Series)
	assert.Equal(t, MethodMovingAverage, res.Method)
}

func TestEngine_Recommendation(t *testing.T) {
	assert.Equal(t, Decrease, NewEngine().Forecast([]int{120, 110, 100}).Recommendation)
	assert.Equal(t, Stable, NewEngine().Forecast([]int{50, 50, 50}).Recommendation)
}
