package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestARIMA111_InsufficientData(t *testing.T) {
	_, err := ARIMA111{MinObservations: 5, MaxIterations: 100}.Fit([]float64{1, 2, 3})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	var modelErr *ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "arima(1,1,1)", modelErr.Model)
}

func TestARIMA111_ConstantSeriesForecastsLastValue(t *testing.T) {
	fit, err := ARIMA111{MinObservations: 5, MaxIterations: 1000}.Fit([]float64{7, 7, 7, 7, 7, 7})
	require.NoError(t, err)

	next, err := fit.Forecast()
	require.NoError(t, err)
	assert.InDelta(t, 7, next, 1e-9)
}

func TestARIMA111_CoefficientsStayInsideUnitCircle(t *testing.T) {
	y := []float64{100, 120, 110, 130, 120, 140, 130, 150, 140, 160}
	fit, err := ARIMA111{MinObservations: 5, MaxIterations: 1000}.Fit(y)
	require.NoError(t, err)

	assert.Less(t, math.Abs(fit.Phi), 1.0)
	assert.Less(t, math.Abs(fit.Theta), 1.0)
	assert.False(t, math.IsNaN(fit.SSE))
}

func TestConditionalSSE(t *testing.T) {
	diff := []float64{2, 2, 2}

	sse, last := conditionalSSE(diff, 1, 0)
	assert.Equal(t, 0.0, sse)
	assert.Equal(t, 0.0, last)

	sse, last = conditionalSSE(diff, 0, 0)
	assert.Equal(t, 8.0, sse)
	assert.Equal(t, 2.0, last)
}
