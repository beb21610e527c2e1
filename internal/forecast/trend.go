package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrendForecast fits an ordinary least-squares line to (i, values[i]) and
// evaluates it at i = len(values).
func TrendForecast(values []int) int {
	switch len(values) {
	case 0:
		return 0
	case 1:
		return values[0]
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, toFloats(values), nil, false)
	return int(math.Round(alpha + beta*float64(len(values))))
}
