package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

var (
	ErrInsufficientData = errors.New("insufficient observations")
	ErrNotConverged     = errors.New("optimizer did not converge")
	ErrNonFinite        = errors.New("non-finite estimate")
)

// ModelError wraps a fitting failure of a named model.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ARIMAFit holds the estimated ARIMA(1,1,1) coefficients.
type ARIMAFit struct {
	Phi   float64 // AR(1) on the differenced series
	Theta float64 // MA(1)
	SSE   float64

	last      float64 // last level observation
	lastDiff  float64 // last first difference
	lastResid float64 // last one-step residual
}

// ARIMA111 estimates ARIMA(1,1,1) without a constant by conditional sum of
// squares. Coefficients are optimised in tanh space so the fit is always
// stationary and invertible.
type ARIMA111 struct {
	MinObservations int
	MaxIterations   int
}

// Fit estimates the model on the level series y.
func (m ARIMA111) Fit(y []float64) (*ARIMAFit, error) {
	if len(y) < m.MinObservations || len(y) < 3 {
		return nil, &ModelError{Model: "arima(1,1,1)", Err: fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(y), m.MinObservations)}
	}

	diff := make([]float64, len(y)-1)
	for i := range diff {
		diff[i] = y[i+1] - y[i]
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sse, _ := conditionalSSE(diff, math.Tanh(x[0]), math.Tanh(x[1]))
			return sse
		},
	}
	settings := &optimize.Settings{MajorIterations: m.MaxIterations}

	result, err := optimize.Minimize(problem, []float64{0.1, 0.1}, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, &ModelError{Model: "arima(1,1,1)", Err: fmt.Errorf("%w: %v", ErrNotConverged, err)}
	}
	switch result.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.Failure:
		return nil, &ModelError{Model: "arima(1,1,1)", Err: fmt.Errorf("%w: %s", ErrNotConverged, result.Status)}
	}

	phi, theta := math.Tanh(result.X[0]), math.Tanh(result.X[1])
	sse, resid := conditionalSSE(diff, phi, theta)
	if !isFinite(sse) || !isFinite(resid) {
		return nil, &ModelError{Model: "arima(1,1,1)", Err: ErrNonFinite}
	}

	return &ARIMAFit{
		Phi:       phi,
		Theta:     theta,
		SSE:       sse,
		last:      y[len(y)-1],
		lastDiff:  diff[len(diff)-1],
		lastResid: resid,
	}, nil
}

// Forecast returns the one-step-ahead level forecast.
func (f *ARIMAFit) Forecast() (float64, error) {
	next := f.last + f.Phi*f.lastDiff + f.Theta*f.lastResid
	if !isFinite(next) {
		return 0, &ModelError{Model: "arima(1,1,1)", Err: ErrNonFinite}
	}
	return next, nil
}

// conditionalSSE runs the ARMA(1,1) recursion over the differenced series with
// the first residual conditioned to zero. It returns the sum of squared
// residuals and the final residual.
func conditionalSSE(diff []float64, phi, theta float64) (float64, float64) {
	var sse, prevResid float64
	for t := 1; t < len(diff); t++ {
		e := diff[t] - phi*diff[t-1] - theta*prevResid
		sse += e * e
		prevResid = e
	}
	return sse, prevResid
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
