package forecast

// Recommendation is the qualitative signal derived from the trend forecast.
type Recommendation string

const (
	Increase Recommendation = "Increase"
	Decrease Recommendation = "Decrease"
	Stable   Recommendation = "Stable"
)

// Recommend compares the trend forecast with the last observed value.
func Recommend(trendForecast, lastObserved int) Recommendation {
	switch {
	case trendForecast > lastObserved:
		return Increase
	case trendForecast < lastObserved:
		return Decrease
	default:
		return Stable
	}
}

// Message is the dashboard text for r.
func (r Recommendation) Message() string {
	switch r {
	case Increase:
		return "📈 Sales are expected to increase next month!"
	case Decrease:
		return "📉 Sales may decrease. Consider promotions."
	default:
		return "⚖️ Sales likely stable next month."
	}
}
