package forecast

import "github.com/andresuchdata/salescast/internal/domain"

// BuildSeries turns sales records into index-aligned labels and values, one
// point per record in stored order. Repeated periods are not merged.
func BuildSeries(records []domain.SalesRecord) ([]string, []int) {
	labels := make([]string, len(records))
	values := make([]int, len(records))
	for i, r := range records {
		labels[i] = r.Period
		values[i] = r.Amount
	}
	return labels, values
}

// AggregateByPeriod sums amounts per period label, keeping the order in which
// each label was first seen.
func AggregateByPeriod(records []domain.SalesRecord) ([]string, []int) {
	index := make(map[string]int)
	labels := make([]string, 0, len(records))
	values := make([]int, 0, len(records))

	for _, r := range records {
		if i, ok := index[r.Period]; ok {
			values[i] += r.Amount
			continue
		}
		index[r.Period] = len(labels)
		labels = append(labels, r.Period)
		values = append(values, r.Amount)
	}
	return labels, values
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
