package dataset

import (
	"math"

	"trainsim/pkg/api"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const sampleRows = 5

// Summarize describes every feature column of f and the frame as a whole.
// Statistics skip missing cells; std is the sample standard deviation. A column
// with no present values reports zero statistics.
func Summarize(f *Frame) api.DatasetAnalysis {
	columns := f.Columns()

	analysis := api.DatasetAnalysis{
		Status:  api.StatusComplete,
		Columns: make([]api.ColumnSummary, 0, len(f.Features)),
		Shape:   [2]int{f.Rows(), len(columns)},
		Dtypes:  make(map[string]string, len(columns)),
		Statistics: api.DatasetStatistics{
			TotalSamples:  f.Rows(),
			TotalFeatures: len(columns) - 1,
			TargetClasses: distinct(f.Target.Values),
		},
	}

	for _, col := range columns {
		analysis.Dtypes[col.Name] = col.DType
		analysis.MissingValues += col.Missing()
	}

	for _, col := range f.Features {
		analysis.Columns = append(analysis.Columns, api.ColumnSummary{
			Name:       col.Name,
			Type:       col.DType,
			Sample:     head(col.Values, sampleRows),
			Statistics: describe(col.Values),
		})
	}

	return analysis
}

func describe(values []float64) api.ColumnStatistics {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}

	var s api.ColumnStatistics
	if len(present) == 0 {
		return s
	}

	s.Mean = stat.Mean(present, nil)
	if len(present) > 1 {
		s.Std = stat.StdDev(present, nil)
	}
	s.Min = floats.Min(present)
	s.Max = floats.Max(present)
	return s
}

func head(values []float64, n int) []*float64 {
	n = min(n, len(values))
	out := make([]*float64, n)
	for i := range out {
		if !math.IsNaN(values[i]) {
			v := values[i]
			out[i] = &v
		}
	}
	return out
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{})
	for _, v := range values {
		if !math.IsNaN(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
