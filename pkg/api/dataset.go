package api

const StatusComplete = "complete"

type ColumnStatistics struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type ColumnSummary struct {
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Sample     []*float64       `json:"sample"` // nil entries are missing cells
	Statistics ColumnStatistics `json:"statistics"`
}

type DatasetStatistics struct {
	TotalSamples  int `json:"total_samples"`
	TotalFeatures int `json:"total_features"`
	TargetClasses int `json:"target_classes"`
}

// DatasetAnalysis is the single document written by the summarizer.
// Shape and Dtypes count the target column, Columns does not.
type DatasetAnalysis struct {
	Status        string            `json:"status"`
	Columns       []ColumnSummary   `json:"columns"`
	Shape         [2]int            `json:"shape"`
	Dtypes        map[string]string `json:"dtypes"`
	MissingValues int               `json:"missing_values"`
	Statistics    DatasetStatistics `json:"statistics"`
}
