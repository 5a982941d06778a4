package dataset

import "math"

const (
	Float64 = "float64"
	Int64   = "int64"

	TargetColumn = "target"
)

// Column holds one column of a frame. Integer columns are stored as float64
// and labelled with their DType; NaN marks a missing cell.
type Column struct {
	Name   string
	DType  string
	Values []float64
}

func (c Column) Missing() int {
	n := 0
	for _, v := range c.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Frame is a labelled table: feature columns plus one integer target column.
type Frame struct {
	Features []Column
	Target   Column
}

func (f *Frame) Rows() int {
	return len(f.Target.Values)
}

// Columns returns the features followed by the target.
func (f *Frame) Columns() []Column {
	cols := make([]Column, 0, len(f.Features)+1)
	cols = append(cols, f.Features...)
	return append(cols, f.Target)
}
