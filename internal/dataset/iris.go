package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

//go:embed iris.csv
var irisCSV []byte

// LoadIris returns the Iris reference dataset: 150 rows, four float features
// and a three-class target.
func LoadIris() (*Frame, error) {
	return ParseCSV(bytes.NewReader(irisCSV))
}

// ParseCSV reads a headered CSV whose last column is the integer target and
// all other columns are float features. Empty cells are missing values.
func ParseCSV(r io.Reader) (*Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	if len(records) < 1 || len(records[0]) < 2 {
		return nil, fmt.Errorf("csv needs a header with at least one feature and a target")
	}

	header := records[0]
	rows := records[1:]
	nFeatures := len(header) - 1

	frame := &Frame{
		Features: make([]Column, nFeatures),
		Target:   Column{Name: header[nFeatures], DType: Int64, Values: make([]float64, len(rows))},
	}
	for i := range frame.Features {
		frame.Features[i] = Column{Name: header[i], DType: Float64, Values: make([]float64, len(rows))}
	}

	for r, row := range rows {
		for c, cell := range row {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r+1, header[c], err)
			}
			if c == nFeatures {
				frame.Target.Values[r] = v
			} else {
				frame.Features[c].Values[r] = v
			}
		}
	}

	return frame, nil
}

func parseCell(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
