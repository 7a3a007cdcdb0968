package ml

import "math"

// StandardScaler standardizes flagged columns to zero mean and unit
// variance; unflagged columns pass through unchanged.
type StandardScaler struct {
	Scaled []bool    `json:"scaled"`
	Mean   []float64 `json:"mean"`
	Std    []float64 `json:"std"`
}

// FitScaler computes per-column mean and standard deviation over the frame
// for the flagged columns.
func FitScaler(f Frame, scaled []bool) *StandardScaler {
	n := len(f.Rows)
	cols := len(f.Columns)
	s := &StandardScaler{
		Scaled: append([]bool(nil), scaled...),
		Mean:   make([]float64, cols),
		Std:    make([]float64, cols),
	}
	if n == 0 {
		return s
	}
	for j := 0; j < cols; j++ {
		if !scaled[j] {
			s.Std[j] = 1
			continue
		}
		sum := 0.0
		for _, row := range f.Rows {
			sum += row[j]
		}
		mean := sum / float64(n)
		variance := 0.0
		for _, row := range f.Rows {
			d := row[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(n))
		if std == 0 {
			std = 1 // constant column: leave values centered only
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return s
}

// Transform returns a scaled copy of the frame.
func (s *StandardScaler) Transform(f Frame) Frame {
	rows := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		rows[i] = s.TransformRow(row)
	}
	return Frame{Columns: f.Columns, Rows: rows}
}

// TransformRow scales a single row.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if j < len(s.Scaled) && s.Scaled[j] {
			out[j] = (v - s.Mean[j]) / s.Std[j]
		} else {
			out[j] = v
		}
	}
	return out
}
