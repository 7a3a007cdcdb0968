// Package ml implements the training machinery for the ranking model:
// feature frames, standard scaling, gradient-boosted trees, stratified
// splits, cross-validated grid search, and ROC-AUC evaluation. Everything is
// deterministic under a fixed seed; prediction uses no randomness at all.
package ml

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Frame is a dense feature table with named columns in fixed order.
type Frame struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// BuildFrame converts stored feature vectors into a Frame. The schema is the
// sorted union of keys actually present; a vector missing a key contributes
// 0 for that column, which tolerates schema drift across model generations.
func BuildFrame(vectors []domain.FeatureVector) Frame {
	keySet := make(map[string]bool)
	for _, v := range vectors {
		for k := range v {
			keySet[k] = true
		}
	}
	cols := make([]string, 0, len(keySet))
	for k := range keySet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = v[c]
		}
		rows[i] = row
	}
	return Frame{Columns: cols, Rows: rows}
}

// Row builds a single row in the frame's column order from a feature vector.
// It fails if any column is absent, which callers treat as schema drift.
func (f Frame) Row(v domain.FeatureVector) ([]float64, error) {
	row := make([]float64, len(f.Columns))
	for j, c := range f.Columns {
		val, ok := v[c]
		if !ok {
			return nil, fmt.Errorf("%w: missing feature %q", domain.ErrSchemaMismatch, c)
		}
		row[j] = val
	}
	return row, nil
}

// NumericColumns flags the columns that get standardized: similarity scores
// plus the accomplishment and readability signals. Everything else passes
// through unscaled.
func NumericColumns(cols []string) []bool {
	flags := make([]bool, len(cols))
	for i, c := range cols {
		if strings.Contains(c, "similarity") ||
			c == domain.FeatureAccomplishmentScore ||
			c == domain.FeatureReadabilityScore {
			flags[i] = true
		}
	}
	return flags
}

// Select returns the sub-frame at the given row indices.
func (f Frame) Select(idx []int) Frame {
	rows := make([][]float64, len(idx))
	for i, j := range idx {
		rows[i] = f.Rows[j]
	}
	return Frame{Columns: f.Columns, Rows: rows}
}

func selectLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
