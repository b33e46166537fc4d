package model

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// MissingPolicy selects which missing cells cause a row to be dropped.
// Rows with a missing subject, outcome, or time cell are always dropped
// since they cannot be indexed at all.
type MissingPolicy int

const (
	// DropMissingResponse drops only rows whose response cell is missing.
	// This is the default.
	DropMissingResponse MissingPolicy = iota

	// DropMissingAny drops rows with a missing response OR a missing cell
	// in any fixed-effect term.
	DropMissingAny
)

// ReshapeOptions control subsetting and missing-value handling.
type ReshapeOptions struct {
	Subset  func(row int) bool // keep rows where true; nil keeps all
	Missing MissingPolicy
}

// Reshaped is the long-format table converted to row-aligned arrays with
// dense 1-based subject and outcome indices. Labels are recoverable through
// SubjectLabels/OutcomeLabels (index-1 lookup).
type Reshaped struct {
	SubjectCount int
	OutcomeCount int

	Subject []int     // 1-based subject index per row
	Outcome []int     // 1-based outcome index per row
	Time    []float64 // observation time per row
	Y       []float64 // response per row
	X       *mat.Dense
	XNames  []string // design matrix column names

	SubjectLabels []string // index-1 -> original subject label
	OutcomeLabels []string // index-1 -> original outcome label

	DroppedMissing int // rows removed for missing values (diagnostic)
}

// Reshape converts the table into the indexed, row-aligned arrays the model
// data builder needs. Subject and outcome indices are assigned in
// first-occurrence order over the surviving rows, so every index has at
// least one observation.
func Reshape(t *Table, f *Formula, opts ReshapeOptions) (*Reshaped, error) {
	resp, err := t.Column(f.Response)
	if err != nil {
		return nil, err
	}
	if !resp.Numeric {
		return nil, errors.Wrapf(ErrUnresolvedColumn, "response column %q is not numeric", f.Response)
	}
	timeCol, err := t.Column(f.Time)
	if err != nil {
		return nil, err
	}
	if !timeCol.Numeric {
		return nil, errors.Wrapf(ErrUnresolvedColumn, "time column %q is not numeric", f.Time)
	}
	subjCol, err := t.Column(f.Subject)
	if err != nil {
		return nil, err
	}
	outCol, err := t.Column(f.Outcome)
	if err != nil {
		return nil, err
	}

	fixedCols := make([]*Column, len(f.Fixed))
	for i, name := range f.Fixed {
		fixedCols[i], err = t.Column(name)
		if err != nil {
			return nil, err
		}
	}

	// First pass: decide which rows survive
	keep := make([]int, 0, t.Rows())
	subsetDropped := 0
	missingDropped := 0
	for row := 0; row < t.Rows(); row++ {
		if opts.Subset != nil && !opts.Subset(row) {
			subsetDropped++
			continue
		}
		if subjCol.IsMissing(row) || outCol.IsMissing(row) || timeCol.IsMissing(row) {
			missingDropped++
			continue
		}
		if resp.IsMissing(row) {
			missingDropped++
			continue
		}
		if opts.Missing == DropMissingAny {
			anyMissing := false
			for _, c := range fixedCols {
				if c.IsMissing(row) {
					anyMissing = true
					break
				}
			}
			if anyMissing {
				missingDropped++
				continue
			}
		}
		keep = append(keep, row)
	}

	if missingDropped > 0 {
		logrus.WithFields(logrus.Fields{
			"dropped": missingDropped,
			"kept":    len(keep),
		}).Info("dropped rows with missing values")
	}

	if len(keep) < 1 {
		return nil, errors.Wrapf(ErrEmptyAfterFiltering,
			"0 of %d rows remain (%d subset, %d missing)", t.Rows(), subsetDropped, missingDropped)
	}

	rs := &Reshaped{
		Subject:        make([]int, len(keep)),
		Outcome:        make([]int, len(keep)),
		Time:           make([]float64, len(keep)),
		Y:              make([]float64, len(keep)),
		DroppedMissing: missingDropped,
	}

	// Index subjects and outcomes by first occurrence, and collect the
	// levels of each categorical fixed-effect term the same way
	subjIdx := make(map[string]int)
	outIdx := make(map[string]int)
	levels := make([]map[string]int, len(fixedCols))
	levelNames := make([][]string, len(fixedCols))
	for i, c := range fixedCols {
		if !c.Numeric {
			levels[i] = make(map[string]int)
		}
	}

	for ri, row := range keep {
		sLab := subjCol.Label(row)
		si, ok := subjIdx[sLab]
		if !ok {
			si = len(rs.SubjectLabels) + 1
			subjIdx[sLab] = si
			rs.SubjectLabels = append(rs.SubjectLabels, sLab)
		}

		oLab := outCol.Label(row)
		oi, ok := outIdx[oLab]
		if !ok {
			oi = len(rs.OutcomeLabels) + 1
			outIdx[oLab] = oi
			rs.OutcomeLabels = append(rs.OutcomeLabels, oLab)
		}

		rs.Subject[ri] = si
		rs.Outcome[ri] = oi
		rs.Time[ri] = timeCol.Floats[row]
		rs.Y[ri] = resp.Floats[row]

		for ci, c := range fixedCols {
			if c.Numeric {
				continue
			}
			lab := c.Label(row)
			if _, ok := levels[ci][lab]; !ok {
				levels[ci][lab] = len(levelNames[ci])
				levelNames[ci] = append(levelNames[ci], lab)
			}
		}
	}

	rs.SubjectCount = len(rs.SubjectLabels)
	rs.OutcomeCount = len(rs.OutcomeLabels)

	// Design matrix columns: intercept, then each term in formula order.
	// Categorical terms are dummy-coded against their first level.
	if f.Intercept {
		rs.XNames = append(rs.XNames, "(Intercept)")
	}
	for ci, c := range fixedCols {
		if c.Numeric {
			rs.XNames = append(rs.XNames, c.Name)
			continue
		}
		for _, lab := range levelNames[ci][1:] {
			rs.XNames = append(rs.XNames, c.Name+lab)
		}
	}
	if len(rs.XNames) < 1 {
		return nil, errors.Wrapf(ErrMalformedFormula,
			"fixed-effects terms produce an empty design matrix")
	}

	rs.X = mat.NewDense(len(keep), len(rs.XNames), nil)
	for ri, row := range keep {
		col := 0
		if f.Intercept {
			rs.X.Set(ri, col, 1.0)
			col++
		}
		for ci, c := range fixedCols {
			if c.Numeric {
				rs.X.Set(ri, col, c.Floats[row])
				col++
				continue
			}
			li := levels[ci][c.Label(row)]
			for l := 1; l < len(levelNames[ci]); l++ {
				if li == l {
					rs.X.Set(ri, col, 1.0)
				}
				col++
			}
		}
	}

	return rs, nil
}
