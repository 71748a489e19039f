package projection

import (
	"errors"
	"fmt"
	"math"

	"nba-feature-stats/internal/model"
)

var ErrNotFitted = errors.New("regression has not been fitted")

// DefaultLambda keeps the normal equations solvable when season-level columns are constant.
const DefaultLambda = 1.0

// LinearRegression is ridge-regularised least squares over standardised columns.
type LinearRegression struct {
	Lambda  float64
	Columns []Column

	means     []float64
	scales    []float64
	coef      []float64
	intercept float64
}

func NewLinearRegression(lambda float64) *LinearRegression {
	if lambda <= 0 {
		lambda = DefaultLambda
	}
	return &LinearRegression{Lambda: lambda, Columns: TrainingColumns}
}

func (m *LinearRegression) Name() string { return "linear_regression" }

// Fit estimates coefficients from rows, using PTS as the target.
func (m *LinearRegression) Fit(rows []model.DerivedFeatureRow) error {
	if len(rows) == 0 {
		return errors.New("no training rows")
	}
	if len(m.Columns) == 0 {
		m.Columns = TrainingColumns
	}
	if m.Lambda <= 0 {
		m.Lambda = DefaultLambda
	}
	k := len(m.Columns)
	n := float64(len(rows))

	m.means = make([]float64, k)
	m.scales = make([]float64, k)
	yMean := 0.0
	for _, r := range rows {
		for j, c := range m.Columns {
			m.means[j] += c.Value(r)
		}
		yMean += r.PTS
	}
	for j := range m.means {
		m.means[j] /= n
	}
	yMean /= n

	for _, r := range rows {
		for j, c := range m.Columns {
			d := c.Value(r) - m.means[j]
			m.scales[j] += d * d
		}
	}
	for j := range m.scales {
		m.scales[j] = math.Sqrt(m.scales[j] / n)
	}

	// Normal equations on centred, scaled inputs: (XᵀX + λI) β = Xᵀy.
	a := make([][]float64, k)
	for i := range a {
		a[i] = make([]float64, k+1)
		a[i][i] = m.Lambda
	}
	x := make([]float64, k)
	for _, r := range rows {
		m.standardise(r, x)
		y := r.PTS - yMean
		for i := 0; i < k; i++ {
			if x[i] == 0 {
				continue
			}
			for j := 0; j < k; j++ {
				a[i][j] += x[i] * x[j]
			}
			a[i][k] += x[i] * y
		}
	}

	coef, err := solve(a)
	if err != nil {
		return fmt.Errorf("fit %s: %w", m.Name(), err)
	}
	m.coef = coef
	m.intercept = yMean
	return nil
}

// Project returns the fitted prediction, or NaN before Fit.
func (m *LinearRegression) Project(row model.DerivedFeatureRow) float64 {
	if m.coef == nil {
		return math.NaN()
	}
	x := make([]float64, len(m.Columns))
	m.standardise(row, x)
	y := m.intercept
	for j, b := range m.coef {
		y += b * x[j]
	}
	return y
}

// Coefficients maps column name to its weight on the standardised scale.
func (m *LinearRegression) Coefficients() (map[string]float64, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	out := make(map[string]float64, len(m.coef))
	for j, c := range m.Columns {
		out[c.Name] = m.coef[j]
	}
	return out, nil
}

// standardise writes the z-scores of row into x. Constant columns score 0.
func (m *LinearRegression) standardise(row model.DerivedFeatureRow, x []float64) {
	for j, c := range m.Columns {
		if m.scales[j] == 0 {
			x[j] = 0
			continue
		}
		x[j] = (c.Value(row) - m.means[j]) / m.scales[j]
	}
}

// solve runs Gaussian elimination with partial pivoting on an augmented k×(k+1) matrix.
func solve(a [][]float64) ([]float64, error) {
	k := len(a)
	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("singular system")
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < k; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c <= k; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	out := make([]float64, k)
	for r := k - 1; r >= 0; r-- {
		s := a[r][k]
		for c := r + 1; c < k; c++ {
			s -= a[r][c] * out[c]
		}
		out[r] = s / a[r][r]
	}
	return out, nil
}
