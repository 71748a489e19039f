package projection

import (
	"math"
	"math/rand"

	"nba-feature-stats/internal/model"
)

// Split shuffles rows with a seeded source and holds out testFraction of them.
// The same seed always produces the same split. At least one row is held out when
// testFraction > 0 and there are two or more rows.
func Split(rows []model.DerivedFeatureRow, testFraction float64, seed int64) (train, test []model.DerivedFeatureRow) {
	n := len(rows)
	if n == 0 || testFraction <= 0 {
		return append([]model.DerivedFeatureRow(nil), rows...), nil
	}
	if testFraction > 1 {
		testFraction = 1
	}
	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest >= n && n > 1 {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make([]model.DerivedFeatureRow, 0, nTest)
	train = make([]model.DerivedFeatureRow, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, rows[idx])
		} else {
			train = append(train, rows[idx])
		}
	}
	return train, test
}

// Evaluation is one projector's score on a held-out set.
type Evaluation struct {
	Projector string  `json:"projector"`
	Rows      int     `json:"rows"`
	RMSE      float64 `json:"rmse"`
	MAE       float64 `json:"mae"`
}

// Evaluate scores p against the actual points in rows. An empty set scores NaN.
func Evaluate(p Projector, rows []model.DerivedFeatureRow) Evaluation {
	ev := Evaluation{Projector: p.Name(), Rows: len(rows)}
	if len(rows) == 0 {
		ev.RMSE = math.NaN()
		ev.MAE = math.NaN()
		return ev
	}
	var sq, abs float64
	for _, r := range rows {
		d := p.Project(r) - r.PTS
		sq += d * d
		abs += math.Abs(d)
	}
	n := float64(len(rows))
	ev.RMSE = math.Sqrt(sq / n)
	ev.MAE = abs / n
	return ev
}

// RMSE is shorthand for Evaluate(p, rows).RMSE.
func RMSE(p Projector, rows []model.DerivedFeatureRow) float64 {
	return Evaluate(p, rows).RMSE
}
