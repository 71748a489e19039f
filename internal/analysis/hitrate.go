// Package analysis summarises how a player's recent values sit against a prop line.
package analysis

import (
	"math"
	"sort"
)

// Summary counts over/under/push results for a window of values against a line.
// It does not depend on where the values came from; recent form and opponent history
// are both summarised with it.
type Summary struct {
	Threshold float64 `json:"threshold"`
	Games     int     `json:"games"`

	Over  int `json:"over"`
	Under int `json:"under"`
	Push  int `json:"push"`

	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// HitRate summarises the first n values (most recent first) against threshold.
// n <= 0 means every value.
func HitRate(values []float64, threshold float64, n int) Summary {
	if n <= 0 || n > len(values) {
		n = len(values)
	}
	s := Summary{Threshold: threshold, Games: n}
	if n == 0 {
		return s
	}

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, n)
	for _, v := range values[:n] {
		switch {
		case v > threshold:
			s.Over++
		case v < threshold:
			s.Under++
		default:
			s.Push++
		}
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(n)
	s.Median = percentileSorted(vals, 0.5)
	return s
}

// OverRate is the share of games that went over; 0 for an empty window.
func (s Summary) OverRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Over) / float64(s.Games)
}

func (s Summary) UnderRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Under) / float64(s.Games)
}

// Lean returns the majority side and its share. Ties favour "over".
func (s Summary) Lean() (string, float64) {
	if s.Under > s.Over {
		return LeanUnder, s.UnderRate()
	}
	return LeanOver, s.OverRate()
}

const (
	LeanOver  = "over"
	LeanUnder = "under"
)

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
