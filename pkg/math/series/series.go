package series

import (
	"math"
	"sort"
)

type Series []float64

func New(values []float64) Series {
	return values
}

func (s Series) Len() int {
	return len(s)
}

func (s Series) Copy() Series {
	var s1 = make(Series, len(s))
	copy(s1, s)
	return s1
}

func (s Series) Sum() float64 {
	var sum float64
	for i := range s {
		sum += s[i]
	}
	return sum
}

func (s Series) Mean() float64 {
	return s.Sum() / float64(len(s))
}

func (s Series) Max() float64 {
	var max = -math.MaxFloat64
	for i := range s {
		if s[i] > max {
			max = s[i]
		}
	}
	return max
}

func (s Series) Min() float64 {
	var min = math.MaxFloat64
	for i := range s {
		if s[i] < min {
			min = s[i]
		}
	}
	return min
}

func (s Series) Median() float64 {
	s1 := s.Copy()
	sort.Float64s(s1)
	mid := len(s1) / 2
	if len(s1)%2 == 0 {
		return (s1[mid-1] + s1[mid]) / 2
	}
	return s1[mid]
}

// MAD is the median of absolute deviations from the median, a robust
// scale estimate.
func (s Series) MAD() float64 {
	med := s.Median()
	dev := make(Series, len(s))
	for i := range s {
		dev[i] = math.Abs(s[i] - med)
	}
	return dev.Median()
}

func (s Series) Finite() bool {
	for i := range s {
		if math.IsNaN(s[i]) || math.IsInf(s[i], 0) {
			return false
		}
	}
	return true
}
