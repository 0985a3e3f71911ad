package series

import (
	"math"
	"testing"
)

func TestSeries_Median(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		s        Series
		expected float64
	}{
		{name: "odd", s: New([]float64{9, 1, 5}), expected: 5},
		{name: "even", s: New([]float64{4, 1, 3, 2}), expected: 2.5},
		{name: "single", s: New([]float64{7}), expected: 7},
		{name: "unsorted_even", s: New([]float64{10, -2, 4, 8}), expected: 6},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := test.s.Median()
			if got != test.expected {
				t.Errorf("median got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestSeries_MAD(t *testing.T) {
	t.Parallel()
	contaminated := Series{1, 0, 5, 7, 9, 11, 13, 50, 17, 19, 21, 23, 1, 27, 29, 31, 33, 35, 150, 39}
	tests := []struct {
		name     string
		s        Series
		expected float64
	}{
		{name: "constant", s: Series{3, 3, 3, 3}, expected: 0},
		{name: "symmetric", s: Series{1, 2, 3, 4, 5}, expected: 1},
		{name: "contaminated_line", s: contaminated, expected: 12},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := test.s.MAD()
			if got != test.expected {
				t.Errorf("mad got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestSeries_Finite(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		s        Series
		expected bool
	}{
		{name: "finite", s: Series{1, 2, 3}, expected: true},
		{name: "nan", s: Series{1, math.NaN()}, expected: false},
		{name: "inf", s: Series{math.Inf(1), 2}, expected: false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.s.Finite(); got != test.expected {
				t.Errorf("finite got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestSeries_MinMaxMean(t *testing.T) {
	t.Parallel()
	s := Series{-4, 10, 2, 0}
	if got := s.Min(); got != -4 {
		t.Errorf("min got: %v, expected: -4", got)
	}
	if got := s.Max(); got != 10 {
		t.Errorf("max got: %v, expected: 10", got)
	}
	if got := s.Mean(); got != 2 {
		t.Errorf("mean got: %v, expected: 2", got)
	}
}

func TestSeries_CopyIsolated(t *testing.T) {
	t.Parallel()
	s := Series{3, 1, 2}
	_ = s.Median()
	if s[0] != 3 || s[1] != 1 || s[2] != 2 {
		t.Errorf("median must not reorder the receiver, got: %v", s)
	}
}
