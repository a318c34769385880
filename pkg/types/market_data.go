package types

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySeries is returned when a pair series would contain no points
	ErrEmptySeries = errors.New("price series is empty")

	// ErrSeriesLengthMismatch is returned when the two price columns differ in length
	ErrSeriesLengthMismatch = errors.New("price series lengths differ")

	// ErrNonPositivePrice is returned when any price is zero or negative
	ErrNonPositivePrice = errors.New("price must be positive")
)

// PricePoint is one tick of a trading pair: the prices of both assets at the same index
type PricePoint struct {
	Tick        int
	TopPrice    float64
	BottomPrice float64
}

// Price returns the pair price expressed as top/bottom
func (p PricePoint) Price() float64 {
	return p.TopPrice / p.BottomPrice
}

// PairSeries is an immutable, tick-aligned sequence of price points.
// It is safe for concurrent reads.
type PairSeries struct {
	points []PricePoint
}

// NewPairSeries pairs two equal-length price columns by index
func NewPairSeries(top, bottom []float64) (*PairSeries, error) {
	if len(top) != len(bottom) {
		return nil, fmt.Errorf("%w: top=%d bottom=%d", ErrSeriesLengthMismatch, len(top), len(bottom))
	}
	if len(top) == 0 {
		return nil, ErrEmptySeries
	}

	points := make([]PricePoint, len(top))
	for i := range top {
		if top[i] <= 0 || bottom[i] <= 0 {
			return nil, fmt.Errorf("%w at tick %d: top=%.8f bottom=%.8f", ErrNonPositivePrice, i, top[i], bottom[i])
		}
		points[i] = PricePoint{
			Tick:        i,
			TopPrice:    top[i],
			BottomPrice: bottom[i],
		}
	}

	return &PairSeries{points: points}, nil
}

// Len returns the number of points
func (s *PairSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

// At returns the point at index i
func (s *PairSeries) At(i int) PricePoint {
	return s.points[i]
}

// First returns the first point
func (s *PairSeries) First() PricePoint {
	return s.points[0]
}

// Last returns the last point
func (s *PairSeries) Last() PricePoint {
	return s.points[len(s.points)-1]
}
