package stream

import (
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// TickFunc receives each tick of an endless stream
type TickFunc func(idx int, scaledPrice float64, pair types.PricePoint)

// EndlessPairStream replays a finite pair series cyclically.
// Each time the replay wraps, prices are rescaled by last/first so the
// synthetic price continues from where the previous cycle ended.
type EndlessPairStream struct {
	series *types.PairSeries
}

// NewEndlessPairStream creates a stream over the given series
func NewEndlessPairStream(series *types.PairSeries) (*EndlessPairStream, error) {
	if series.Len() == 0 {
		return nil, types.ErrEmptySeries
	}
	return &EndlessPairStream{series: series}, nil
}

// Iterate invokes fn exactly numIters times, starting at startOffset modulo
// the series length. Iterate keeps no state between calls.
func (s *EndlessPairStream) Iterate(numIters int, startOffset uint64, fn TickFunc) {
	size := s.series.Len()
	idx := int(startOffset % uint64(size))
	scale := 1.0

	wrapScale := s.series.Last().Price() / s.series.First().Price()

	for i := 0; i < numIters; i++ {
		if idx%size == 0 && idx > 0 {
			idx = 0
			scale *= wrapScale
		}
		pair := s.series.At(idx)
		fn(i, pair.Price()*scale, pair)
		idx++
	}
}
