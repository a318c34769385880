package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

type tick struct {
	idx   int
	price float64
	pair  types.PricePoint
}

func newSeries(t *testing.T, top ...float64) *types.PairSeries {
	t.Helper()
	bottom := make([]float64, len(top))
	for i := range bottom {
		bottom[i] = 1
	}
	series, err := types.NewPairSeries(top, bottom)
	require.NoError(t, err)
	return series
}

func collect(s *EndlessPairStream, numIters int, offset uint64) []tick {
	var ticks []tick
	s.Iterate(numIters, offset, func(idx int, price float64, pair types.PricePoint) {
		ticks = append(ticks, tick{idx: idx, price: price, pair: pair})
	})
	return ticks
}

func TestNewEndlessPairStream_RejectsEmptySeries(t *testing.T) {
	_, err := NewEndlessPairStream(nil)
	assert.ErrorIs(t, err, types.ErrEmptySeries)
}

func TestIterate_EmitsExactlyNumItersWithSequentialIndices(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 100, 110, 120))
	require.NoError(t, err)

	for _, n := range []int{1, 2, 3, 7, 100} {
		ticks := collect(s, n, 5)
		require.Len(t, ticks, n)
		for i, tk := range ticks {
			assert.Equal(t, i, tk.idx)
		}
	}
}

func TestIterate_ZeroIterations(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 100, 110))
	require.NoError(t, err)

	assert.Empty(t, collect(s, 0, 0))
	assert.Empty(t, collect(s, -3, 0))
}

func TestIterate_StartOffsetWrapsModuloLength(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 100, 110, 120))
	require.NoError(t, err)

	ticks := collect(s, 1, 4)
	require.Len(t, ticks, 1)
	assert.Equal(t, 1, ticks[0].pair.Tick)
	assert.InDelta(t, 110.0, ticks[0].price, 1e-9)
}

func TestIterate_ContinuousAcrossWrap(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 100, 110, 120))
	require.NoError(t, err)

	ticks := collect(s, 9, 0)
	expected := []float64{
		100, 110, 120,
		120, 132, 144,
		144, 158.4, 172.8,
	}
	require.Len(t, ticks, len(expected))
	for i, want := range expected {
		assert.InDelta(t, want, ticks[i].price, 1e-9, "tick %d", i)
	}

	// no multiplicative jump: the first price of each new cycle equals the
	// last price of the previous one
	assert.InDelta(t, ticks[2].price, ticks[3].price, 1e-9)
	assert.InDelta(t, ticks[5].price, ticks[6].price, 1e-9)
}

func TestIterate_RawPairIsUnscaled(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 100, 110, 120))
	require.NoError(t, err)

	ticks := collect(s, 4, 0)
	assert.Equal(t, 0, ticks[3].pair.Tick)
	assert.Equal(t, 100.0, ticks[3].pair.TopPrice)
}

func TestIterate_SinglePointSeriesNeverRescales(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 42))
	require.NoError(t, err)

	for _, tk := range collect(s, 10, 3) {
		assert.InDelta(t, 42.0, tk.price, 1e-12)
	}
}

func TestIterate_IndependentAcrossCalls(t *testing.T) {
	s, err := NewEndlessPairStream(newSeries(t, 100, 90, 130, 80))
	require.NoError(t, err)

	first := collect(s, 11, 2)
	_ = collect(s, 17, 1)
	again := collect(s, 11, 2)

	assert.Equal(t, first, again)
}
