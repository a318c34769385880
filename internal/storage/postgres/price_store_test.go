package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/pkg/data"
)

func bar(symbol string, at time.Time, open string) storage.PriceBar {
	d := decimal.RequireFromString(open)
	return storage.PriceBar{Symbol: symbol, OpenTime: at, Open: d, High: d, Low: d, Close: d, Volume: decimal.NewFromInt(1)}
}

func TestPriceStore(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceStore(pool)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("upsert and load ordered", func(t *testing.T) {
		require.NoError(t, store.UpsertBars(ctx, []storage.PriceBar{
			bar("ETHUSDT", start.Add(2*time.Minute), "2002.5"),
			bar("ETHUSDT", start, "2000.125"),
			bar("ETHUSDT", start.Add(time.Minute), "2001"),
			bar("MATICUSDT", start, "0.95"),
		}))

		prices, err := store.LoadPrices(ctx, "ETHUSDT")
		require.NoError(t, err)
		assert.Equal(t, []float64{2000.125, 2001, 2002.5}, prices)
	})

	t.Run("upsert replaces existing bar", func(t *testing.T) {
		require.NoError(t, store.UpsertBars(ctx, []storage.PriceBar{bar("MATICUSDT", start, "0.97")}))

		prices, err := store.LoadPrices(ctx, "MATICUSDT")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.97}, prices)
	})

	t.Run("feeds LoadPairSeries", func(t *testing.T) {
		require.NoError(t, store.UpsertBars(ctx, []storage.PriceBar{
			bar("BTCUSDT", start, "40000"),
			bar("BTCUSDT", start.Add(time.Minute), "40100"),
			bar("BTCUSDT", start.Add(2*time.Minute), "40050"),
		}))

		series, err := data.LoadPairSeries(ctx, store, "BTCUSDT", "ETHUSDT")
		require.NoError(t, err)
		assert.Equal(t, 3, series.Len())
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := store.LoadPrices(ctx, "DOGEUSDT")
		assert.ErrorIs(t, err, data.ErrNoPrices)
	})

	t.Run("rejects non-positive open", func(t *testing.T) {
		err := store.UpsertBars(ctx, []storage.PriceBar{bar("ETHUSDT", start, "0")})
		assert.ErrorIs(t, err, storage.ErrInvalidInput)
	})
}
