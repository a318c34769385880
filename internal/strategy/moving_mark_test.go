package strategy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

func newTestStrategy(minReturn float64, maDuration int) *MovingMarkStrategy {
	return NewMovingMarkStrategy(types.NewAgentParams(minReturn, maDuration))
}

func TestNewMovingMarkStrategy_InitialAccount(t *testing.T) {
	s := newTestStrategy(1.02, 60)

	acct := s.Account()
	assert.Equal(t, 1000.0, acct.BalBot)
	assert.Equal(t, 0.0, acct.BalTop)
	assert.Equal(t, HoldingBottom, acct.Side)
	assert.Equal(t, 1000.0, s.NetWorth(123.0))
}

func TestProcessTick_FirstTickInitialisesBaseline(t *testing.T) {
	s := newTestStrategy(1.02, 10)

	action := s.ProcessTick(50, types.PricePoint{})
	assert.Equal(t, ActionNone, action)
	assert.Equal(t, 50.0, s.Baseline())
}

func TestProcessTick_PriceAtBaselineNeverBuys(t *testing.T) {
	s := newTestStrategy(1.02, 10)
	s.ProcessTick(100, types.PricePoint{})

	assert.Equal(t, ActionNone, s.ProcessTick(100, types.PricePoint{}))
	assert.Equal(t, HoldingBottom, s.Account().Side)
}

func TestProcessTick_BuyBelowThreshold(t *testing.T) {
	s := newTestStrategy(1.02, 10)
	s.ProcessTick(100, types.PricePoint{})

	price := 100/1.02 - 1e-6
	assert.Equal(t, ActionBuy, s.ProcessTick(price, types.PricePoint{}))

	acct := s.Account()
	assert.Equal(t, HoldingTop, acct.Side)
	assert.Equal(t, 0.0, acct.BalBot)
	assert.InDelta(t, 1000/price/DefaultFeeMultiplier, acct.BalTop, 1e-9)
}

func TestProcessTick_NoBuyExactlyAtThreshold(t *testing.T) {
	s := newTestStrategy(1.02, 10)
	s.ProcessTick(100, types.PricePoint{})

	assert.Equal(t, ActionNone, s.ProcessTick(100/1.02, types.PricePoint{}))
}

func TestProcessTick_SellAboveThreshold(t *testing.T) {
	s := newTestStrategy(1.02, 10)
	s.ProcessTick(100, types.PricePoint{})
	require.Equal(t, ActionBuy, s.ProcessTick(90, types.PricePoint{}))

	topBalance := s.Account().BalTop
	baseline := s.Baseline()

	assert.Equal(t, ActionNone, s.ProcessTick(baseline*1.02, types.PricePoint{}))

	baseline = s.Baseline()
	price := baseline*1.02 + 1e-6
	assert.Equal(t, ActionSell, s.ProcessTick(price, types.PricePoint{}))

	acct := s.Account()
	assert.Equal(t, HoldingBottom, acct.Side)
	assert.Equal(t, 0.0, acct.BalTop)
	assert.InDelta(t, topBalance*price/DefaultFeeMultiplier, acct.BalBot, 1e-9)
}

func TestProcessTick_BaselineUpdatesAfterDecision(t *testing.T) {
	s := newTestStrategy(1.02, 2)
	prices := []float64{100, 105, 95, 100}
	wantBaselines := []float64{100, 102.5, 98.75, 99.375}
	wantActions := []TradeAction{ActionNone, ActionNone, ActionBuy, ActionNone}

	for i, p := range prices {
		assert.Equal(t, wantActions[i], s.ProcessTick(p, types.PricePoint{}), "tick %d", i)
		assert.InDelta(t, wantBaselines[i], s.Baseline(), 1e-12, "tick %d", i)
	}
}

func TestProcessTick_SingleAssetExposure(t *testing.T) {
	s := newTestStrategy(1.003, 5)
	rng := rand.New(rand.NewPCG(7, 11))

	price := 100.0
	trades := 0
	for i := 0; i < 5000; i++ {
		price *= 1 + (rng.Float64()-0.5)*0.02
		if s.ProcessTick(price, types.PricePoint{}).IsTrade() {
			trades++
		}

		acct := s.Account()
		topHeld := acct.BalTop != 0
		botHeld := acct.BalBot != 0
		require.True(t, topHeld != botHeld, "tick %d: top=%f bot=%f", i, acct.BalTop, acct.BalBot)
		if acct.Side == HoldingTop {
			require.True(t, topHeld)
		} else {
			require.True(t, botHeld)
		}
	}
	assert.Greater(t, trades, 0)
}

func TestProcessTick_Deterministic(t *testing.T) {
	a := newTestStrategy(1.01, 7)
	b := newTestStrategy(1.01, 7)
	rng := rand.New(rand.NewPCG(1, 2))

	price := 50.0
	for i := 0; i < 2000; i++ {
		price *= 1 + (rng.Float64()-0.5)*0.03
		require.Equal(t, a.ProcessTick(price, types.PricePoint{}), b.ProcessTick(price, types.PricePoint{}))
	}
	assert.Equal(t, a.Account(), b.Account())
	assert.Equal(t, a.NetWorth(price), b.NetWorth(price))
}

func TestTradeAction_String(t *testing.T) {
	assert.Equal(t, "NONE", ActionNone.String())
	assert.Equal(t, "BUY", ActionBuy.String())
	assert.Equal(t, "SELL", ActionSell.String())
	assert.Equal(t, "UNKNOWN", TradeAction(9).String())
	assert.False(t, ActionNone.IsTrade())
	assert.True(t, ActionSell.IsTrade())
}
