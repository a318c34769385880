package agent

import (
	"github.com/ducminhle1904/pair-montecarlo/internal/strategy"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// Agent drives one trade strategy through a single simulation pass
type Agent struct {
	strategy strategy.TradeStrategy

	lastKnownPrice float64
	trades         int
}

// New creates an agent running the moving-mark strategy. params must already be validated.
func New(params types.AgentParams) *Agent {
	return NewWithStrategy(strategy.NewMovingMarkStrategy(params))
}

// NewWithStrategy creates an agent around an arbitrary strategy
func NewWithStrategy(s strategy.TradeStrategy) *Agent {
	return &Agent{strategy: s}
}

// Handle processes one tick. Its signature matches stream.TickFunc.
func (a *Agent) Handle(_ int, scaledPrice float64, pair types.PricePoint) {
	a.Step(scaledPrice, pair)
}

// Step processes one tick and returns the action taken
func (a *Agent) Step(scaledPrice float64, pair types.PricePoint) strategy.TradeAction {
	action := a.strategy.ProcessTick(scaledPrice, pair)
	if action.IsTrade() {
		a.trades++
	}
	a.lastKnownPrice = scaledPrice
	return action
}

// NetWorth values the account at the last observed price
func (a *Agent) NetWorth() float64 {
	return a.strategy.NetWorth(a.lastKnownPrice)
}

// Trades returns the number of BUY and SELL actions so far
func (a *Agent) Trades() int {
	return a.trades
}
