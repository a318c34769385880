package strategy

import (
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// TradeStrategy defines the interface for pair trading strategies
type TradeStrategy interface {
	// ProcessTick consumes one scaled pair price (top/bottom) and returns the action taken
	ProcessTick(price float64, pair types.PricePoint) TradeAction

	// NetWorth values the account in bottom-asset units at the given price
	NetWorth(price float64) float64
}

// TradeAction represents the outcome of a single tick
type TradeAction int

const (
	ActionNone TradeAction = iota
	ActionBuy
	ActionSell
)

func (ta TradeAction) String() string {
	switch ta {
	case ActionNone:
		return "NONE"
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// IsTrade reports whether the action changed the held asset
func (ta TradeAction) IsTrade() bool {
	return ta == ActionBuy || ta == ActionSell
}
