package strategy

import (
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// DefaultFeeMultiplier covers fee plus slippage, 1.0025 = 25 basis points
const DefaultFeeMultiplier = 1.0025

// MovingMarkStrategy trades the pair when its price moves at least minReturn
// away from an exponentially smoothed baseline.
type MovingMarkStrategy struct {
	minReturn  float64
	maDuration float64
	fee        float64
	account    AccountState

	baseline    float64
	initialized bool
}

// NewMovingMarkStrategy creates a strategy from validated agent parameters
func NewMovingMarkStrategy(params types.AgentParams) *MovingMarkStrategy {
	return &MovingMarkStrategy{
		minReturn:  params.MinReturn,
		maDuration: float64(params.MADuration),
		fee:        DefaultFeeMultiplier,
		account:    NewAccountState(),
	}
}

// ProcessTick evaluates the trade rule against the previous baseline, then
// folds the price into the baseline.
func (s *MovingMarkStrategy) ProcessTick(price float64, _ types.PricePoint) TradeAction {
	if !s.initialized {
		s.baseline = price
		s.initialized = true
	}

	action := ActionNone
	switch s.account.Side {
	case HoldingBottom:
		if price < s.baseline/s.minReturn {
			s.buy(price)
			action = ActionBuy
		}
	case HoldingTop:
		if price > s.baseline*s.minReturn {
			s.sell(price)
			action = ActionSell
		}
	}

	s.baseline += (price - s.baseline) / s.maDuration
	return action
}

// NetWorth returns the account value in bottom units
func (s *MovingMarkStrategy) NetWorth(price float64) float64 {
	return s.account.BalTop*price + s.account.BalBot
}

// Account returns a copy of the current account
func (s *MovingMarkStrategy) Account() AccountState {
	return s.account
}

// Baseline returns the current smoothed price mark
func (s *MovingMarkStrategy) Baseline() float64 {
	return s.baseline
}

// buy converts the whole bottom balance into top at price, less the fee
func (s *MovingMarkStrategy) buy(price float64) {
	s.account.BalTop = s.account.BalBot / price / s.fee
	s.account.BalBot = 0
	s.account.Side = HoldingTop
}

// sell converts the whole top balance into bottom at price, less the fee
func (s *MovingMarkStrategy) sell(price float64) {
	s.account.BalBot = s.account.BalTop * price / s.fee
	s.account.BalTop = 0
	s.account.Side = HoldingBottom
}

var _ TradeStrategy = (*MovingMarkStrategy)(nil)
