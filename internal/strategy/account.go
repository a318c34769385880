package strategy

// Side names the asset currently held
type Side int

const (
	// HoldingBottom means the next possible action is a BUY of the top asset
	HoldingBottom Side = iota
	// HoldingTop means the next possible action is a SELL back to the bottom asset
	HoldingTop
)

func (s Side) String() string {
	switch s {
	case HoldingBottom:
		return "HOLDING_BOTTOM"
	case HoldingTop:
		return "HOLDING_TOP"
	default:
		return "UNKNOWN"
	}
}

// InitialBottomBalance is the starting balance of every account
const InitialBottomBalance = 1000.0

// AccountState is a single-asset exposure account: only one balance is non-zero at a time
type AccountState struct {
	BalTop float64
	BalBot float64
	Side   Side
}

// NewAccountState returns the starting account, fully in the bottom asset
func NewAccountState() AccountState {
	return AccountState{
		BalTop: 0,
		BalBot: InitialBottomBalance,
		Side:   HoldingBottom,
	}
}
