package types

import "fmt"

// AgentParams are the tunable strategy parameters for one grid point
type AgentParams struct {
	MinReturn  float64 `json:"min_return"`  // 1.015 means a 150 basis point move off the baseline
	MADuration int     `json:"ma_duration"` // smoothing window in ticks, 60 = 1h of minute data
}

// NewAgentParams creates agent parameters
func NewAgentParams(minReturn float64, maDuration int) AgentParams {
	return AgentParams{
		MinReturn:  minReturn,
		MADuration: maDuration,
	}
}

// Validate checks the parameters once, before any simulation starts
func (p AgentParams) Validate() error {
	if p.MinReturn <= 1.0 {
		return fmt.Errorf("min return must be greater than 1.0, got: %.4f", p.MinReturn)
	}
	if p.MADuration <= 0 {
		return fmt.Errorf("moving average duration must be positive, got: %d", p.MADuration)
	}
	return nil
}

// SampleReturnStats summarises the passes executed by a single worker
type SampleReturnStats struct {
	AgentParams
	Samples      int     `json:"samples"`
	AvgNumTrades float64 `json:"avg_trades"`

	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}
