package data

import (
	"context"
	"fmt"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// LoadPairSeries loads the top and bottom assets from provider and pairs them by tick
func LoadPairSeries(ctx context.Context, provider PriceProvider, topSource, bottomSource string) (*types.PairSeries, error) {
	top, err := provider.LoadPrices(ctx, topSource)
	if err != nil {
		return nil, fmt.Errorf("load top asset %s: %w", topSource, err)
	}

	bottom, err := provider.LoadPrices(ctx, bottomSource)
	if err != nil {
		return nil, fmt.Errorf("load bottom asset %s: %w", bottomSource, err)
	}

	series, err := types.NewPairSeries(top, bottom)
	if err != nil {
		return nil, fmt.Errorf("pair %s/%s via %s: %w", topSource, bottomSource, provider.GetName(), err)
	}
	return series, nil
}
