package provider

import (
	"context"
	"math"

	"github.com/amirasaad/ledger/pkg/provider"
)

// StaticRate serves a configured annual rate. Negative or non-finite values are served as 0.
type StaticRate struct {
	rate float64
}

// NewStaticRate returns a provider for rate.
func NewStaticRate(rate float64) *StaticRate {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		rate = 0
	}
	return &StaticRate{rate: rate}
}

func (p *StaticRate) AnnualRate(context.Context) (float64, error) {
	return p.rate, nil
}

var _ provider.InterestRateProvider = (*StaticRate)(nil)
