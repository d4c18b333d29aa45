package provider

import "context"

// InterestRateProvider supplies the annual interest rate applied to savings accounts,
// as a fraction (0.02 is two percent).
type InterestRateProvider interface {
	AnnualRate(ctx context.Context) (float64, error)
}

// InterestRateFunc adapts a function to InterestRateProvider.
type InterestRateFunc func(ctx context.Context) (float64, error)

func (f InterestRateFunc) AnnualRate(ctx context.Context) (float64, error) {
	return f(ctx)
}
