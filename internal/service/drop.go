package service

import (
	"github.com/shopspring/decimal"
)

type DropDecision int

const (
	DecisionNoAction DropDecision = iota
	DecisionNotify
)

func (d DropDecision) String() string {
	if d == DecisionNotify {
		return "notify"
	}
	return "no_action"
}

// DefaultDropThreshold notifies on a 25%-or-greater decrease.
var DefaultDropThreshold = decimal.NewFromFloat(0.25)

// EvaluateDrop compares a product's previous observed price against the price
// scraped this cycle. A missing previous observation is never a drop, and a
// zero previous price or missing current price skips the comparison outright.
func EvaluateDrop(previous, current *int64, threshold decimal.Decimal) DropDecision {
	if previous == nil || current == nil {
		return DecisionNoAction
	}
	if *previous <= 0 || *current >= *previous {
		return DecisionNoAction
	}
	if threshold.LessThanOrEqual(decimal.Zero) {
		threshold = DefaultDropThreshold
	}
	drop := decimal.NewFromInt(*previous - *current).Div(decimal.NewFromInt(*previous))
	if drop.GreaterThanOrEqual(threshold) {
		return DecisionNotify
	}
	return DecisionNoAction
}
