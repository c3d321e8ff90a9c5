package giveawayrule

import (
	"context"

	"github.com/alphalist/backend/internal/entity"
)

type Aggregator struct {
	factory Factory
}

func NewAggregator(factory Factory) Aggregator {
	return Aggregator{factory: factory}
}

func (a Aggregator) Evaluate(
	ctx context.Context, rules []entity.Rule, claimant Claimant,
) AggregateResult {
	aggregate := AggregateResult{IsSuccess: true, Multiplier: 1}
	for _, rule := range rules {
		ruleResult := RuleResult{Rule: rule}

		evaluator, err := a.factory.NewEvaluator(ctx, rule, false)
		if err != nil {
			ruleResult.Error = err.Error()
		} else {
			result, err := evaluator.Evaluate(ctx, claimant)
			if err != nil {
				ruleResult.Error = err.Error()
			} else {
				ruleResult.Passed = result.Passed
				ruleResult.Message = result.Message
				if result.Passed {
					if result.Multiplier > aggregate.Multiplier {
						aggregate.Multiplier = result.Multiplier
					}

					if result.UniqueConstraint != "" {
						aggregate.UniqueConstraints = append(
							aggregate.UniqueConstraints, result.UniqueConstraint)
					}
				}
			}
		}

		if ruleResult.Error != "" {
			aggregate.IsSuccess = false
			if aggregate.ErrorMessage == "" {
				aggregate.ErrorMessage = ruleResult.Error
			}
		} else if !ruleResult.Passed {
			aggregate.IsSuccess = false
		}

		aggregate.Results = append(aggregate.Results, ruleResult)
	}

	return aggregate
}
