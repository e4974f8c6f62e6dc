package verdict

import (
	"fmt"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/ruleset"
)

// Engine turns a signal snapshot into a verdict view model.
// It is pure: no I/O, no clock, no logging. The same snapshot, params and
// rule set always yield the same view model.
type Engine struct {
	rules      *ruleset.RuleSet
	catalog    *Catalog
	classifier *Classifier
	analyzer   *Analyzer
	friction   FrictionCalculator
}

// NewEngine creates an engine bound to one rule set (nil: extended built-in)
func NewEngine(rules *ruleset.RuleSet) *Engine {
	if rules == nil {
		rules = ruleset.Extended()
	}
	return &Engine{
		rules:      rules,
		catalog:    DefaultCatalog(),
		classifier: DefaultClassifier(),
		analyzer:   NewAnalyzer(rules),
		friction:   NewFrictionCalculator(rules.Friction.DefaultSlippagePct),
	}
}

// RuleSet returns the bound rule set
func (e *Engine) RuleSet() *ruleset.RuleSet { return e.rules }

// Catalog returns the signal catalog
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Friction computes the round-trip friction for a snapshot
func (e *Engine) Friction(s *contracts.SignalSnapshot, p contracts.EvaluationParams) contracts.FrictionResult {
	edge := 0.0
	if s.ExpectedEdgePct != nil {
		edge = *s.ExpectedEdgePct
	}
	return e.friction.Compute(s.EstimatedSlippagePct, p.TransactionCost, edge)
}

// Evaluate produces the verdict view model
func (e *Engine) Evaluate(s *contracts.SignalSnapshot, p contracts.EvaluationParams) *contracts.VerdictViewModel {
	if s == nil {
		s = &contracts.SignalSnapshot{}
	}

	entry := e.catalog.Lookup(s.FinalSignal)
	friction := e.Friction(s, p)

	vm := &contracts.VerdictViewModel{
		Ticker:       s.Ticker,
		RuleSet:      e.rules.Meta.ID,
		Params:       p,
		Signal:       entry,
		Tradeability: e.classifier.Classify(s.FinalSignal),
		Friction:     friction,
		Position:     PlanPosition(s, p.AccountSize),
		Quality:      ScoreQuality(s.QualityComponents),
		Liquidity:    AssessLiquidity(s),
		Narratives:   Narrate(s, e.rules),
	}

	switch entry.Setup.(type) {
	case contracts.RejectionSetup:
		vm.FailureReasons = e.analyzer.Failures(s, friction)
	case contracts.SpeculativeSetup:
		if !e.rules.Speculative.Enabled {
			vm.Advisories = append(vm.Advisories, fmt.Sprintf(
				"%s is outside rule set %s (no speculative tier); test breakdown omitted", entry.ID, e.rules.Meta.ID))
			break
		}
		tests := e.analyzer.ClassifyTests(s)
		vm.Tests = &tests
	case contracts.TradeableSetup:
		pred := e.rules.Predictability
		if s.PredictabilityScore != nil && *s.PredictabilityScore < pred.HighConvictionMin {
			vm.Advisories = append(vm.Advisories, fmt.Sprintf(
				"Predictability %d/%d is below high conviction (%d/%d)", *s.PredictabilityScore, pred.Scale, pred.HighConvictionMin, pred.Scale))
		}
	case contracts.WaitSetup, contracts.UnknownSetup:
	default:
		panic(fmt.Sprintf("verdict: unhandled setup %T for %s", entry.Setup, entry.ID))
	}

	return vm
}
