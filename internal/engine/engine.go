package engine

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/t2dm-treatment-advisor/internal/domain"
)

// Engine evaluates the fixed ADA rule set against patient records. The rule
// set is built once at construction and is read-only afterwards, so a single
// Engine is safe for concurrent use without locking.
type Engine struct {
	logger   *logrus.Logger
	rules    []domain.Rule
	fallback domain.Rule
}

// NewEngine creates an engine with the built-in ADA rule set.
func NewEngine(logger *logrus.Logger) *Engine {
	rules, fallback := adaRules()

	e := &Engine{
		logger:   logger,
		rules:    rules,
		fallback: fallback,
	}

	logger.WithField("rule_count", len(rules)).Info("Initialized ADA treatment rules")

	return e
}

// NewEngineWithRules creates an engine with an explicit rule set and
// fallback. Used by tests; production code uses NewEngine.
func NewEngineWithRules(logger *logrus.Logger, rules []domain.Rule, fallback domain.Rule) *Engine {
	return &Engine{
		logger:   logger,
		rules:    rules,
		fallback: fallback,
	}
}

// Evaluate applies every rule's condition to the patient record and returns
// the ordered recommendations and their explanations. A condition that
// panics counts as non-matching and never aborts the evaluation. When no
// rule fires the result is exactly the fallback rule, so the result is
// always non-empty. Evaluate is a pure function of the record and the
// fixed rule set.
func (e *Engine) Evaluate(patient domain.PatientRecord) *domain.Evaluation {
	fired := make([]domain.Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Applies(patient) {
			fired = append(fired, r)
		}
	}

	fallbackOnly := len(fired) == 0
	if fallbackOnly {
		fired = append(fired, e.fallback)
	}

	// Stable sort: ties on priority preserve authoring order. Ordering is
	// the sole conflict-resolution mechanism; lower-priority matches are
	// surfaced, never suppressed.
	sort.SliceStable(fired, func(i, j int) bool {
		return fired[i].Priority < fired[j].Priority
	})

	eval := &domain.Evaluation{
		Recommendations: make([]string, 0, len(fired)),
		Explanations:    make([]domain.Explanation, 0, len(fired)),
		FallbackOnly:    fallbackOnly,
	}
	for _, r := range fired {
		eval.Recommendations = append(eval.Recommendations, r.Recommendation)
		eval.Explanations = append(eval.Explanations, domain.Explanation{
			RuleID:         r.ID,
			Description:    r.Description,
			Recommendation: r.Recommendation,
			Dosage:         r.Dosage,
			DosageReason:   r.DosageReason,
			Priority:       r.Priority,
			GuidelineRef:   r.GuidelineRef,
			GuidelineText:  r.GuidelineText,
		})
	}

	e.logger.WithFields(logrus.Fields{
		"total_rules":   len(e.rules),
		"fired_rules":   len(eval.Explanations),
		"fallback_only": fallbackOnly,
	}).Debug("Completed rule evaluation")

	return eval
}

// Rules returns a copy of the normal rule set in authoring order, without
// the fallback.
func (e *Engine) Rules() []domain.Rule {
	out := make([]domain.Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Fallback returns the universal fallback rule.
func (e *Engine) Fallback() domain.Rule {
	return e.fallback
}
