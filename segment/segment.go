// Package segment compiles declarative audience filters into query predicates
// over the customer store.
package segment

import (
	"strings"
	"time"

	"github.com/pulsecrm/pulse/models"
)

// Condition is one compiled constraint against a customers column.
type Condition struct {
	Column   string
	Operator models.SegmentOperator
	Number   float64
	Cutoff   *time.Time // set only for last_active conditions
}

// Predicate is the compiled form of an audience filter. An empty condition
// list is the universal predicate and matches every customer, for either
// combinator.
type Predicate struct {
	Conditions []Condition
	Combinator models.Combinator

	// Ignored holds rules that referenced an unrecognized field or operator.
	// Such rules contribute no constraint; callers may log them.
	Ignored []models.SegmentRule
}

// Compile resolves an audience filter into a predicate. The inactive_days
// cutoff is computed once from now, so every rule in one filter shares a
// consistent clock.
func Compile(filter models.AudienceFilter, now time.Time) Predicate {
	p := Predicate{Combinator: filter.Condition}
	if !p.Combinator.Valid() {
		p.Combinator = models.CombinatorAnd
	}

	for _, rule := range filter.Rules {
		switch rule.Field {
		case models.SegmentFieldSpend, models.SegmentFieldVisits:
			if !rule.Operator.Valid() {
				p.Ignored = append(p.Ignored, rule)
				continue
			}
			p.Conditions = append(p.Conditions, Condition{
				Column:   rule.Field.String(),
				Operator: rule.Operator,
				Number:   rule.Value,
			})
		case models.SegmentFieldInactiveDays:
			// Inactivity always means "last active strictly before the
			// cutoff", regardless of the rule operator.
			cutoff := now.Add(-time.Duration(rule.Value*24) * time.Hour)
			p.Conditions = append(p.Conditions, Condition{
				Column:   "last_active",
				Operator: models.SegmentOperatorLT,
				Cutoff:   &cutoff,
			})
		default:
			// Unrecognized field: permissive parsing, no constraint.
			p.Ignored = append(p.Ignored, rule)
		}
	}

	return p
}

// sqlOperators maps rule operators to their SQL form.
var sqlOperators = map[models.SegmentOperator]string{
	models.SegmentOperatorGT:  ">",
	models.SegmentOperatorLT:  "<",
	models.SegmentOperatorGTE: ">=",
	models.SegmentOperatorLTE: "<=",
	models.SegmentOperatorEQ:  "=",
}

// Clause renders the predicate as a parameterized SQL fragment over the
// customers table. The universal predicate renders as an empty clause.
func (p Predicate) Clause() (string, []any) {
	if len(p.Conditions) == 0 {
		return "", nil
	}

	joiner := " AND "
	if p.Combinator == models.CombinatorOr {
		joiner = " OR "
	}

	parts := make([]string, 0, len(p.Conditions))
	args := make([]any, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		parts = append(parts, c.Column+" "+sqlOperators[c.Operator]+" ?")
		if c.Cutoff != nil {
			args = append(args, *c.Cutoff)
		} else {
			args = append(args, c.Number)
		}
	}

	return strings.Join(parts, joiner), args
}

// Match evaluates the predicate against a single customer in memory. It
// mirrors Clause exactly and backs the fakes used in tests.
func (p Predicate) Match(c *models.Customer) bool {
	if len(p.Conditions) == 0 {
		return true
	}

	for _, cond := range p.Conditions {
		ok := cond.matches(c)
		if p.Combinator == models.CombinatorOr {
			if ok {
				return true
			}
		} else if !ok {
			return false
		}
	}

	return p.Combinator != models.CombinatorOr
}

func (c Condition) matches(customer *models.Customer) bool {
	if c.Cutoff != nil {
		return customer.LastActive.Before(*c.Cutoff)
	}

	var have float64
	switch c.Column {
	case "spend":
		have = customer.Spend
	case "visits":
		have = float64(customer.Visits)
	default:
		return false
	}

	switch c.Operator {
	case models.SegmentOperatorGT:
		return have > c.Number
	case models.SegmentOperatorLT:
		return have < c.Number
	case models.SegmentOperatorGTE:
		return have >= c.Number
	case models.SegmentOperatorLTE:
		return have <= c.Number
	case models.SegmentOperatorEQ:
		return have == c.Number
	default:
		return false
	}
}
