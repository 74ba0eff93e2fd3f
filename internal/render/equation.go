// Package render builds human-readable views of constraint equations
// from their published term tables.
package render

import (
	"fmt"
	"strings"

	"nemde-constraints/internal/model"
)

// Equation renders a constraint as a single line, LHS terms folded into
// a signed sum and RHS terms listed in spot order. The RHS is published
// as an RPN token stream, so it is shown as an ordered token list rather
// than rewritten into infix form.
func Equation(d model.ConstraintDetails) string {
	op := d.Constraint.ConstraintType
	if op == "" {
		op = "<="
	}
	return fmt.Sprintf("%s: %s %s %s", d.Constraint.ID, LHSExpression(d.LHS), op, RHSExpression(d.RHS))
}

// LHSExpression folds LHS terms into a signed sum, e.g.
// "1.0000 * BW01 (ENOF) - 0.5000 * VIC1-NSW1".
func LHSExpression(terms []model.LHSTerm) string {
	if len(terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range terms {
		factor := t.Factor
		switch {
		case i == 0 && factor < 0:
			b.WriteString("-")
			factor = -factor
		case i > 0 && factor < 0:
			b.WriteString(" - ")
			factor = -factor
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(fmt.Sprintf("%.4f * %s", factor, lhsVariable(t)))
	}
	return b.String()
}

func lhsVariable(t model.LHSTerm) string {
	name := t.SPDID
	if t.Type == model.TermConnectionPoint && t.DUID != "" && t.DUID != t.SPDID {
		name = fmt.Sprintf("%s [%s]", t.DUID, t.SPDID)
	}
	if t.BidType != "" && t.BidType != "N/A" {
		return fmt.Sprintf("%s (%s)", name, t.BidType)
	}
	return name
}

// RHSExpression lists RHS terms in spot order as factor-scaled tokens
// with their operation suffixes, e.g. "{1.0000 * NSW1_SCADA [A]} {0.9000 * X_MAXAVAIL [X] ADD}".
func RHSExpression(terms []model.RHSTerm) string {
	if len(terms) == 0 {
		return "0"
	}
	tokens := make([]string, 0, len(terms))
	for _, t := range terms {
		token := fmt.Sprintf("%.4f * %s [%s]", t.Factor, t.SPDID, t.SPDType)
		if t.Operation != "" && t.Operation != "-" {
			token += " " + t.Operation
		}
		tokens = append(tokens, "{"+token+"}")
	}
	return strings.Join(tokens, " ")
}
