package render

import (
	"testing"

	"nemde-constraints/internal/model"

	"github.com/stretchr/testify/assert"
)

func sampleDetails() model.ConstraintDetails {
	return model.ConstraintDetails{
		Constraint: model.ConstraintRecord{ID: "N^^NIL_1", ConstraintType: "<="},
		LHS: []model.LHSTerm{
			{Spot: 1, Type: model.TermConnectionPoint, SPDID: "NBW1", DUID: "BW01", BidType: "ENOF", Factor: 1},
			{Spot: 2, Type: model.TermInterconnector, SPDID: "VIC1-NSW1", DUID: "VIC1-NSW1", BidType: "N/A", Factor: -1},
		},
		RHS: []model.RHSTerm{
			{Spot: 1, SPDID: "NSW1_LINE_MW", SPDType: "A", Factor: 1, Operation: "-"},
			{Spot: 2, SPDID: "X_NSW_AVG", SPDType: "X", Factor: 0.9, Operation: "ADD"},
		},
	}
}

func TestEquation(t *testing.T) {
	got := Equation(sampleDetails())
	assert.Equal(t,
		"N^^NIL_1: 1.0000 * BW01 [NBW1] (ENOF) - 1.0000 * VIC1-NSW1 <= {1.0000 * NSW1_LINE_MW [A]} {0.9000 * X_NSW_AVG [X] ADD}",
		got)
}

func TestLHSExpression_LeadingNegative(t *testing.T) {
	terms := []model.LHSTerm{
		{Spot: 1, Type: model.TermRegion, SPDID: "QLD1", DUID: "QLD1", BidType: "N/A", Factor: -0.5},
	}
	assert.Equal(t, "-0.5000 * QLD1", LHSExpression(terms))
}

func TestExpressions_Empty(t *testing.T) {
	assert.Equal(t, "0", LHSExpression(nil))
	assert.Equal(t, "0", RHSExpression(nil))
}

func TestEquation_DefaultOperator(t *testing.T) {
	d := sampleDetails()
	d.Constraint.ConstraintType = ""
	assert.Contains(t, Equation(d), " <= ")
}
