package models

import "nemde-constraints/internal/model"

// ConstraintListResponse is the body of GET /constraints and
// GET /constraints/search.
type ConstraintListResponse struct {
	Year        int                      `json:"year"`
	Month       int                      `json:"month"`
	Count       int                      `json:"count"`
	Constraints []model.ConstraintRecord `json:"constraints"`
}

// ConstraintDetailsResponse is the body of GET /constraints/:id.
type ConstraintDetailsResponse struct {
	Constraint model.ConstraintRecord `json:"constraint"`
	LHS        []model.LHSTerm        `json:"lhs"`
	RHS        []model.RHSTerm        `json:"rhs"`
	Equation   string                 `json:"equation"`
}

// LHSTermsResponse is the body of GET /constraints/:id/lhs.
type LHSTermsResponse struct {
	ConstraintID string          `json:"constraint_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Terms        []model.LHSTerm `json:"terms"`
}

// RHSTermsResponse is the body of GET /constraints/:id/rhs.
type RHSTermsResponse struct {
	ConstraintID string          `json:"constraint_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Terms        []model.RHSTerm `json:"terms"`
}

// FunctionListResponse is the body of GET /functions.
type FunctionListResponse struct {
	Year      int                     `json:"year"`
	Month     int                     `json:"month"`
	Count     int                     `json:"count"`
	Functions []model.GenericFunction `json:"functions"`
}

// FunctionTermsResponse is the body of GET /functions/:id.
type FunctionTermsResponse struct {
	FunctionID string          `json:"function_id"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Terms      []model.RHSTerm `json:"terms"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
