package models

// PeriodRequest carries the archive period selectors shared by all
// lookup endpoints.
type PeriodRequest struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// ListConstraintsRequest defines query parameters for GET /constraints.
type ListConstraintsRequest struct {
	PeriodRequest
	Prefix string `form:"prefix"`
}

// SearchConstraintsRequest defines query parameters for GET /constraints/search.
type SearchConstraintsRequest struct {
	PeriodRequest
	Query string `form:"q"`
}

// ListFunctionsRequest defines query parameters for GET /functions.
type ListFunctionsRequest struct {
	PeriodRequest
	Query string `form:"q"`
}
