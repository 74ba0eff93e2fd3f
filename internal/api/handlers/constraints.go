package handlers

import (
	"fmt"
	"net/http"

	"nemde-constraints/internal/api/models"
	"nemde-constraints/internal/export"
	"nemde-constraints/internal/nemde"
	"nemde-constraints/internal/render"

	"github.com/gin-gonic/gin"
)

// ConstraintHandler serves constraint listing, search and term lookups.
type ConstraintHandler struct {
	svc *nemde.Service
}

// NewConstraintHandler creates a new constraint handler.
func NewConstraintHandler(svc *nemde.Service) *ConstraintHandler {
	return &ConstraintHandler{svc: svc}
}

// List handles GET /api/v1/constraints
func (h *ConstraintHandler) List(c *gin.Context) {
	var req models.ListConstraintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	records, err := h.svc.ConstraintList(c.Request.Context(), req.Year, req.Month, req.Prefix)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsCSV(c) {
		name := fmt.Sprintf("constraints_%04d_%02d.csv", req.Year, req.Month)
		serveCSV(c, name, func() error {
			return export.WriteConstraintsCSV(c.Writer, records)
		})
		return
	}

	c.JSON(http.StatusOK, models.ConstraintListResponse{
		Year:        req.Year,
		Month:       req.Month,
		Count:       len(records),
		Constraints: records,
	})
}

// Search handles GET /api/v1/constraints/search
func (h *ConstraintHandler) Search(c *gin.Context) {
	var req models.SearchConstraintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	listing, err := h.svc.ConstraintList(c.Request.Context(), req.Year, req.Month, "")
	if err != nil {
		writeError(c, err)
		return
	}
	matches := nemde.FindConstraint(req.Query, listing)

	c.JSON(http.StatusOK, models.ConstraintListResponse{
		Year:        req.Year,
		Month:       req.Month,
		Count:       len(matches),
		Constraints: matches,
	})
}

// Details handles GET /api/v1/constraints/:id
func (h *ConstraintHandler) Details(c *gin.Context) {
	var req models.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	id := c.Param("id")

	details, err := h.svc.ConstraintDetails(c.Request.Context(), id, req.Year, req.Month)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConstraintDetailsResponse{
		Constraint: details.Constraint,
		LHS:        details.LHS,
		RHS:        details.RHS,
		Equation:   render.Equation(*details),
	})
}

// LHS handles GET /api/v1/constraints/:id/lhs
func (h *ConstraintHandler) LHS(c *gin.Context) {
	var req models.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	id := c.Param("id")

	terms, err := h.svc.LHSTerms(c.Request.Context(), id, req.Year, req.Month)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsCSV(c) {
		serveCSV(c, fmt.Sprintf("%s_lhs.csv", id), func() error {
			return export.WriteLHSTermsCSV(c.Writer, terms)
		})
		return
	}

	c.JSON(http.StatusOK, models.LHSTermsResponse{
		ConstraintID: id,
		Year:         req.Year,
		Month:        req.Month,
		Terms:        terms,
	})
}

// RHS handles GET /api/v1/constraints/:id/rhs
func (h *ConstraintHandler) RHS(c *gin.Context) {
	var req models.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	id := c.Param("id")

	terms, err := h.svc.RHSTerms(c.Request.Context(), id, req.Year, req.Month)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsCSV(c) {
		serveCSV(c, fmt.Sprintf("%s_rhs.csv", id), func() error {
			return export.WriteRHSTermsCSV(c.Writer, terms)
		})
		return
	}

	c.JSON(http.StatusOK, models.RHSTermsResponse{
		ConstraintID: id,
		Year:         req.Year,
		Month:        req.Month,
		Terms:        terms,
	})
}
