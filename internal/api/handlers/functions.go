package handlers

import (
	"fmt"
	"net/http"

	"nemde-constraints/internal/api/models"
	"nemde-constraints/internal/export"
	"nemde-constraints/internal/nemde"

	"github.com/gin-gonic/gin"
)

// FunctionHandler serves generic RHS function lookups.
type FunctionHandler struct {
	svc *nemde.Service
}

// NewFunctionHandler creates a new generic function handler.
func NewFunctionHandler(svc *nemde.Service) *FunctionHandler {
	return &FunctionHandler{svc: svc}
}

// List handles GET /api/v1/functions; an optional q parameter filters
// the listing by substring match.
func (h *FunctionHandler) List(c *gin.Context) {
	var req models.ListFunctionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	listing, err := h.svc.GenericFunctionList(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		writeError(c, err)
		return
	}
	matches := nemde.FindGenericFunction(req.Query, listing)

	if wantsCSV(c) {
		name := fmt.Sprintf("functions_%04d_%02d.csv", req.Year, req.Month)
		serveCSV(c, name, func() error {
			return export.WriteFunctionsCSV(c.Writer, matches)
		})
		return
	}

	c.JSON(http.StatusOK, models.FunctionListResponse{
		Year:      req.Year,
		Month:     req.Month,
		Count:     len(matches),
		Functions: matches,
	})
}

// Terms handles GET /api/v1/functions/:id
func (h *FunctionHandler) Terms(c *gin.Context) {
	var req models.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	id := c.Param("id")

	terms, err := h.svc.GenericFunctionTerms(c.Request.Context(), id, req.Year, req.Month)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsCSV(c) {
		serveCSV(c, fmt.Sprintf("%s_terms.csv", id), func() error {
			return export.WriteRHSTermsCSV(c.Writer, terms)
		})
		return
	}

	c.JSON(http.StatusOK, models.FunctionTermsResponse{
		FunctionID: id,
		Year:       req.Year,
		Month:      req.Month,
		Terms:      terms,
	})
}
