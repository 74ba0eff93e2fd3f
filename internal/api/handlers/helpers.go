package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"nemde-constraints/internal/api/models"
	"nemde-constraints/internal/mms"

	"github.com/gin-gonic/gin"
)

// writeError maps the archive error taxonomy onto HTTP statuses: missing
// periods/identifiers are 404s, a malformed or unreachable archive is a
// 502 (the fault sits upstream of this service), anything else is a 500.
func writeError(c *gin.Context, err error) {
	var nf *mms.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: nf.Error(),
				Details: map[string]interface{}{
					"resource": nf.Resource,
					"key":      nf.Key,
				},
			},
		})
		return
	}

	var pe *mms.ParseError
	if errors.As(err, &pe) {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ARCHIVE_MALFORMED",
				Message: pe.Error(),
				Details: map[string]interface{}{"table": pe.Table},
			},
		})
		return
	}

	var te *mms.TransportError
	if errors.As(err, &te) {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ARCHIVE_UNREACHABLE",
				Message: te.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		},
	})
}

func writeBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

func wantsCSV(c *gin.Context) bool {
	return c.Query("format") == "csv"
}

func serveCSV(c *gin.Context, filename string, write func() error) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := write(); err != nil {
		// Headers are already gone; all we can do is log via gin's error list.
		_ = c.Error(err)
	}
}
