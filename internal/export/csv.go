// Package export writes lookup results as CSV for spreadsheet use.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"nemde-constraints/internal/model"
)

// WriteConstraintsCSV writes a constraint listing in archive order.
func WriteConstraintsCSV(w io.Writer, records []model.ConstraintRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "description", "constraint_type"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.ID, r.Description, r.ConstraintType}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteFunctionsCSV writes a generic function listing in archive order.
func WriteFunctionsCSV(w io.Writer, funcs []model.GenericFunction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "description"}); err != nil {
		return err
	}
	for _, fn := range funcs {
		if err := cw.Write([]string{fn.ID, fn.Description}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteLHSTermsCSV writes LHS terms in spot order.
func WriteLHSTermsCSV(w io.Writer, terms []model.LHSTerm) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"spot", "type", "id", "duid", "bid_type", "factor"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range terms {
		row := []string{
			strconv.Itoa(t.Spot),
			string(t.Type),
			t.SPDID,
			t.DUID,
			t.BidType,
			fmtFloat(t.Factor),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteRHSTermsCSV writes RHS terms in spot order.
func WriteRHSTermsCSV(w io.Writer, terms []model.RHSTerm) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"spot", "id", "spd_type", "description", "factor", "operation", "group_id"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range terms {
		row := []string{
			strconv.Itoa(t.Spot),
			t.SPDID,
			t.SPDType,
			t.Description,
			fmtFloat(t.Factor),
			t.Operation,
			t.GroupID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
