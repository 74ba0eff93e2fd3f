package nemde

import (
	"context"
	"sort"

	"nemde-constraints/internal/mms"
	"nemde-constraints/internal/model"
)

// SCADA input types whose descriptions live in the EMSMASTER register.
var scadaTypes = map[string]bool{
	"A": true, // analog
	"S": true, // switch/status
	"I": true, // interconnector flow
	"T": true, // transmission element
	"R": true, // region quantity
}

const duidNotFound = "DUID not found"

// LHSTerms returns the left-hand-side terms of a constraint equation in
// published order: connection point terms first (with their dispatchable
// unit resolved from DUDETAIL), then interconnectors, then regions.
// Fails with a NotFoundError when the constraint has no published LHS.
func (s *Service) LHSTerms(ctx context.Context, id string, year, month int) ([]model.LHSTerm, error) {
	terms, err := s.lhsTermRows(ctx, id, year, month)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, &mms.NotFoundError{Op: "LHSTerms", Resource: "constraint", Key: id}
	}
	return terms, nil
}

func (s *Service) lhsTermRows(ctx context.Context, id string, year, month int) ([]model.LHSTerm, error) {
	var terms []model.LHSTerm

	// Connection points, joined against DUDETAIL for the unit behind
	// each connection point.
	cp, err := s.archive.FetchTable(ctx, year, month, TableConnectionPointLHS)
	if err != nil {
		return nil, err
	}
	cpRows, err := filterRows(cp, "GENCONID", id)
	if err != nil {
		return nil, err
	}
	if len(cpRows) > 0 {
		units, err := s.unitsByConnectionPoint(ctx, year, month)
		if err != nil {
			return nil, err
		}
		cpIdx, err := cp.Index("CONNECTIONPOINTID")
		if err != nil {
			return nil, err
		}
		factorIdx, err := cp.Index("FACTOR")
		if err != nil {
			return nil, err
		}
		bidIdx, err := cp.Index("BIDTYPE")
		if err != nil {
			return nil, err
		}
		for _, row := range cpRows {
			factor, err := cp.Float(row, factorIdx)
			if err != nil {
				return nil, err
			}
			duid, ok := units[row[cpIdx]]
			if !ok {
				duid = duidNotFound
			}
			terms = append(terms, model.LHSTerm{
				Type:    model.TermConnectionPoint,
				SPDID:   row[cpIdx],
				DUID:    duid,
				BidType: row[bidIdx],
				Factor:  factor,
			})
		}
	}

	icTerms, err := s.simpleLHSTerms(ctx, year, month, TableInterconnectorLHS, "INTERCONNECTORID", model.TermInterconnector, id)
	if err != nil {
		return nil, err
	}
	terms = append(terms, icTerms...)

	regionTerms, err := s.simpleLHSTerms(ctx, year, month, TableRegionLHS, "REGIONID", model.TermRegion, id)
	if err != nil {
		return nil, err
	}
	terms = append(terms, regionTerms...)

	for i := range terms {
		terms[i].Spot = i + 1
	}
	return terms, nil
}

// simpleLHSTerms reads interconnector or region LHS rows, which carry no
// bid type and identify themselves directly rather than via DUDETAIL.
func (s *Service) simpleLHSTerms(ctx context.Context, year, month int, table, idColumn string, termType model.TermType, id string) ([]model.LHSTerm, error) {
	t, err := s.archive.FetchTable(ctx, year, month, table)
	if err != nil {
		return nil, err
	}
	rows, err := filterRows(t, "GENCONID", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idIdx, err := t.Index(idColumn)
	if err != nil {
		return nil, err
	}
	factorIdx, err := t.Index("FACTOR")
	if err != nil {
		return nil, err
	}
	terms := make([]model.LHSTerm, 0, len(rows))
	for _, row := range rows {
		factor, err := t.Float(row, factorIdx)
		if err != nil {
			return nil, err
		}
		terms = append(terms, model.LHSTerm{
			Type:    termType,
			SPDID:   row[idIdx],
			DUID:    row[idIdx],
			BidType: "N/A",
			Factor:  factor,
		})
	}
	return terms, nil
}

func (s *Service) unitsByConnectionPoint(ctx context.Context, year, month int) (map[string]string, error) {
	t, err := s.archive.FetchTable(ctx, year, month, TableDispatchableUnits)
	if err != nil {
		return nil, err
	}
	cpIdx, err := t.Index("CONNECTIONPOINTID")
	if err != nil {
		return nil, err
	}
	duidIdx, err := t.Index("DUID")
	if err != nil {
		return nil, err
	}
	units := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		if _, dup := units[row[cpIdx]]; !dup {
			units[row[cpIdx]] = row[duidIdx]
		}
	}
	return units, nil
}

// RHSTerms returns the right-hand-side terms of a constraint equation
// ordered by their published TERMID (spot), with SCADA term descriptions
// resolved from EMSMASTER. Fails with a NotFoundError when the
// constraint has no published RHS.
func (s *Service) RHSTerms(ctx context.Context, id string, year, month int) ([]model.RHSTerm, error) {
	terms, err := s.rhsTermRows(ctx, id, year, month)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, &mms.NotFoundError{Op: "RHSTerms", Resource: "constraint", Key: id}
	}
	return terms, nil
}

func (s *Service) rhsTermRows(ctx context.Context, id string, year, month int) ([]model.RHSTerm, error) {
	t, err := s.archive.FetchTable(ctx, year, month, TableConstraintRHS)
	if err != nil {
		return nil, err
	}
	return s.rhsTermsFromTable(ctx, t, "GENCONID", id, year, month, true)
}

// rhsTermsFromTable builds ordered RHS terms from either the constraint
// RHS table or the generic equation RHS table; both share the TERMID /
// SPD_ID / SPD_TYPE / FACTOR / OPERATION column layout. allowGeneric
// marks nested "X" terms as generic function references, which the
// generic equation table itself cannot contain.
func (s *Service) rhsTermsFromTable(ctx context.Context, t *mms.Table, keyColumn, key string, year, month int, allowGeneric bool) ([]model.RHSTerm, error) {
	rows, err := filterRows(t, keyColumn, key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	descriptions, err := s.scadaDescriptions(ctx, year, month)
	if err != nil {
		return nil, err
	}

	termIdx, err := t.Index("TERMID")
	if err != nil {
		return nil, err
	}
	spdIDIdx, err := t.Index("SPD_ID")
	if err != nil {
		return nil, err
	}
	spdTypeIdx, err := t.Index("SPD_TYPE")
	if err != nil {
		return nil, err
	}
	factorIdx, err := t.Index("FACTOR")
	if err != nil {
		return nil, err
	}
	opIdx, err := t.Index("OPERATION")
	if err != nil {
		return nil, err
	}
	groupIdx, err := t.Index("GROUPID")
	if err != nil {
		return nil, err
	}

	terms := make([]model.RHSTerm, 0, len(rows))
	for _, row := range rows {
		spot, err := t.Int(row, termIdx)
		if err != nil {
			return nil, err
		}
		factor, err := t.Float(row, factorIdx)
		if err != nil {
			return nil, err
		}

		spdType := row[spdTypeIdx]
		desc := "-"
		switch {
		case scadaTypes[spdType]:
			if d, ok := descriptions[row[spdIDIdx]]; ok {
				desc = d
			}
		case spdType == "X" && allowGeneric:
			// Nested reference; the function itself may be defined in an
			// earlier archive period and is fetched separately.
			desc = "Generic RHS function"
		}

		op := row[opIdx]
		if op == "" {
			op = "-"
		}

		terms = append(terms, model.RHSTerm{
			Spot:        spot,
			SPDID:       row[spdIDIdx],
			SPDType:     spdType,
			Description: desc,
			Factor:      factor,
			Operation:   op,
			GroupID:     row[groupIdx],
		})
	}

	// Spot order defines the equation; the archive does not guarantee
	// row delivery order.
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Spot < terms[j].Spot })
	return terms, nil
}

func (s *Service) scadaDescriptions(ctx context.Context, year, month int) (map[string]string, error) {
	t, err := s.archive.FetchTable(ctx, year, month, TableEMSMaster)
	if err != nil {
		return nil, err
	}
	idIdx, err := t.Index("SPD_ID")
	if err != nil {
		return nil, err
	}
	descIdx, err := t.Index("DESCRIPTION")
	if err != nil {
		return nil, err
	}
	descriptions := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		if _, dup := descriptions[row[idIdx]]; !dup {
			descriptions[row[idIdx]] = row[descIdx]
		}
	}
	return descriptions, nil
}

func filterRows(t *mms.Table, column, value string) ([][]string, error) {
	idx, err := t.Index(column)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, row := range t.Rows {
		if row[idx] == value {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
