package nemde

import (
	"context"
	"errors"
	"strings"

	"nemde-constraints/internal/mms"
	"nemde-constraints/internal/model"

	"go.uber.org/zap"
)

// GenericFunctionList returns the generic RHS functions published for a
// month/year, in archive order with duplicate IDs removed.
func (s *Service) GenericFunctionList(ctx context.Context, year, month int) ([]model.GenericFunction, error) {
	t, err := s.archive.FetchTable(ctx, year, month, TableGenericEquationDesc)
	if err != nil {
		return nil, err
	}
	idIdx, err := t.Index("EQUATIONID")
	if err != nil {
		return nil, err
	}
	descIdx, err := t.Index("DESCRIPTION")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(t.Rows))
	funcs := make([]model.GenericFunction, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := row[idIdx]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		funcs = append(funcs, model.GenericFunction{ID: id, Description: row[descIdx]})
	}
	return funcs, nil
}

// FindGenericFunction filters a function listing by case-insensitive
// substring match against IDs and descriptions. Same contract as
// FindConstraint: empty query returns everything, no match returns an
// empty slice.
func FindGenericFunction(query string, listing []model.GenericFunction) []model.GenericFunction {
	matches := make([]model.GenericFunction, 0, len(listing))
	if query == "" {
		return append(matches, listing...)
	}
	q := strings.ToLower(query)
	for _, fn := range listing {
		if strings.Contains(strings.ToLower(fn.ID), q) ||
			strings.Contains(strings.ToLower(fn.Description), q) {
			matches = append(matches, fn)
		}
	}
	return matches
}

// SearchFunctionArchive walks the archive backwards month-by-month
// looking for generic functions whose ID starts with pattern. Generic
// functions are often defined in earlier periods than the constraints
// that reference them, so the back-walk matters more here than for
// constraints. Window defaults match SearchArchive.
func (s *Service) SearchFunctionArchive(ctx context.Context, pattern string, from, to model.Period) ([]model.GenericFunction, model.Period, error) {
	for _, cur := range s.periodsBack(from, to) {
		s.log.Debug("searching archive period for generic function",
			zap.String("pattern", pattern),
			zap.String("period", cur.String()))
		listing, err := s.GenericFunctionList(ctx, cur.Year, cur.Month)
		if err != nil {
			var nf *mms.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, model.Period{}, err
		}
		var matches []model.GenericFunction
		for _, fn := range listing {
			if strings.HasPrefix(fn.ID, pattern) {
				matches = append(matches, fn)
			}
		}
		if len(matches) > 0 {
			return matches, cur, nil
		}
	}
	return nil, model.Period{}, &mms.NotFoundError{
		Op:       "SearchFunctionArchive",
		Resource: "generic function",
		Key:      pattern,
	}
}

// GenericFunctionTerms returns the defining terms of a generic RHS
// function ordered by spot. Fails with a NotFoundError when the function
// is not published for the period.
func (s *Service) GenericFunctionTerms(ctx context.Context, id string, year, month int) ([]model.RHSTerm, error) {
	t, err := s.archive.FetchTable(ctx, year, month, TableGenericEquationRHS)
	if err != nil {
		return nil, err
	}
	terms, err := s.rhsTermsFromTable(ctx, t, "EQUATIONID", id, year, month, false)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, &mms.NotFoundError{Op: "GenericFunctionTerms", Resource: "generic function", Key: id}
	}
	return terms, nil
}
