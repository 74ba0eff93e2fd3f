package nemde

import (
	"context"
	"errors"
	"strings"
	"time"

	"nemde-constraints/internal/mms"
	"nemde-constraints/internal/model"

	"go.uber.org/zap"
)

// ArchiveClient fetches one MMS report for a month/year. *mms.Client
// satisfies this; tests substitute an in-memory archive.
type ArchiveClient interface {
	FetchTable(ctx context.Context, year, month int, table string) (*mms.Table, error)
}

// Service answers constraint-equation lookups against the archive. It
// holds no state between calls: every operation is a fresh
// read-and-parse of the published tables.
type Service struct {
	archive ArchiveClient
	log     *zap.Logger
}

// New creates a lookup service over an archive client.
func New(archive ArchiveClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{archive: archive, log: logger}
}

// ConstraintList returns the constraints published for a month/year, in
// archive order with duplicate IDs removed (the register carries one row
// per effective date/version; the first occurrence wins). An optional ID
// prefix, e.g. "Q_" or "S_", narrows the listing.
func (s *Service) ConstraintList(ctx context.Context, year, month int, prefix string) ([]model.ConstraintRecord, error) {
	t, err := s.archive.FetchTable(ctx, year, month, TableGenConData)
	if err != nil {
		return nil, err
	}
	idIdx, err := t.Index("GENCONID")
	if err != nil {
		return nil, err
	}
	descIdx, err := t.Index("DESCRIPTION")
	if err != nil {
		return nil, err
	}
	typeIdx, err := t.Index("CONSTRAINTTYPE")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(t.Rows))
	records := make([]model.ConstraintRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := row[idIdx]
		if prefix != "" && !strings.HasPrefix(id, prefix) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		records = append(records, model.ConstraintRecord{
			ID:             id,
			Description:    row[descIdx],
			ConstraintType: row[typeIdx],
		})
	}
	return records, nil
}

// FindConstraint filters a listing by case-insensitive substring match
// against constraint IDs and descriptions. An empty query returns the
// full listing; no match returns an empty slice, never an error.
func FindConstraint(query string, listing []model.ConstraintRecord) []model.ConstraintRecord {
	matches := make([]model.ConstraintRecord, 0, len(listing))
	if query == "" {
		return append(matches, listing...)
	}
	q := strings.ToLower(query)
	for _, rec := range listing {
		if strings.Contains(strings.ToLower(rec.ID), q) ||
			strings.Contains(strings.ToLower(rec.Description), q) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// ConstraintDetails aggregates the register entry with the constraint's
// LHS and RHS term tables. Fails with a NotFoundError when the ID is not
// in the register; a registered constraint with no published terms gets
// empty term slices rather than an error.
func (s *Service) ConstraintDetails(ctx context.Context, id string, year, month int) (*model.ConstraintDetails, error) {
	rec, err := s.constraintRecord(ctx, id, year, month)
	if err != nil {
		return nil, err
	}
	lhs, err := s.lhsTermRows(ctx, id, year, month)
	if err != nil {
		return nil, err
	}
	rhs, err := s.rhsTermRows(ctx, id, year, month)
	if err != nil {
		return nil, err
	}
	return &model.ConstraintDetails{Constraint: *rec, LHS: lhs, RHS: rhs}, nil
}

func (s *Service) constraintRecord(ctx context.Context, id string, year, month int) (*model.ConstraintRecord, error) {
	listing, err := s.ConstraintList(ctx, year, month, "")
	if err != nil {
		return nil, err
	}
	for i := range listing {
		if listing[i].ID == id {
			return &listing[i], nil
		}
	}
	return nil, &mms.NotFoundError{Op: "ConstraintDetails", Resource: "constraint", Key: id}
}

// SearchArchive walks the archive backwards month-by-month from `to`
// looking for constraints whose ID starts with pattern, and returns the
// matches from the most recent period that has any, together with that
// period. Unpublished months inside the window are skipped. A zero
// `from` defaults to July 2009 (the start of the archive); a zero `to`
// defaults to two months before now, the latest month reliably
// published.
func (s *Service) SearchArchive(ctx context.Context, pattern string, from, to model.Period) ([]model.ConstraintRecord, model.Period, error) {
	for _, cur := range s.periodsBack(from, to) {
		s.log.Debug("searching archive period",
			zap.String("pattern", pattern),
			zap.String("period", cur.String()))
		matches, err := s.ConstraintList(ctx, cur.Year, cur.Month, pattern)
		if err != nil {
			var nf *mms.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, model.Period{}, err
		}
		if len(matches) > 0 {
			return matches, cur, nil
		}
	}
	return nil, model.Period{}, &mms.NotFoundError{
		Op:       "SearchArchive",
		Resource: "constraint",
		Key:      pattern,
	}
}

// periodsBack yields the months of a search window newest-first,
// applying the default window bounds.
func (s *Service) periodsBack(from, to model.Period) []model.Period {
	if from.IsZero() {
		from = model.Period{Year: 2009, Month: 7}
	}
	if to.IsZero() {
		now := time.Now().AddDate(0, -2, 0)
		to = model.Period{Year: now.Year(), Month: int(now.Month())}
	}
	var periods []model.Period
	for cur := to; !cur.Before(from); cur = cur.Prev() {
		periods = append(periods, cur)
	}
	return periods
}
