package model

import "fmt"

// ConstraintRecord is one row of the constraint register (GENCONDATA),
// projected down to the fields a lookup caller cares about. IDs are
// unique within a single month/year listing.
type ConstraintRecord struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	ConstraintType string `json:"constraint_type,omitempty"` // "<=", ">=" or "="
}

// GenericFunction identifies a reusable RHS formula (GENERICEQUATIONDESC)
// referenced by multiple constraints instead of being repeated inline.
type GenericFunction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ConstraintDetails aggregates everything published about one constraint
// equation for a given archive period.
type ConstraintDetails struct {
	Constraint ConstraintRecord `json:"constraint"`
	LHS        []LHSTerm        `json:"lhs"`
	RHS        []RHSTerm        `json:"rhs"`
}

// Period identifies one month/year directory of the archive.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}
