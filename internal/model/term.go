package model

// TermType classifies which LHS table a term was published in.
type TermType string

const (
	TermConnectionPoint TermType = "CONNECTIONPOINT"
	TermInterconnector  TermType = "INTERCONNECTOR"
	TermRegion          TermType = "REGION"
)

// LHSTerm is one left-hand-side term of a constraint equation: a dispatch
// variable (connection point, interconnector or region quantity) scaled by
// a factor. Spot is the 1-based published order of the term.
type LHSTerm struct {
	Spot    int      `json:"spot"`
	Type    TermType `json:"type"`
	SPDID   string   `json:"id"`
	DUID    string   `json:"duid"`
	BidType string   `json:"bid_type"`
	Factor  float64  `json:"factor"`
}

// RHSTerm is one right-hand-side term: a SCADA input, constant or nested
// generic function reference, with an optional RPN operation token. Spot is
// the published TERMID; ordering by spot defines the equation structure.
type RHSTerm struct {
	Spot        int     `json:"spot"`
	SPDID       string  `json:"id"`
	SPDType     string  `json:"spd_type"`
	Description string  `json:"description"`
	Factor      float64 `json:"factor"`
	Operation   string  `json:"operation"`
	GroupID     string  `json:"group_id,omitempty"`
}
