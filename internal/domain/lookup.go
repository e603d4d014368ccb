package domain

// LookupSubjectType tags what a public lookup result refers to.
type LookupSubjectType string

const (
	LookupSubjectResident  LookupSubjectType = "RESIDENT"
	LookupSubjectHousehold LookupSubjectType = "HOUSEHOLD"
)

// LookupCandidate is one public search hit: an opaque id and its display label.
type LookupCandidate struct {
	SubjectType LookupSubjectType
	SubjectID   string
	Label       string
}
