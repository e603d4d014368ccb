package dto

import "time"

// LookupCandidateResponse is one public search hit with its capability token.
type LookupCandidateResponse struct {
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	Label       string    `json:"label"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LookupResponse wraps search results.
type LookupResponse struct {
	Query   string                    `json:"query"`
	Results []LookupCandidateResponse `json:"results"`
}
