package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/capability"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

// MinLookupQueryLength is the shortest accepted public search query.
const MinLookupQueryLength = 2

// LookupResult is one candidate with its capability token.
type LookupResult struct {
	Candidate domain.LookupCandidate
	Token     string
	ExpiresAt time.Time
}

// LookupService runs the public resident/household search.
type LookupService struct {
	directory  repository.DirectoryRepository
	minter     *capability.Minter
	ttl        time.Duration
	maxResults int
}

// NewLookupService builds the service.
func NewLookupService(directory repository.DirectoryRepository, minter *capability.Minter, ttl time.Duration, maxResults int) *LookupService {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &LookupService{directory: directory, minter: minter, ttl: ttl, maxResults: maxResults}
}

// Search finds candidates and mints one capability token per candidate.
func (s *LookupService) Search(ctx context.Context, query string) ([]LookupResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinLookupQueryLength {
		return nil, apperrors.NewValidationError("query must be at least 2 characters", map[string]any{"min_length": MinLookupQueryLength})
	}

	candidates, err := s.directory.Search(ctx, query, s.maxResults)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(candidates) > s.maxResults {
		candidates = candidates[:s.maxResults]
	}

	results := make([]LookupResult, 0, len(candidates))
	for _, candidate := range candidates {
		tok, exp, err := s.minter.Mint(candidate.SubjectType, candidate.SubjectID, candidate.Label, s.ttl)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		results = append(results, LookupResult{Candidate: candidate, Token: tok, ExpiresAt: exp})
	}
	return results, nil
}
