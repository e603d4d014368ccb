package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/api/dto"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/service"
)

// LookupHandler serves the public resident/household search.
type LookupHandler struct {
	lookup *service.LookupService
}

// NewLookupHandler constructs handler.
func NewLookupHandler(lookup *service.LookupService) *LookupHandler {
	return &LookupHandler{lookup: lookup}
}

// Search handles GET /api/lookup?q=.
func (h *LookupHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	results, err := h.lookup.Search(c.UserContext(), query)
	if err != nil {
		return err
	}

	resp := dto.LookupResponse{Query: query, Results: make([]dto.LookupCandidateResponse, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, dto.LookupCandidateResponse{
			SubjectType: string(r.Candidate.SubjectType),
			SubjectID:   r.Candidate.SubjectID,
			Label:       r.Candidate.Label,
			Token:       r.Token,
			ExpiresAt:   r.ExpiresAt,
		})
	}
	return c.JSON(resp)
}
