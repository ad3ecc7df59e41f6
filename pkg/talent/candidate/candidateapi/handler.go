package candidateapi

import (
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

type CandidateHandlers struct {
	service *candidatesrv.CandidateService
}

func NewCandidateHandlers(service *candidatesrv.CandidateService) *CandidateHandlers {
	return &CandidateHandlers{service: service}
}

func (h *CandidateHandlers) RegisterRoutes(router fiber.Router) {
	candidates := router.Group("/candidates")

	candidates.Get("/", h.ListCandidates)
	candidates.Get("/:id", h.GetCandidate)
}

func (h *CandidateHandlers) GetCandidate(c *fiber.Ctx) error {
	id := c.Params("id")

	dto, err := h.service.GetCandidate(c.Context(), kernel.NewCandidateID(id))
	if err != nil {
		return err
	}

	return c.JSON(dto)
}

func (h *CandidateHandlers) ListCandidates(c *fiber.Ctx) error {
	dtos, err := h.service.ListCandidates(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"candidates": dtos,
		"total":      len(dtos),
	})
}
