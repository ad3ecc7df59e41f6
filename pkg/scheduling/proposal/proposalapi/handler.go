package proposalapi

import (
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal/proposalsrv"
	"github.com/gofiber/fiber/v2"
)

type ProposalHandlers struct {
	service *proposalsrv.SchedulingService
}

func NewProposalHandlers(service *proposalsrv.SchedulingService) *ProposalHandlers {
	return &ProposalHandlers{service: service}
}

func (h *ProposalHandlers) RegisterRoutes(router fiber.Router) {
	proposals := router.Group("/proposals")

	proposals.Post("/", h.CreateProposal)
	proposals.Get("/", h.ListProposals)
	proposals.Get("/:id", h.GetProposal)
	proposals.Post("/:id/confirm", h.Confirm)
	proposals.Post("/:id/complete", h.Complete)
	proposals.Post("/:id/cancel", h.Cancel)
}

func (h *ProposalHandlers) CreateProposal(c *fiber.Ctx) error {
	var req proposal.CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.service.CreateProposal(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ProposalHandlers) GetProposal(c *fiber.Ctx) error {
	id := kernel.NewProposalID(c.Params("id"))

	p, err := h.service.GetProposal(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

// ListProposals alimenta la lista de entrevistas (tabs upcoming/past):
// el historial se retiene indefinidamente y se filtra por estado
func (h *ProposalHandlers) ListProposals(c *fiber.Ctx) error {
	filter := proposal.ListFilter{
		CandidateID:   kernel.NewCandidateID(c.Query("candidate")),
		InterviewerID: kernel.NewInterviewerID(c.Query("interviewer")),
		Status:        proposal.Status(c.Query("status")),
	}

	response, err := h.service.ListProposals(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *ProposalHandlers) Confirm(c *fiber.Ctx) error {
	id := kernel.NewProposalID(c.Params("id"))

	var req proposal.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p, err := h.service.Confirm(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

func (h *ProposalHandlers) Complete(c *fiber.Ctx) error {
	id := kernel.NewProposalID(c.Params("id"))

	var req proposal.CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p, err := h.service.Complete(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

func (h *ProposalHandlers) Cancel(c *fiber.Ctx) error {
	id := kernel.NewProposalID(c.Params("id"))

	var req proposal.CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p, err := h.service.Cancel(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(p)
}
