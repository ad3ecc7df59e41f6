package availabilityapi

import (
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability"
	"github.com/gofiber/fiber/v2"
)

type AvailabilityHandlers struct {
	store availability.Store
}

func NewAvailabilityHandlers(store availability.Store) *AvailabilityHandlers {
	return &AvailabilityHandlers{store: store}
}

func (h *AvailabilityHandlers) RegisterRoutes(router fiber.Router) {
	router.Get("/availability", h.ListForOwner)
	router.Post("/availability/appointments", h.ReserveAppointment)
	router.Post("/availability/appointments/release", h.ReleaseAppointment)
}

// ListForOwner renderiza la vista de calendario: entrevistas y citas
// de negocio del owner dentro del rango pedido
func (h *AvailabilityHandlers) ListForOwner(c *fiber.Ctx) error {
	owner := c.Query("owner")
	if owner == "" {
		return availability.ErrInvalidRange().WithDetail("reason", "owner query param is required")
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return availability.ErrInvalidRange().WithDetail("reason", "from must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return availability.ErrInvalidRange().WithDetail("reason", "to must be RFC3339")
	}

	slots, err := h.store.ListForRange(c.Context(), kernel.NewInterviewerID(owner), from, to)
	if err != nil {
		return err
	}

	dtos := make([]availability.SlotDTO, 0, len(slots))
	for _, s := range slots {
		dtos = append(dtos, s.ToDTO())
	}

	return c.JSON(fiber.Map{
		"owner_id": owner,
		"from":     from,
		"to":       to,
		"slots":    dtos,
		"total":    len(dtos),
	})
}

// ReserveAppointment bloquea agenda con una cita de negocio directa
func (h *AvailabilityHandlers) ReserveAppointment(c *fiber.Ctx) error {
	var req availability.ReserveAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	slot := availability.Slot{
		OwnerID:         kernel.NewInterviewerID(req.OwnerID),
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		SourceType:      availability.SourceBusinessAppointment,
	}

	if err := h.store.Reserve(c.Context(), slot); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(slot.ToDTO())
}

// ReleaseAppointment libera una cita de negocio; idempotente
func (h *AvailabilityHandlers) ReleaseAppointment(c *fiber.Ctx) error {
	var req availability.ReleaseAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.store.Release(c.Context(), kernel.NewInterviewerID(req.OwnerID), req.Start, req.DurationMinutes); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Appointment released"})
}
