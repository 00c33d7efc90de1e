package delivery

import (
	"orphancare/config"
	"orphancare/domain"
	"orphancare/middleware"

	"github.com/gofiber/fiber/v2"
)

type adoptionHandler struct {
	uc domain.AdoptionUseCase
}

func NewAdoptionDelivery(router fiber.Router, auth fiber.Handler, uc domain.AdoptionUseCase) {
	handler := &adoptionHandler{
		uc: uc,
	}

	route := router.Group("/adoptions", auth)
	route.Post("/", handler.SubmitRequest)
	route.Get("/my-requests", handler.ListOwnRequests)
	route.Get("/", middleware.RoleRequired(domain.RoleAdmin), handler.ListAllRequests)
	route.Put("/:id/status", middleware.RoleRequired(domain.RoleAdmin), handler.ReviewRequest)
}

func (ah *adoptionHandler) SubmitRequest(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var req domain.SubmitAdoptionInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "SubmitRequest")
	}

	view, err := ah.uc.SubmitRequest(c.UserContext(), p, req)
	if err != nil {
		return writeError(c, p, err, "SubmitRequest")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusCreated, "SubmitRequest")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Adoption request submitted successfully",
		"request": view,
	})
}

func (ah *adoptionHandler) ListOwnRequests(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	views, err := ah.uc.ListRequests(c.UserContext(), p, domain.ScopeOwn)
	if err != nil {
		return writeError(c, p, err, "ListOwnRequests")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListOwnRequests")
	return c.Status(fiber.StatusOK).JSON(views)
}

func (ah *adoptionHandler) ListAllRequests(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	views, err := ah.uc.ListRequests(c.UserContext(), p, domain.ScopeAll)
	if err != nil {
		return writeError(c, p, err, "ListAllRequests")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListAllRequests")
	return c.Status(fiber.StatusOK).JSON(views)
}

func (ah *adoptionHandler) ReviewRequest(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var req domain.ReviewAdoptionInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "ReviewRequest")
	}

	view, err := ah.uc.ReviewRequest(c.UserContext(), p, c.Params("id"), req)
	if err != nil {
		return writeError(c, p, err, "ReviewRequest")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ReviewRequest")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Adoption request updated successfully",
		"request": view,
	})
}
