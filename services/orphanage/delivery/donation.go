package delivery

import (
	"orphancare/config"
	"orphancare/domain"
	"orphancare/middleware"

	"github.com/gofiber/fiber/v2"
)

type donationHandler struct {
	uc domain.DonationUseCase
}

func NewDonationDelivery(router fiber.Router, auth fiber.Handler, uc domain.DonationUseCase) {
	handler := &donationHandler{
		uc: uc,
	}

	admin := middleware.RoleRequired(domain.RoleAdmin)
	route := router.Group("/donations", auth)
	route.Get("/", handler.ListOwn)
	route.Post("/", handler.Create)
	route.Get("/admin", admin, handler.ListAll)
	route.Get("/stats", admin, handler.Stats)
	route.Put("/:donationId/status", admin, handler.Review)
}

func (dh *donationHandler) ListOwn(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	views, err := dh.uc.ListOwn(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "ListOwnDonations")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListOwnDonations")
	return c.Status(fiber.StatusOK).JSON(views)
}

func (dh *donationHandler) Create(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var req domain.CreateDonationInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "CreateDonation")
	}

	view, err := dh.uc.Create(c.UserContext(), p, req)
	if err != nil {
		return writeError(c, p, err, "CreateDonation")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusCreated, "CreateDonation")
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (dh *donationHandler) ListAll(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	views, err := dh.uc.ListAll(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "ListAllDonations")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListAllDonations")
	return c.Status(fiber.StatusOK).JSON(views)
}

func (dh *donationHandler) Stats(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	stats, err := dh.uc.Stats(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "DonationStats")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "DonationStats")
	return c.Status(fiber.StatusOK).JSON(stats)
}

func (dh *donationHandler) Review(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var req domain.ReviewDonationInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "ReviewDonation")
	}

	view, err := dh.uc.Review(c.UserContext(), p, c.Params("donationId"), req)
	if err != nil {
		return writeError(c, p, err, "ReviewDonation")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ReviewDonation")
	return c.Status(fiber.StatusOK).JSON(view)
}
