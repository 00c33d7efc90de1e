package delivery

import (
	"orphancare/config"
	"orphancare/domain"
	"orphancare/middleware"

	"github.com/gofiber/fiber/v2"
)

type userHandler struct {
	auth  domain.AuthUseCase
	users domain.UserUseCase
}

func NewUserDelivery(router fiber.Router, auth fiber.Handler, authUC domain.AuthUseCase, userUC domain.UserUseCase) {
	handler := &userHandler{
		auth:  authUC,
		users: userUC,
	}

	authRoute := router.Group("/auth")
	authRoute.Post("/register", handler.Register)
	authRoute.Post("/login", handler.Login)
	authRoute.Get("/profile", auth, handler.AuthProfile)

	route := router.Group("/users", auth)
	route.Get("/profile", handler.GetProfile)
	route.Put("/profile", handler.UpdateProfile)
	route.Post("/documents", handler.AddDocument)
	route.Delete("/documents/:documentId", handler.RemoveDocument)
	route.Get("/", middleware.RoleRequired(domain.RoleAdmin), handler.ListUsers)
}

func (uh *userHandler) Register(c *fiber.Ctx) error {
	var p domain.Principal

	var req domain.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "Register")
	}

	res, err := uh.auth.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, p, err, "Register")
	}

	config.PrintLogInfo(&res.User.ID, fiber.StatusCreated, "Register")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (uh *userHandler) Login(c *fiber.Ctx) error {
	var p domain.Principal

	var req domain.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "Login")
	}

	res, err := uh.auth.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, p, err, "Login")
	}

	config.PrintLogInfo(&res.User.ID, fiber.StatusOK, "Login")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (uh *userHandler) AuthProfile(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	user, err := uh.auth.Profile(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "AuthProfile")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "AuthProfile")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

func (uh *userHandler) GetProfile(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	user, err := uh.users.GetProfile(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "GetProfile")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "GetProfile")
	return c.Status(fiber.StatusOK).JSON(user)
}

func (uh *userHandler) UpdateProfile(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var req domain.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "UpdateProfile")
	}

	user, err := uh.users.UpdateProfile(c.UserContext(), p, req)
	if err != nil {
		return writeError(c, p, err, "UpdateProfile")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "UpdateProfile")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (uh *userHandler) AddDocument(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var req domain.AddDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, p, err, "AddDocument")
	}

	doc, err := uh.users.AddDocument(c.UserContext(), p, req)
	if err != nil {
		return writeError(c, p, err, "AddDocument")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "AddDocument")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Document uploaded successfully",
		"document": doc,
	})
}

func (uh *userHandler) RemoveDocument(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	if err := uh.users.RemoveDocument(c.UserContext(), p, c.Params("documentId")); err != nil {
		return writeError(c, p, err, "RemoveDocument")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "RemoveDocument")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Document deleted successfully",
	})
}

func (uh *userHandler) ListUsers(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	users, err := uh.users.ListUsers(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "ListUsers")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListUsers")
	return c.Status(fiber.StatusOK).JSON(users)
}
