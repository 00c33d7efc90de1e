package delivery

import (
	"io"
	"orphancare/config"
	"orphancare/domain"
	"orphancare/middleware"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type childHandler struct {
	uc domain.ChildUseCase
}

func NewChildDelivery(router fiber.Router, auth fiber.Handler, uc domain.ChildUseCase) {
	handler := &childHandler{
		uc: uc,
	}

	admin := middleware.RoleRequired(domain.RoleAdmin)
	route := router.Group("/children", auth)
	route.Get("/available", handler.ListAvailable)
	route.Get("/", admin, handler.ListAll)
	route.Get("/:id", handler.Get)
	route.Post("/", admin, handler.Create)
	route.Put("/:id", admin, handler.Update)
	route.Delete("/:id", admin, handler.Delete)
}

func (ch *childHandler) ListAvailable(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	children, err := ch.uc.ListAvailable(c.UserContext())
	if err != nil {
		return writeError(c, p, err, "ListAvailableChildren")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListAvailableChildren")
	return c.Status(fiber.StatusOK).JSON(children)
}

func (ch *childHandler) ListAll(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	children, err := ch.uc.ListAll(c.UserContext(), p)
	if err != nil {
		return writeError(c, p, err, "ListAllChildren")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "ListAllChildren")
	return c.Status(fiber.StatusOK).JSON(children)
}

func (ch *childHandler) Get(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	child, err := ch.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, p, err, "GetChild")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "GetChild")
	return c.Status(fiber.StatusOK).JSON(child)
}

func (ch *childHandler) Create(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var (
		input domain.ChildInput
		photo *domain.Upload
		err   error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		input, photo, err = parseChildForm(c)
	} else {
		err = parseBody(c, &input)
	}
	if err != nil {
		return writeError(c, p, err, "CreateChild")
	}
	if photo != nil {
		if closer, ok := photo.Body.(io.Closer); ok {
			defer closer.Close()
		}
	}

	child, err := ch.uc.Create(c.UserContext(), p, input, photo)
	if err != nil {
		return writeError(c, p, err, "CreateChild")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusCreated, "CreateChild")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Child added successfully",
		"child":   child,
	})
}

func (ch *childHandler) Update(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	var input domain.ChildInput
	if err := parseBody(c, &input); err != nil {
		return writeError(c, p, err, "UpdateChild")
	}

	child, err := ch.uc.Update(c.UserContext(), p, c.Params("id"), input)
	if err != nil {
		return writeError(c, p, err, "UpdateChild")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "UpdateChild")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Child updated successfully",
		"child":   child,
	})
}

func (ch *childHandler) Delete(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	if err := ch.uc.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return writeError(c, p, err, "DeleteChild")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "DeleteChild")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Child deleted successfully",
	})
}

// parseChildForm reads a multipart child form. Nested values (health,
// education, interests, documents) arrive as JSON strings.
func parseChildForm(c *fiber.Ctx) (domain.ChildInput, *domain.Upload, error) {
	var in domain.ChildInput

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, domain.Validation("Invalid multipart form")
	}
	value := func(key string) (string, bool) {
		vs, ok := form.Value[key]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}

	for key, dst := range map[string]**string{
		"name":           &in.Name,
		"gender":         &in.Gender,
		"description":    &in.Description,
		"photo":          &in.Photo,
		"adoptionStatus": &in.AdoptionStatus,
	} {
		if v, ok := value(key); ok {
			v := v
			*dst = &v
		}
	}

	if v, ok := value("age"); ok && v != "" {
		age, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return in, nil, domain.Validation("Age must be a number")
		}
		in.Age = &age
	}

	jsonFields := map[string]interface{}{
		"health":    &in.Health,
		"education": &in.Education,
		"interests": &in.Interests,
		"documents": &in.Documents,
	}
	for key, dst := range jsonFields {
		if v, ok := value(key); ok && v != "" {
			if err := sonic.UnmarshalString(v, dst); err != nil {
				return in, nil, domain.Validation("Invalid " + key)
			}
		}
	}

	if err := validate(&in); err != nil {
		return in, nil, err
	}

	files := form.File["file"]
	if len(files) == 0 {
		return in, nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return in, nil, domain.Internal("could not open upload", err)
	}
	return in, &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, nil
}
