package delivery

import (
	"mime/multipart"
	"orphancare/config"
	"orphancare/domain"
	"orphancare/middleware"

	"github.com/gofiber/fiber/v2"
)

type uploadHandler struct {
	uc domain.UploadUseCase
}

func NewUploadDelivery(router fiber.Router, auth fiber.Handler, uc domain.UploadUseCase) {
	handler := &uploadHandler{
		uc: uc,
	}

	route := router.Group("/upload", auth)
	route.Post("/single", handler.Single)
	route.Post("/multiple", handler.Multiple)
	route.Delete("/:publicId", handler.Delete)
}

func openUploads(headers []*multipart.FileHeader) ([]domain.Upload, func(), error) {
	var closers []multipart.File
	closeAll := func() {
		for _, f := range closers {
			f.Close()
		}
	}

	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, domain.Internal("could not open upload", err)
		}
		closers = append(closers, f)
		uploads = append(uploads, domain.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

func (uh *uploadHandler) Single(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, p, domain.Validation("No file uploaded"), "UploadSingle")
	}
	uploads, closeAll, err := openUploads([]*multipart.FileHeader{fh})
	if err != nil {
		return writeError(c, p, err, "UploadSingle")
	}
	defer closeAll()

	stored, err := uh.uc.Single(c.UserContext(), p, uploads[0])
	if err != nil {
		return writeError(c, p, err, "UploadSingle")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "UploadSingle")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File uploaded successfully",
		"file":    stored,
	})
}

func (uh *uploadHandler) Multiple(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return writeError(c, p, domain.Validation("No files uploaded"), "UploadMultiple")
	}
	uploads, closeAll, err := openUploads(form.File["files"])
	if err != nil {
		return writeError(c, p, err, "UploadMultiple")
	}
	defer closeAll()

	stored, err := uh.uc.Multiple(c.UserContext(), p, uploads)
	if err != nil {
		return writeError(c, p, err, "UploadMultiple")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "UploadMultiple")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Files uploaded successfully",
		"files":   stored,
	})
}

func (uh *uploadHandler) Delete(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)

	if err := uh.uc.Delete(c.UserContext(), p, c.Params("publicId")); err != nil {
		return writeError(c, p, err, "DeleteUpload")
	}

	config.PrintLogInfo(&p.UserID, fiber.StatusOK, "DeleteUpload")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File deleted successfully",
	})
}
