package delivery

import (
	"errors"
	"orphancare/config"
	"orphancare/domain"
	"sort"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindInvalidState, domain.KindConflict:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError sends {"message": ...} for err. Internal faults are logged and
// reported without detail.
func writeError(c *fiber.Ctx, p domain.Principal, err error, functionName string) error {
	status := statusFor(err)
	msg := "Internal server error"

	switch status {
	case fiber.StatusInternalServerError:
		config.GetLogrusInstance().WithError(err).WithField("handler", functionName).Error("internal error")
	case fiber.StatusServiceUnavailable:
		config.GetLogrusInstance().WithError(err).WithField("handler", functionName).Warn("dependency unavailable")
		msg = "Service temporarily unavailable, please retry"
	default:
		var de *domain.Error
		if errors.As(err, &de) && de.Message != "" {
			msg = de.Message
		} else {
			msg = err.Error()
		}
	}

	config.PrintLogInfo(&p.UserID, status, functionName)
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// parseBody decodes the JSON body into out and runs the struct validators.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Validation("Invalid request body")
	}
	return validate(out)
}

func validate(v interface{}) error {
	if _, err := govalidator.ValidateStruct(v); err != nil {
		byField := govalidator.ErrorsByField(err)
		if len(byField) == 0 {
			return domain.Validation(err.Error())
		}
		fields := make([]string, 0, len(byField))
		for f := range byField {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return domain.Validation(byField[fields[0]])
	}
	return nil
}
