package handlers

import (
	"errors"

	"market/internal/models"
	"market/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondDomainError maps the order engine's typed errors to HTTP
// responses. State errors include the delivery status observed at the
// time of the attempt, so clients can explain "already shipped" to the
// user.
func respondDomainError(c *fiber.Ctx, err error, message string) error {
	var vErr *models.ValidationError
	var stateErr *models.StateError

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   vErr.Error(),
			"field":   vErr.Field,
		})
	case errors.As(err, &stateErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":         message,
			"error":           stateErr.Error(),
			"delivery_status": stateErr.Status,
		})
	case errors.Is(err, models.ErrOutOfStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrCouponNotApplicable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case services.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
