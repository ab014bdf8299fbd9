package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"florist/internal/repositories"
	"florist/internal/services"
	"florist/internal/shop"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// requestError is a malformed request that was already turned into a
// response body.
type requestError struct {
	status int
	body   fiber.Map
}

func (e *requestError) Error() string {
	return fmt.Sprint(e.body["message"])
}

// parseBody decodes the request body into out and validates it.
func parseBody(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{status: fiber.StatusBadRequest, body: fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		}}
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &requestError{status: fiber.StatusBadRequest, body: fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		}}
	}
	return nil
}

// productIDParam reads a numeric product id from the named route parameter.
func productIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &requestError{status: fiber.StatusBadRequest, body: fiber.Map{
			"message": "Invalid product ID",
			"error":   fmt.Sprintf("'%s' is not a product id", c.Params(name)),
		}}
	}
	return id, nil
}

var shopStatus = map[string]int{
	shop.ErrInvalidQuantity.Code:    fiber.StatusBadRequest,
	shop.ErrAddressNotFound.Code:    fiber.StatusNotFound,
	shop.ErrOrderNotFound.Code:      fiber.StatusNotFound,
	shop.ErrEmptyCart.Code:          fiber.StatusConflict,
	shop.ErrNoAddress.Code:          fiber.StatusConflict,
	shop.ErrNoPaymentMethod.Code:    fiber.StatusConflict,
	shop.ErrPaymentUnavailable.Code: fiber.StatusConflict,
	shop.ErrCheckoutState.Code:      fiber.StatusConflict,
	shop.ErrInvalidTransition.Code:  fiber.StatusConflict,
}

// fail writes the error response for err. message describes the failed
// action and is used for unexpected errors.
func fail(c *fiber.Ctx, message string, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.Status(reqErr.status).JSON(reqErr.body)
	}

	var shopErr *shop.Error
	if errors.As(err, &shopErr) {
		status, ok := shopStatus[shopErr.Code]
		if !ok {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"message": message,
			"error":   shopErr.Error(),
			"code":    shopErr.Code,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, repositories.ErrStaleStatus):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrOTPInvalid),
		errors.Is(err, services.ErrOTPExpired):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrSessionEnded):
		status = fiber.StatusUnauthorized
	}
	if status == fiber.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
