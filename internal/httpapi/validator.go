package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GenericEchoValidator adapts go-playground/validator to Echo's Validator
// interface. Struct tag failures surface as 422s, matching the response
// contract for malformed request bodies.
type GenericEchoValidator struct {
	Validator *validator.Validate
}

// NewGenericEchoValidator builds the validator eagerly so concurrent first
// requests never race on initialization.
func NewGenericEchoValidator() *GenericEchoValidator {
	return &GenericEchoValidator{Validator: validator.New()}
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	if err := gv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("received invalid request body: %v", err))
	}
	return nil
}
