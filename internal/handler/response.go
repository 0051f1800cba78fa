package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "mesto/internal/errors"
)

// DataResponse wraps successful payloads.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// TokenResponse is returned by signin.
type TokenResponse struct {
	Token string `json:"token"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, DataResponse{Data: data})
}

// bindAndValidate decodes the body and path params into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Wrap(err, apperrors.KindBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
