package handlers

import (
	"errors"
	"fmt"
	"net/http"

	customerErrors "github.com/celidone/customers/internal/errors"
	"github.com/celidone/customers/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler renders business and payload errors as is,
// unexpected errors are logged and reported with generic message
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, c)

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(code)
		} else {
			sendErr = c.JSON(code, body)
		}

		if sendErr != nil {
			logrus.Errorf("failed to send error response - %v", sendErr)
		}
	}
}

func resolveError(err error, c echo.Context) (int, any) {
	var businessErr *customerErrors.BusinessErr
	var payloadErr *validation.PayloadError
	var notFoundErr *customerErrors.EntryNotFoundErr
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &businessErr):
		return http.StatusConflict, businessErr
	case errors.As(err, &payloadErr):
		return http.StatusBadRequest, payloadErr
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, &errorResponse{Message: notFoundErr.Error()}
	case errors.As(err, &echoErr) && echoErr.Code < http.StatusInternalServerError:
		return echoErr.Code, &errorResponse{Message: fmt.Sprintf("%v", echoErr.Message)}
	}

	logrus.WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Errorf("error occurred on http request processing - %v", err)

	return http.StatusInternalServerError, &errorResponse{Message: http.StatusText(http.StatusInternalServerError)}
}
