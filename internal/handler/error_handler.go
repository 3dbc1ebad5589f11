package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/validation"
)

// MsgInvalidBody is returned when a request body cannot be decoded.
const MsgInvalidBody = "invalid request body"

// ErrorHandler is the single place where errors become HTTP responses. Every
// response body has the shape {"error": message}.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return apperrors.MapErrorToHTTP(appErr)
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return apperrors.MapErrorToHTTP(apperrors.MalformedInput(verr.Error()))
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound:
			return apperrors.NewHTTPError(he.Code, apperrors.MsgNotFound)
		case he.Code == http.StatusUnauthorized:
			return apperrors.NewHTTPError(he.Code, apperrors.MsgInvalidToken)
		case he.Code >= http.StatusInternalServerError:
			return apperrors.NewHTTPError(he.Code, apperrors.MsgInternal)
		}
		if msg, ok := he.Message.(string); ok && msg != "" {
			return apperrors.NewHTTPError(he.Code, msg)
		}
		if he.Message != nil {
			return apperrors.NewHTTPError(he.Code, fmt.Sprint(he.Message))
		}
		return apperrors.NewHTTPError(he.Code, http.StatusText(he.Code))
	}

	return apperrors.MapErrorToHTTP(err)
}
