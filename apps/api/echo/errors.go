package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err)
		if code == http.StatusInternalServerError || code == http.StatusBadGateway {
			claims, _ := getContextClaims(ctx)
			logger.Error(http.StatusText(code), errors.Wrap(err, ctx.Request().Method+" "+ctx.Path()), claims)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if m, ok := message.(string); ok {
			if ctx.Echo().Debug {
				m = err.Error()
			}
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// errorResponse maps err to a status code and a body: a string or a field -> message map.
func errorResponse(err error) (int, interface{}) {
	var (
		httpErr  *echo.HTTPError
		valErr   *core.ValidationError
		storeErr *question.StoreError
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.As(err, &valErr):
		if len(valErr.Fields) > 0 {
			return http.StatusBadRequest, valErr.Map()
		}
		return http.StatusBadRequest, valErr.Error()
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, errors.Cause(err).Error()
	case errors.Is(err, auth.ErrNotConfigured):
		return http.StatusServiceUnavailable, auth.ErrNotConfigured.Error()
	case errors.Is(err, question.ErrBusy):
		return http.StatusConflict, question.ErrBusy.Error()
	case errors.Is(err, question.ErrAlreadyAnswered):
		return http.StatusConflict, question.ErrAlreadyAnswered.Error()
	case errors.Is(err, question.ErrNoAnswer):
		return http.StatusBadRequest, question.ErrNoAnswer.Error()
	case errors.Is(err, question.ErrUnknownOption):
		return http.StatusBadRequest, question.ErrUnknownOption.Error()
	case errors.Is(err, question.ErrQuizNotFound):
		return http.StatusNotFound, question.ErrQuizNotFound.Error()
	case errors.Is(err, question.ErrNotFound):
		return http.StatusNotFound, question.ErrNotFound.Error()
	case errors.Is(err, question.ErrConflictCheckFailed):
		return http.StatusBadGateway, question.ErrConflictCheckFailed.Error()
	case errors.As(err, &storeErr):
		return http.StatusBadGateway, storeErr.Error()
	default: // any other error is a server error
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
