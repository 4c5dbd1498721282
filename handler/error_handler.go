package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/pawpremium/pkg/binder"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
	"github.com/dmitrymomot/pawpremium/pkg/requestid"
)

// Classifier maps a domain error to an HTTPError. It returns false when it
// does not recognize err.
type Classifier func(err error) (HTTPError, bool)

// Classify converts err to an HTTPError: an HTTPError in the chain wins,
// then the classifiers in order, then binder failures as 400. Anything else
// is a 500.
func Classify(err error, classifiers ...Classifier) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	for _, c := range classifiers {
		if c == nil {
			continue
		}
		if httpErr, ok := c(err); ok {
			return httpErr
		}
	}
	if isBindError(err) {
		return ErrBadRequest.Wrap(err)
	}
	return ErrInternalServerError.Wrap(err)
}

func isBindError(err error) bool {
	return errors.Is(err, binder.ErrFailedToParseJSON) ||
		errors.Is(err, binder.ErrFailedToParseQuery) ||
		errors.Is(err, binder.ErrFailedToParsePath) ||
		errors.Is(err, binder.ErrMissingContentType) ||
		errors.Is(err, binder.ErrUnsupportedMediaType)
}

// NewErrorHandler creates an error handler that logs the error and renders
// the JSON error envelope. Client errors are logged at warn, server errors
// at error; the message of a 500 is never sent to the client.
func NewErrorHandler[C Context](log *slog.Logger, classifiers ...Classifier) ErrorHandler[C] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(ctx C, err error) {
		httpErr := Classify(err, classifiers...)

		level := slog.LevelWarn
		if httpErr.Code >= http.StatusInternalServerError {
			level = slog.LevelError
			httpErr.Message = ""
		}

		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", httpErr.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if rerr := JSONError(httpErr).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(rerr))
		}
	}
}
