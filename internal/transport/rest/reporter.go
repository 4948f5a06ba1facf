package rest

import (
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"github.com/abgdnv/productcrud/pkg/web"
)

// ErrorReporter renders every failure that a handler does not handle itself.
type ErrorReporter struct {
	logger           *slog.Logger
	validationStatus int
}

// NewErrorReporter creates a reporter. validationStatus is the status used for
// a *ValidationError; all other errors are answered with 500.
func NewErrorReporter(logger *slog.Logger, validationStatus int) *ErrorReporter {
	if validationStatus == 0 {
		validationStatus = http.StatusInternalServerError
	}
	return &ErrorReporter{
		logger:           logger.With("component", "error_reporter"),
		validationStatus: validationStatus,
	}
}

// Report logs err and writes {"message": <originating error text>}.
func (e *ErrorReporter) Report(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var verr *perrors.ValidationError
	if errors.As(err, &verr) {
		status = e.validationStatus
	}
	e.logger.ErrorContext(r.Context(), "Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	web.RespondMessage(w, e.logger, status, originMessage(err))
}

// originMessage returns the text of the error raised by the store, dropping
// the context added by the layers above it.
func originMessage(err error) string {
	var verr *perrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var castErr *perrors.CastError
	if errors.As(err, &castErr) {
		return castErr.Error()
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
