package errorhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/logger"
	"github.com/mwork/relay-api/internal/pkg/response"
)

// HandleError writes the response for a service failure.
// Typed failures become 4xx with their client message. Anything else is
// logged, reported to Sentry, and answered with a generic 500.
func HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("request_id", chimw.GetReqID(ctx)).
			Str("error_kind", string(kind)).
			Msg("Request failed")
		captureException(ctx, err)
		response.InternalError(w)
		return
	}

	var appErr *apperr.Error
	message := err.Error()
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	logger.FromContext(ctx).Debug().
		Str("request_id", chimw.GetReqID(ctx)).
		Str("error_kind", string(kind)).
		Str("error_message", message).
		Int("status_code", status).
		Msg("Request rejected")

	response.Error(w, status, string(kind), message)
}

// HandlePanic logs a recovered panic, reports it, and answers with 500.
func HandlePanic(ctx context.Context, w http.ResponseWriter, recovered interface{}, stack string) {
	logger.FromContext(ctx).Error().
		Str("request_id", chimw.GetReqID(ctx)).
		Interface("panic", recovered).
		Str("stack", stack).
		Msg("Request panic")

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.RecoverWithContext(ctx, recovered)

	response.InternalError(w)
}

func captureException(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
