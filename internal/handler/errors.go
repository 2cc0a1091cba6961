package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		authErr   *domain.AuthError
		modelErr  *domain.ModelError
		remoteErr *domain.RemoteError
		httpErr   domain.HTTPError
	)

	switch {
	case errors.Is(err, domain.ErrNoDocument):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &authErr):
		httputil.RespondErrorWithExtras(w, authErr.StatusCode(), err.Error(), map[string]any{
			"upstream": "drive",
		})
	case errors.As(err, &modelErr):
		httputil.RespondErrorWithExtras(w, modelErr.StatusCode(), err.Error(), map[string]any{
			"kind": modelErr.Kind,
		})
	case errors.As(err, &remoteErr) && remoteErr.Status != 0:
		httputil.RespondErrorWithExtras(w, remoteErr.StatusCode(), err.Error(), map[string]any{
			"upstream_status": remoteErr.Status,
		})
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
