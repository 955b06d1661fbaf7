package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/linkbot/internal/directory/service"
	"github.com/aussiebroadwan/linkbot/pkg/httpx"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
)

const registeredMessage = "You were successfully registered."

// RegisterHandler redeems a start token for the chat identity that sent it.
type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		linksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	startToken := r.PostFormValue("start_token")
	if startToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, linksdk.ErrorResponse{
			Error:            linksdk.ErrorCodeInvalidRequest,
			ErrorDescription: "start_token is required",
		})
		return
	}

	externalID, err := strconv.ParseInt(r.PostFormValue("external_id"), 10, 64)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, linksdk.ErrorResponse{
			Error:            linksdk.ErrorCodeInvalidRequest,
			ErrorDescription: "external_id must be an integer",
		})
		return
	}

	entry, err := h.RegistrationService.Register(ctx, startToken, externalID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			linksdk.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrNotFound):
			linksdk.ErrUnknownToken.WriteError(w)
		case errors.Is(err, service.ErrConflict):
			linksdk.ErrTokenConflict.WriteError(w)
		case errors.Is(err, service.ErrCreate):
			linksdk.ErrCreateFailed.WriteError(w)
		case errors.Is(err, service.ErrConnection):
			linksdk.ErrUnavailable.WriteError(w)
		default:
			log.Error("unexpected registration failure", "error", err)
			linksdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, linksdk.RegisterResponse{
		Message: registeredMessage,
		Entry:   toEntry(entry),
	})
}
