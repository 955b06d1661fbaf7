package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/service"
	"github.com/aussiebroadwan/linkbot/pkg/httpx"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
)

// AdminHandler serves the operator endpoints under /v1/admin.
type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleCreateUser handles POST /v1/admin/users.
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req linksdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, linksdk.ErrorResponse{
			Error:            linksdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	role := domain.RoleUser
	if req.Role != "" {
		var err error
		if role, err = domain.ParseRole(req.Role); err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, linksdk.ErrorResponse{
				Error:            linksdk.ErrorCodeInvalidRequest,
				ErrorDescription: "role must be user or admin",
			})
			return
		}
	}

	entry, err := h.AdminService.CreateUser(ctx, req.Name, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, linksdk.ErrorResponse{
				Error:            linksdk.ErrorCodeInvalidRequest,
				ErrorDescription: "name is required",
			})
		case errors.Is(err, service.ErrNameTaken):
			linksdk.ErrNameTaken.WriteError(w)
		default:
			writeAdminError(w, r, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toEntry(entry))
}

// HandleDeleteUser handles DELETE /v1/admin/users/{name}.
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	entry, err := h.AdminService.DeleteUser(r.Context(), r.PathValue("name"))
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntry(entry))
}

// HandleListUsers handles GET /v1/admin/users.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.AdminService.ListUsers(r.Context())
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, linksdk.UsersResponse{Users: toEntries(users)})
}

// HandleListRegistered handles GET /v1/admin/registered.
func (h *AdminHandler) HandleListRegistered(w http.ResponseWriter, r *http.Request) {
	users := h.AdminService.ListRegistered(r.Context())
	httpx.WriteJSON(w, http.StatusOK, linksdk.UsersResponse{Users: toEntries(users)})
}

// HandleListLinks handles GET /v1/admin/links.
func (h *AdminHandler) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.AdminService.ListLinks(r.Context())
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	out := make([]linksdk.Link, 0, len(links))
	for _, l := range links {
		out = append(out, linksdk.Link{ExternalID: l.ExternalID, UserID: l.UserID})
	}
	httpx.WriteJSON(w, http.StatusOK, linksdk.LinksResponse{Links: out})
}

// HandleRefresh handles POST /v1/admin/directory/refresh.
func (h *AdminHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := h.AdminService.RefreshDirectory(r.Context())
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, linksdk.RefreshResponse{Entries: n})
}

func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		linksdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		linksdk.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrCreate):
		linksdk.ErrCreateFailed.WriteError(w)
	case errors.Is(err, service.ErrDelete):
		linksdk.ErrDeleteFailed.WriteError(w)
	case errors.Is(err, service.ErrConnection):
		linksdk.ErrUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unexpected admin failure", "error", err)
		linksdk.ErrServerError.WriteError(w)
	}
}
