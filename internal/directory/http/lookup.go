package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/pkg/httpx"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
)

// LookupHandler answers "who is this identity" from the directory alone.
// Start tokens are never exposed here.
type LookupHandler struct {
	Directory *cache.Directory
}

func (h *LookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	externalID, err := strconv.ParseInt(r.PathValue("external_id"), 10, 64)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, linksdk.ErrorResponse{
			Error:            linksdk.ErrorCodeInvalidRequest,
			ErrorDescription: "external_id must be an integer",
		})
		return
	}

	res := linksdk.LookupResponse{ExternalID: externalID}
	if entry, ok := h.Directory.Lookup(externalID); ok {
		res.Known = true
		res.Admin = entry.IsAdmin()
		res.Name = entry.Name
	}

	httpx.WriteJSON(w, http.StatusOK, res)
}
