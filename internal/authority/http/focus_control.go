package http

import (
	"net/http"

	"github.com/meetcore/authority/internal/authority/focus/memory"
)

// FocusControlHandler drives the demo in-memory Focus Manager over HTTP,
// standing in for the real conference allocator named but not hosted by
// this repository (spec §2 "Focus Manager"). PUT marks a room as existing;
// DELETE destroys it, which synchronously fires on-focus-destroyed into
// the Authority through focus.AllocationListener (spec §4.4).
type FocusControlHandler struct {
	FocusManager *memory.Manager
}

// ServeHTTP godoc
//
//	@Summary		Demo Focus Manager control
//	@Description	PUT creates a conference for {room}; DELETE destroys it. Requires the X-Focus-Secret header.
//	@Tags			FocusControl
//	@Param			room	path	string	true	"room name"
//	@Param			X-Focus-Secret	header	string	true	"shared secret"
//	@Success		204
//	@Failure		401	{object}	authoritysdk.ErrorResponse
//	@Router			/v1/focus/rooms/{room} [put]
//	@Router			/v1/focus/rooms/{room} [delete]
func (h *FocusControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")

	switch r.Method {
	case http.MethodPut:
		h.FocusManager.CreateConference(room)
	case http.MethodDelete:
		h.FocusManager.DestroyConference(room)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
