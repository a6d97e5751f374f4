package http

import (
	"net/http"

	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/authoritysdk"
	"github.com/meetcore/authority/pkg/httpx"
)

type policyKind int

const (
	policyCanCreateRoom policyKind = iota
	policyIsAuthenticated
)

// PolicyHandler exposes Authority.IsAllowedToCreateRoom and
// Authority.IsUserAuthenticated (spec §4.3) — pure reads, no mutation.
type PolicyHandler struct {
	Authority *service.Authority
	kind      policyKind
}

// ServeHTTP godoc
//
//	@Summary		Room-creation and membership policy queries
//	@Description	GET /v1/policy/can-create-room answers is-allowed-to-create-room; GET /v1/policy/is-authenticated answers is-user-authenticated.
//	@Tags			Policy
//	@Produce		json
//	@Param			participant_address	query		string	true	"participant address"
//	@Param			room_name				query		string	true	"room name"
//	@Success		200						{object}	authoritysdk.PolicyResponse
//	@Router			/v1/policy/can-create-room [get]
//	@Router			/v1/policy/is-authenticated [get]
func (h *PolicyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	participantAddress := q.Get("participant_address")
	roomName := q.Get("room_name")

	var allowed bool
	switch h.kind {
	case policyCanCreateRoom:
		allowed = h.Authority.IsAllowedToCreateRoom(participantAddress, roomName)
	case policyIsAuthenticated:
		allowed = h.Authority.IsUserAuthenticated(participantAddress, roomName)
	}

	httpx.WriteJSON(w, http.StatusOK, authoritysdk.PolicyResponse{Allowed: allowed})
}
