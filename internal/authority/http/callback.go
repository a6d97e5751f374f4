package http

import (
	"net/http"

	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/authoritysdk"
	"github.com/meetcore/authority/pkg/httpx"
)

// CallbackHandler plays the Redirect Handler's one required call into the
// Authority: authenticate(token, identity) (spec §6 "Redirect Handler
// contract consumed from Authority"). The real identity-provider callback
// and its session/cookie machinery live outside this repository; this
// endpoint only exercises the contract itself.
type CallbackHandler struct {
	Authority *service.Authority
}

// ServeHTTP godoc
//
//	@Summary		Complete the identity-provider redirect
//	@Description	Consumes a token issued by /v1/issue-url together with the external identity asserted by the identity provider, and promotes it to an authentication state for the bound participant address.
//	@Tags			Callback
//	@Produce		json
//	@Param			token		query		string	true	"token embedded in the issued URL"
//	@Param			identity	query		string	true	"external identity asserted by the identity provider"
//	@Success		200			{object}	authoritysdk.AuthenticateResponse
//	@Failure		401			{object}	authoritysdk.ErrorResponse
//	@Router			/v1/callback [post]
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	identity := r.URL.Query().Get("identity")

	ok := h.Authority.Authenticate(token, identity)
	if !ok {
		authoritysdk.ErrUnknownToken.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authoritysdk.AuthenticateResponse{Authenticated: true})
}
