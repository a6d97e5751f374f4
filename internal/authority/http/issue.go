package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meetcore/authority/internal/authority/domain"
	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/authoritysdk"
	"github.com/meetcore/authority/pkg/httpx"
	"github.com/meetcore/authority/pkg/slogx"
)

type issueRequestCtxKey struct{}

// decodeIssueURLBody decodes the JSON body once and stashes both the full
// request and the bare participant address in context, so a rate-limit
// middleware staged after this one (and the final handler) can read it
// without consuming the body twice.
func decodeIssueURLBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req authoritysdk.IssueURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			authoritysdk.ErrInvalidRequest.WriteError(w)
			return
		}

		ctx := context.WithValue(r.Context(), issueRequestCtxKey{}, req)
		ctx = httpx.WithParticipantAddress(ctx, req.ParticipantAddress)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IssueURLHandler exposes Authority.IssueURL (spec §4.1).
type IssueURLHandler struct {
	Authority *service.Authority
}

// ServeHTTP godoc
//
//	@Summary		Issue an authentication URL
//	@Description	Generates a fresh, single-use token for the given participant address and room, and returns the URL the participant should visit to authenticate externally.
//	@Tags			Issuance
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authoritysdk.IssueURLRequest	true	"participant address and room name"
//	@Success		200		{object}	authoritysdk.IssueURLResponse
//	@Failure		400		{object}	authoritysdk.ErrorResponse
//	@Router			/v1/issue-url [post]
func (h *IssueURLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	req, _ := r.Context().Value(issueRequestCtxKey{}).(authoritysdk.IssueURLRequest)

	url, err := h.Authority.IssueURL(req.ParticipantAddress, req.RoomName)
	if err != nil {
		writeIssueError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authoritysdk.IssueURLResponse{URL: url})
}

func writeIssueError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyParticipantAddress):
		authoritysdk.ErrEmptyParticipantAddress.WriteError(w)
	case errors.Is(err, domain.ErrEmptyRoomName):
		authoritysdk.ErrEmptyRoomName.WriteError(w)
	default:
		log.Error("issue-url failed", "error", err)
		authoritysdk.ErrServerError.WriteError(w)
	}
}
