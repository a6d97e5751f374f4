package httpx

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	// CtxKeyParticipantAddress carries the participant address a request was
	// made on behalf of, once a handler has parsed it from the request body.
	CtxKeyParticipantAddress ctxKey = "participant_address"
)

// Middleware wraps an http.Handler with cross-cutting behavior (logging,
// rate limiting, webhook authentication).
type Middleware func(http.Handler) http.Handler

// Chain applies mws around h, with mws[0] as the outermost layer — the
// first middleware to see a request and the last to see its response.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// WithParticipantAddress stashes participantAddress in ctx so a later
// middleware stage (ParticipantAddressKeyExtractor) can read it without
// re-parsing the request body.
func WithParticipantAddress(ctx context.Context, participantAddress string) context.Context {
	return context.WithValue(ctx, CtxKeyParticipantAddress, participantAddress)
}

func participantAddressFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyParticipantAddress).(string); ok {
		return v
	}
	return ""
}
