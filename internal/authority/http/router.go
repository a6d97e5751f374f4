// Package http wires the Authority and the demo Focus Manager driver to
// HTTP handlers. None of this is named by the core specification — the
// Redirect Handler and Focus Manager are external collaborators whose
// contracts are consumed, not hosted, by the Authority — but a runnable
// demo needs some transport, so this package plays both roles against the
// in-memory focus/memory.Manager.
package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/meetcore/authority/internal/authority/focus/memory"
	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/httpx"
	"github.com/meetcore/authority/pkg/slogx"
)

// Router holds the shared dependencies for this service's handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authority    *service.Authority
	focusManager *memory.Manager
	focusSecret  string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

// NewRouter builds a Router. focusSecret gates the demo Focus Manager
// control endpoints; with an empty secret every request to them is
// rejected with 401.
func NewRouter(
	authority *service.Authority,
	focusManager *memory.Manager,
	focusSecret, buildVersion string,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		authority:    authority,
		focusManager: focusManager,
		focusSecret:  focusSecret,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers every route on the Router's mux.
func (r *Router) ApplyRoutes() {
	r.registerIssuance()
	r.registerCallback()
	r.registerPolicy()
	r.registerFocusControl()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler, applying the global middleware chain.
//
//	@title			External-Authentication Authority API
//	@version		0.1.0
//	@description	Mediates between conference participants and an external, browser-redirect identity provider: issues single-use tokens, binds external identities to participant addresses, and answers room-creation and membership policy queries.
//
//	@contact.name	meetcore
//
//	@license.name	MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@securityDefinitions.apikey	FocusSecret
//	@in							header
//	@name						X-Focus-Secret
//	@description				Shared secret for the demo Focus Manager control endpoints.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerIssuance() {
	h := &IssueURLHandler{Authority: r.authority}

	r.Mux.Handle("POST /v1/issue-url",
		httpx.Chain(h,
			decodeIssueURLBody,
			httpx.RateLimitByParticipant(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerCallback() {
	h := &CallbackHandler{Authority: r.authority}

	r.Mux.Handle("POST /v1/callback",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPolicy() {
	canCreate := &PolicyHandler{Authority: r.authority, kind: policyCanCreateRoom}
	isAuthed := &PolicyHandler{Authority: r.authority, kind: policyIsAuthenticated}

	r.Mux.Handle("GET /v1/policy/can-create-room",
		httpx.Chain(canCreate, httpx.RateLimitByIP(httpx.LenientLimit)),
	)
	r.Mux.Handle("GET /v1/policy/is-authenticated",
		httpx.Chain(isAuthed, httpx.RateLimitByIP(httpx.LenientLimit)),
	)
}

func (r *Router) registerFocusControl() {
	h := &FocusControlHandler{FocusManager: r.focusManager}

	secured := httpx.Chain(h,
		httpx.FocusSecretMiddleware(r.focusSecret),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	r.Mux.Handle("PUT /v1/focus/rooms/{room}", secured)
	r.Mux.Handle("DELETE /v1/focus/rooms/{room}", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.authority),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
