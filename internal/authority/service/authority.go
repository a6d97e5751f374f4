// Package service implements the Authority: the mediator between
// conference participants and an external, browser-redirect identity
// provider (spec §1–§4). It owns the token and state tables, the
// concurrency model that guards them, and the two side channels
// (identity-bind listeners, the Focus Manager) it talks to.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/meetcore/authority/internal/authority/domain"
	"github.com/meetcore/authority/internal/authority/focus"
	"github.com/meetcore/authority/pkg/cryptox"
	"github.com/meetcore/authority/pkg/idx"
)

// errUnableToGenerateUniqueToken is returned by IssueURL if the CSPRNG
// keeps colliding with live tokens past maxTokenGenerationAttempts — a
// sign the entropy source itself is broken, not ordinary bad luck.
var errUnableToGenerateUniqueToken = errors.New("authority: unable to generate a unique token")

// maxTokenGenerationAttempts bounds the collision-retry loop in IssueURL.
// With 128 bits of CSPRNG entropy per token a single collision across the
// lifetime of a process is not expected to happen; this only guards
// against a broken entropy source looping forever.
const maxTokenGenerationAttempts = 8

// Clock returns the current time. Production uses time.Now; tests inject a
// deterministic one (spec §9: "test fixtures must inject a clock").
type Clock func() time.Time

// Authority is the external-authentication authority described by spec §4.
// The zero value is not usable; construct with New.
type Authority struct {
	cfg    domain.AuthorityConfig
	logger *slog.Logger
	clock  Clock

	// tableMu is the single mutual-exclusion region guarding both tables
	// together (spec §5). Every table read and write goes through it.
	tableMu sync.Mutex
	tokens  map[string]domain.AuthenticationToken // keyed by token string
	states  map[string]domain.AuthenticationState // keyed by participant address

	identityListeners listenerRegistry

	// focusMu guards the single Focus Manager reference, which Stop nils
	// out; readers must tolerate observing it as nil mid-flight (spec §5).
	focusMu      sync.RWMutex
	focusManager focus.Manager

	lifecycleMu sync.Mutex
	started     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// Option configures an Authority at construction time.
type Option func(*Authority)

// WithClock overrides the Authority's time source.
func WithClock(clock Clock) Option {
	return func(a *Authority) { a.clock = clock }
}

// New builds an Authority from cfg. cfg is expected to come from
// domain.NewAuthorityConfig, which already validates the URL template;
// New re-checks it so a directly-constructed zero-value AuthorityConfig
// cannot slip through (spec §4.1: "checked once, at Authority creation").
func New(cfg domain.AuthorityConfig, logger *slog.Logger, opts ...Option) (*Authority, error) {
	if strings.TrimSpace(cfg.URLTemplate) == "" {
		return nil, domain.ErrInvalidConfiguration
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Authority{
		cfg:    cfg,
		logger: logger,
		clock:  time.Now,
		tokens: make(map[string]domain.AuthenticationToken),
		states: make(map[string]domain.AuthenticationState),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// RegisterIdentityBindListener adds l to the set of listeners notified on
// every successful Authenticate call. Registration order has no bearing on
// dispatch guarantees; every listener still registered at dispatch time
// runs (spec §6 identity-bind listener contract).
func (a *Authority) RegisterIdentityBindListener(l IdentityBindListener) {
	a.identityListeners.register(l)
}

// IsExternal reports that this authority type relies on an external
// identity provider (spec §4.3). It is a constant.
func (a *Authority) IsExternal() bool {
	return true
}

// IssueURL generates a fresh, single-use token for participantAddress and
// roomName, and returns the URL the participant should visit to
// authenticate (spec §4.1).
func (a *Authority) IssueURL(participantAddress, roomName string) (string, error) {
	if strings.TrimSpace(participantAddress) == "" {
		return "", domain.ErrEmptyParticipantAddress
	}
	if strings.TrimSpace(roomName) == "" {
		return "", domain.ErrEmptyRoomName
	}

	tokenString, correlationID, err := a.insertFreshToken(participantAddress, roomName)
	if err != nil {
		return "", err
	}

	a.logger.Info("authentication token issued",
		"participant_address", participantAddress,
		"room_name", roomName,
		"token_fingerprint", cryptox.FingerprintToken(tokenString),
		"correlation_id", correlationID,
	)

	return fmt.Sprintf(a.cfg.URLTemplate, tokenString), nil
}

// insertFreshToken generates a CSPRNG token and inserts it under the table
// lock, retrying only on the (astronomically unlikely) case of a
// collision with a currently live token (invariant I1). Generation itself
// happens outside the lock — it is not the constant-time hash lookup
// spec §5 says the critical section is otherwise limited to.
func (a *Authority) insertFreshToken(participantAddress, roomName string) (string, idx.ID, error) {
	for attempt := 0; attempt < maxTokenGenerationAttempts; attempt++ {
		tokenString, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return "", idx.Zero, err
		}

		token := domain.AuthenticationToken{
			TokenString:        tokenString,
			ParticipantAddress: participantAddress,
			RoomName:           roomName,
			CreationTimestamp:  a.clock(),
			CorrelationID:      idx.New(),
		}

		if a.tryInsertToken(tokenString, token) {
			return tokenString, token.CorrelationID, nil
		}
	}
	return "", idx.Zero, errUnableToGenerateUniqueToken
}

func (a *Authority) tryInsertToken(tokenString string, token domain.AuthenticationToken) bool {
	a.tableMu.Lock()
	defer a.tableMu.Unlock()

	if _, exists := a.tokens[tokenString]; exists {
		return false
	}
	a.tokens[tokenString] = token
	return true
}

// Authenticate validates tokenString, consumes it, and publishes a new
// AuthenticationState for the bound participant address (spec §4.2). It
// returns false without side effects if the token is unknown.
func (a *Authority) Authenticate(tokenString, externalIdentity string) bool {
	state, correlationID, ok := a.consumeToken(tokenString, externalIdentity)
	if !ok {
		a.logger.Error("authenticate called with unknown token",
			"token_fingerprint", cryptox.FingerprintToken(tokenString))
		return false
	}

	// O3: listeners run after the critical section, never while holding
	// tableMu, so they cannot deadlock against a caller blocked on it.
	for _, l := range a.identityListeners.snapshot() {
		a.dispatchIdentityBind(l, state)
	}

	a.logger.Info("participant authenticated",
		"participant_address", state.ParticipantAddress,
		"room_name", state.RoomName,
		"correlation_id", correlationID,
	)
	return true
}

// consumeToken performs steps 1-4 of spec §4.2 atomically: token lookup,
// removal, and state insertion (overwriting any prior state for the same
// address) all happen under one acquisition of tableMu, so no external
// observer ever sees the token gone without the state present (I4).
func (a *Authority) consumeToken(tokenString, externalIdentity string) (domain.AuthenticationState, idx.ID, bool) {
	a.tableMu.Lock()
	defer a.tableMu.Unlock()

	token, ok := a.tokens[tokenString]
	if !ok {
		return domain.AuthenticationState{}, idx.Zero, false
	}
	delete(a.tokens, tokenString)

	state := domain.AuthenticationState{
		ParticipantAddress:    token.ParticipantAddress,
		RoomName:              token.RoomName,
		AuthenticatedIdentity: externalIdentity,
		AuthTimestamp:         a.clock(),
	}
	a.states[token.ParticipantAddress] = state
	return state, token.CorrelationID, true
}

func (a *Authority) dispatchIdentityBind(l IdentityBindListener, state domain.AuthenticationState) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("identity-bind listener panicked",
				"panic", r,
				"participant_address", state.ParticipantAddress,
			)
		}
	}()
	l.OnUserAuthenticated(state.ParticipantAddress, state.AuthenticatedIdentity)
}

// IsAllowedToCreateRoom implements spec §4.3: true if roomName's local
// part is reserved, or a state already exists for participantAddress
// (regardless of which room that state is bound to).
func (a *Authority) IsAllowedToCreateRoom(participantAddress, roomName string) bool {
	if strings.TrimSpace(participantAddress) == "" {
		a.logger.Warn("is-allowed-to-create-room called with empty participant address")
		return false
	}

	if a.cfg.IsReserved(roomName) {
		return true
	}

	a.tableMu.Lock()
	_, exists := a.states[participantAddress]
	a.tableMu.Unlock()
	return exists
}

// IsUserAuthenticated implements spec §4.3: true iff a state exists for
// participantAddress and its room matches roomName exactly.
func (a *Authority) IsUserAuthenticated(participantAddress, roomName string) bool {
	if strings.TrimSpace(participantAddress) == "" {
		a.logger.Warn("is-user-authenticated called with empty participant address")
		return false
	}

	a.tableMu.Lock()
	state, exists := a.states[participantAddress]
	a.tableMu.Unlock()

	return exists && state.RoomName == roomName
}

// OnFocusDestroyed implements focus.AllocationListener (spec §4.4). Every
// token and every state whose room matches roomName is removed. By the
// time this returns, IsUserAuthenticated(_, roomName) is false for every
// address (ordering guarantee O2).
func (a *Authority) OnFocusDestroyed(roomName string) {
	a.tableMu.Lock()

	tokenSnapshot := make([]domain.AuthenticationToken, 0, len(a.tokens))
	for _, t := range a.tokens {
		tokenSnapshot = append(tokenSnapshot, t)
	}
	removedTokens := 0
	for _, t := range tokenSnapshot {
		if t.RoomName == roomName {
			delete(a.tokens, t.TokenString)
			removedTokens++
		}
	}

	stateSnapshot := make([]domain.AuthenticationState, 0, len(a.states))
	for _, s := range a.states {
		stateSnapshot = append(stateSnapshot, s)
	}
	removedStates := 0
	for _, s := range stateSnapshot {
		if s.RoomName == roomName {
			delete(a.states, s.ParticipantAddress)
			removedStates++
		}
	}

	a.tableMu.Unlock()

	if removedTokens > 0 || removedStates > 0 {
		a.logger.Info("room destroyed, released authentication state",
			"room_name", roomName,
			"tokens_removed", removedTokens,
			"states_removed", removedStates,
		)
	}
}
