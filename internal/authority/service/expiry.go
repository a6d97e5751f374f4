package service

import (
	"time"

	"github.com/meetcore/authority/internal/authority/domain"
	"github.com/meetcore/authority/internal/authority/focus"
)

// Start registers the Authority as manager's focus allocation listener and
// begins the periodic expiry loop (spec §4.5/§4.6). It is idempotent: a
// second call while already started is a no-op.
func (a *Authority) Start(manager focus.Manager) {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()

	if a.started {
		return
	}
	a.started = true

	a.focusMu.Lock()
	a.focusManager = manager
	a.focusMu.Unlock()
	manager.SetFocusAllocationListener(a)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runExpiryLoop(a.stopCh, a.doneCh)

	a.logger.Info("authority started", "expiry_poll_interval", a.cfg.ExpiryPollInterval)
}

// Stop halts the expiry loop, waits for any in-flight tick to finish (so
// no tick from the loop is still running once Stop returns), and clears
// the Focus Manager reference. Idempotent.
func (a *Authority) Stop() {
	a.lifecycleMu.Lock()
	if !a.started {
		a.lifecycleMu.Unlock()
		return
	}
	a.started = false
	stopCh := a.stopCh
	doneCh := a.doneCh
	a.lifecycleMu.Unlock()

	close(stopCh)
	<-doneCh

	a.focusMu.Lock()
	manager := a.focusManager
	a.focusManager = nil
	a.focusMu.Unlock()

	if manager != nil {
		manager.SetFocusAllocationListener(nil)
	}

	a.logger.Info("authority stopped")
}

// Ready reports whether Start has been called and Stop has not since. It
// backs the HTTP readiness probe.
func (a *Authority) Ready() bool {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()
	return a.started
}

func (a *Authority) runExpiryLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(a.cfg.ExpiryPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.tick()
		case <-stopCh:
			return
		}
	}
}

// tick runs one expiry pass (spec §4.5). It captures the Focus Manager
// reference once at the start of the tick and uses that same reference
// throughout, rather than re-reading focusManager per room — the Focus
// Manager could otherwise be swapped or nulled mid-tick by a concurrent
// Stop, producing an inconsistent view across rooms within one pass
// (the original's ExpireTask makes this same single-capture choice).
func (a *Authority) tick() {
	a.focusMu.RLock()
	manager := a.focusManager
	a.focusMu.RUnlock()

	if manager == nil {
		// Stop raced ahead of us; nothing to do this tick.
		return
	}

	now := a.clock()
	a.expireTokens(now)
	a.expirePreAuthStates(now, manager)
}

// expireTokens removes every token older than the configured lifetime
// (spec §4.5 step 2). The candidate list is read under the table lock and
// then released before iterating, so the lock is never held across an
// unbounded loop.
func (a *Authority) expireTokens(now time.Time) {
	a.tableMu.Lock()
	snapshot := make([]domain.AuthenticationToken, 0, len(a.tokens))
	for _, t := range a.tokens {
		snapshot = append(snapshot, t)
	}
	a.tableMu.Unlock()

	for _, t := range snapshot {
		if !t.Expired(now, a.cfg.TokenLifetime) {
			continue
		}

		a.tableMu.Lock()
		_, stillPresent := a.tokens[t.TokenString]
		if stillPresent {
			delete(a.tokens, t.TokenString)
		}
		a.tableMu.Unlock()

		if stillPresent {
			a.logger.Info("token expired",
				"participant_address", t.ParticipantAddress,
				"room_name", t.RoomName,
				"correlation_id", t.CorrelationID,
			)
		}
	}
}

// expirePreAuthStates removes states whose room never came into existence
// within the pre-authentication grace period (spec §4.5 step 3, the
// asymmetric expiry rule: once the room exists, the state is anchored to
// the room's own lifetime and OnFocusDestroyed is the only thing that
// removes it).
func (a *Authority) expirePreAuthStates(now time.Time, manager focus.Manager) {
	a.tableMu.Lock()
	snapshot := make([]domain.AuthenticationState, 0, len(a.states))
	for _, s := range a.states {
		snapshot = append(snapshot, s)
	}
	a.tableMu.Unlock()

	for _, s := range snapshot {
		if _, exists := manager.GetConference(s.RoomName); exists {
			continue
		}
		if !s.PreAuthExpired(now, a.cfg.PreAuthLifetime) {
			continue
		}

		a.tableMu.Lock()
		current, stillPresent := a.states[s.ParticipantAddress]
		// Guard against deleting a state that was re-authenticated between
		// the snapshot above and this point: only remove it if it is
		// still the exact same state evaluated above.
		if stillPresent && current.AuthTimestamp.Equal(s.AuthTimestamp) {
			delete(a.states, s.ParticipantAddress)
		} else {
			stillPresent = false
		}
		a.tableMu.Unlock()

		if stillPresent {
			a.logger.Info("pre-authentication expired",
				"participant_address", s.ParticipantAddress,
				"room_name", s.RoomName,
			)
		}
	}
}
