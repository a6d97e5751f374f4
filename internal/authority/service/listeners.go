package service

import "sync"

// IdentityBindListener is notified once per successful Authenticate call,
// after the Authority's mutex has been released (spec §9 re-architecture
// item 1, ordering guarantee O3). A listener panicking or misbehaving must
// not prevent the remaining listeners from running (spec §7 "unexpected
// listener failure").
type IdentityBindListener interface {
	OnUserAuthenticated(participantAddress, externalIdentity string)
}

// IdentityBindListenerFunc adapts a plain function to IdentityBindListener.
type IdentityBindListenerFunc func(participantAddress, externalIdentity string)

// OnUserAuthenticated implements IdentityBindListener.
func (f IdentityBindListenerFunc) OnUserAuthenticated(participantAddress, externalIdentity string) {
	f(participantAddress, externalIdentity)
}

// listenerRegistry is an RWMutex-guarded fan-out list: register under the
// lock, dispatch by copying the slice and calling outside the lock. Shape
// grounded on castaneai/ayu's forwarder.go, which is the pack's only
// existing multi-listener fan-out primitive — the teacher calls its
// services directly, one-to-one, and has no analogue.
type listenerRegistry struct {
	mu        sync.RWMutex
	listeners []IdentityBindListener
}

func (r *listenerRegistry) register(l IdentityBindListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// snapshot returns a copy of the current listener list, safe to iterate
// and call without holding any lock.
func (r *listenerRegistry) snapshot() []IdentityBindListener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]IdentityBindListener, len(r.listeners))
	copy(out, r.listeners)
	return out
}
