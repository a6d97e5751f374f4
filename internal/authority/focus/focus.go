// Package focus defines the contract the Authority consumes from the
// conference allocator (the "Focus Manager" of spec §2/§6). The conference
// subsystem itself is out of scope for this repository — only the contract
// and one in-memory reference implementation (package memory) live here.
package focus

// ConferenceHandle is opaque to the Authority: only its presence or absence
// matters (spec §6: "get_conference(room_name) → handle-or-null").
type ConferenceHandle any

// AllocationListener is notified when a conference is destroyed. The
// Authority implements this interface and registers itself with a Manager
// via SetFocusAllocationListener (spec §9 re-architecture item 1).
type AllocationListener interface {
	OnFocusDestroyed(roomName string)
}

// Manager is the subset of the conference allocator the Authority depends
// on. A real implementation lives outside this repository; package memory
// provides a minimal in-memory one for the demo binary and tests.
type Manager interface {
	// GetConference reports whether a conference currently exists for
	// roomName, and its opaque handle if so.
	GetConference(roomName string) (ConferenceHandle, bool)

	// SetFocusAllocationListener registers the single listener notified on
	// room destruction. Passing nil clears the listener (used by Stop).
	SetFocusAllocationListener(l AllocationListener)
}
