package interf

// Entry holds the aggregate stake amounts recorded for a single epoch.
// The three amounts are opaque payload: no relation between them is
// checked or enforced by this library.
// Entry is an immutable value object.
type Entry struct {

	// Effective is the amount already in steady state.
	Effective uint64

	// Activating is the amount transitioning into effect.
	Activating uint64

	// Deactivating is the amount transitioning out of effect.
	Deactivating uint64
}
