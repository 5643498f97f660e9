package interf

// History provides random read access to single stake history records.
// An implementation resolves all lookups relative to a fixed current epoch.
type History interface {

	// GetEntry returns the Entry recorded for the target epoch.
	// If no record exists (the epoch aged out of the retention window, the
	// epoch is the current or a future epoch, or the resource is not
	// readable), the os.ErrNotExist error is returned.
	// A record that carries a different epoch than requested is a broken
	// invariant of the external data and is reported as a distinct error,
	// never as os.ErrNotExist.
	// This method is thread-safe.
	GetEntry(targetEpoch uint64) (*Entry, error)

	// Stat returns the number of times internal processes have been run since initialization.
	// This method is relevant for testing and debugging purposes.
	// The KEY is the internal process, the VALUE is the count.
	Stat() map[string]uint64
}

// Builder is the in-memory stake history used by the writer side
// (off-process tooling and tests). It keeps at most MaxEntries entries,
// ordered by descending epoch, and evicts the oldest entry when full.
type Builder interface {
	History

	// Add appends the Entry for the next epoch. The first Add accepts any
	// epoch; every further Add must use exactly newest+1 (no epoch can be
	// skipped inside the retained window).
	// This method is thread-safe.
	Add(epoch uint64, e Entry) error

	// Len returns the number of retained entries (max. MaxEntries).
	// This method is thread-safe.
	Len() int

	// Newest returns the newest retained epoch, or false if empty.
	// This method is thread-safe.
	Newest() (uint64, bool)

	// Oldest returns the oldest retained epoch, or false if empty.
	// This method is thread-safe.
	Oldest() (uint64, bool)

	// Bytes serializes the history to the snapshot wire layout:
	// an 8 byte little-endian record count, followed by the records in
	// descending epoch order (newest first), 32 byte each.
	// This method is thread-safe.
	Bytes() []byte
}
