package interf

// Store is the read collaborator for snapshot resources.
// A resource is an externally stored byte sequence identified by a fixed id
// (@see interf.StakeHistoryID). The store only has to support exact ranged
// reads; it never has to hand out the whole resource at once.
type Store interface {

	// Update refreshes the internal resource index.
	// This method can be slow (remote stores contact the storage backend).
	// This method is thread-safe.
	Update() error

	// ReadAt fills p with len(p) bytes from the resource id, starting at the
	// byte offset off. The read is all-or-nothing: a short read is an error
	// and p must not be used in that case.
	// If the resource is unknown, the os.ErrNotExist error is returned.
	// This method is thread-safe.
	ReadAt(p []byte, id string, off uint64) error

	// Close releases internal handles or connections.
	// This method is thread-safe.
	Close() error

	// Stat returns the number of times internal processes have been run since initialization.
	// This method is relevant for testing and debugging purposes.
	// The KEY is the internal process, the VALUE is the count.
	Stat() map[string]uint64
}

// WriteStore extends Store with the maintainer side: publishing new snapshot
// versions. Only off-process tooling writes snapshots; the lookup side of
// this library never does.
type WriteStore interface {
	Store

	// Publish replaces the resource id with the given snapshot bytes.
	// The replacement is atomic: readers see either the old or the new
	// version, never a mix.
	// Don't forget to call Update().
	// This method is thread-safe.
	Publish(id string, snapshot []byte) error
}
