package impl

import (
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// RecordOffset maps a target epoch to the byte offset of its record inside a
// serialized stake history snapshot, as seen from currentEpoch.
// The record length is always interf.RecordSize.
//
// ok is false if no record can exist for the target epoch:
//   - currentEpoch is 0 (there is no past epoch yet)
//   - targetEpoch aged out of the retention window (@see interf.MaxEntries)
//   - targetEpoch is the current or a future epoch
//   - the offset arithmetic would overflow
//
// The function is pure: no I/O, no allocation, same input same output.
func RecordOffset(currentEpoch, targetEpoch uint64) (off uint64, ok bool) {
	// epoch 0 has no history
	if currentEpoch == 0 {
		return 0, false
	}

	// the snapshot holds the epochs [oldest, newest]
	newest := currentEpoch - 1
	var oldest uint64 // saturating: the window never reaches below epoch 0
	if currentEpoch > interf.MaxEntries {
		oldest = currentEpoch - interf.MaxEntries
	}

	// aged out of the retention window -> the epoch is fully resolved
	if targetEpoch < oldest {
		return 0, false
	}

	// the current and future epochs have no record yet
	if targetEpoch >= currentEpoch {
		return 0, false
	}

	// record i (0-indexed, newest first) holds epoch newest-i,
	// so the record of targetEpoch sits at delta*RecordSize+CountPrefixSize
	delta := newest - targetEpoch

	off, ok = mulU64(delta, interf.RecordSize)
	if !ok {
		return 0, false // overflow, never wrap
	}
	off, ok = addU64(off, interf.CountPrefixSize)
	if !ok {
		return 0, false // overflow, never wrap
	}
	return off, true
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// mulU64 returns a*b and ok=false on overflow.
func mulU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

// addU64 returns a+b and ok=false on overflow.
func addU64(a, b uint64) (uint64, bool) {
	r := a + b
	if r < a {
		return 0, false
	}
	return r, true
}
