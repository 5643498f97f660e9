package impl

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// interface check: interf.Builder
var _ interf.Builder = (*_History)(nil)

// @see interf.Builder
//
// History is the in-memory stake history of the writer side. It is a fixed
// size ring of interf.MaxEntries entries, indexed by epoch. Entries older
// than the retention window are evicted by overwriting their slot.
type _History struct {
	mux     *sync.RWMutex
	entries [interf.MaxEntries]interf.Entry // ring, slot = epoch % MaxEntries
	newest  uint64                          // newest retained epoch (valid if count > 0)
	count   int                             // retained entries [0, MaxEntries]
	stat    *_HistStat
}

// NewHistory return an empty interf.Builder.
// This implementation is for off-process tooling and tests (the lookup side
// uses NewAccessor and never holds a full history in memory).
func NewHistory() interf.Builder {
	return &_History{
		mux: new(sync.RWMutex),
		stat: &_HistStat{
			debugLvl:    DebugOff,
			packageName: "impl",
		},
	}
}

// NewHistoryFromBytes parses a serialized snapshot (@see interf.Builder.Bytes)
// and returns it as interf.Builder.
// The snapshot is validated: count bound, exact byte length and descending
// contiguous epochs (newest first).
func NewHistoryFromBytes(b []byte) (interf.Builder, error) {
	// count prefix
	if len(b) < interf.CountPrefixSize {
		return nil, fmt.Errorf("snapshot too short: %d byte", len(b))
	}
	if len(b) > interf.MaxSnapshotSize {
		return nil, fmt.Errorf("snapshot too big: %d byte (max. %d)", len(b), interf.MaxSnapshotSize)
	}
	count := binary.LittleEndian.Uint64(b[:interf.CountPrefixSize])
	if count > interf.MaxEntries {
		return nil, fmt.Errorf("snapshot count %d exceeds %d", count, interf.MaxEntries)
	}
	if uint64(len(b)) != interf.CountPrefixSize+count*interf.RecordSize {
		return nil, fmt.Errorf("snapshot length %d doesn't match count %d", len(b), count)
	}

	h := NewHistory().(*_History)
	if count == 0 {
		return h, nil
	}

	// records are newest first: record i holds epoch newest-i
	newest := binary.LittleEndian.Uint64(b[interf.CountPrefixSize:])
	for i := count; i > 0; i-- {
		raw := b[interf.CountPrefixSize+(i-1)*interf.RecordSize:][:interf.RecordSize]
		epoch := newest - (i - 1)
		e, err := DecodeRecord(raw, epoch)
		if err != nil {
			return nil, err // gap or wrong order in the snapshot
		}
		if err := h.Add(epoch, *e); err != nil {
			return nil, err
		}
	}
	return h, nil
}

//-----------  IMPLEMENTATION:  @see interf.Builder  -----------------------------------------------------------------//

// @see interf.Builder
//
// Add appends the Entry for the next epoch. The first Add accepts any epoch;
// every further Add must use exactly newest+1.
func (h *_History) Add(epoch uint64, e interf.Entry) error {
	h.mux.Lock() // WRITE Lock
	defer h.mux.Unlock()

	// enforce contiguity (the offset arithmetic relies on it)
	if h.count > 0 && epoch != h.newest+1 {
		err := fmt.Errorf("can't add epoch %d: next epoch is %d", epoch, h.newest+1)
		h.stat.BldAdd(epoch, err) // DEBUG
		return err
	}

	// write slot (overwrites the evicted epoch when full)
	h.entries[epoch%interf.MaxEntries] = e
	h.newest = epoch
	if h.count < interf.MaxEntries {
		h.count++
	}

	h.stat.BldAdd(epoch, nil) // DEBUG
	return nil
}

// @see interf.History
//
// GetEntry returns the Entry retained for the target epoch or os.ErrNotExist.
// The in-memory history can never produce the epoch mismatch fault: it owns
// its data and the contiguity is enforced by Add().
func (h *_History) GetEntry(targetEpoch uint64) (*interf.Entry, error) {
	h.mux.RLock() // READ Lock
	defer h.mux.RUnlock()

	if !h.contains(targetEpoch) {
		h.stat.HistNone("mem", targetEpoch, "not retained") // DEBUG
		return nil, os.ErrNotExist
	}

	h.stat.HistGet("mem", targetEpoch, 0) // DEBUG
	e := h.entries[targetEpoch%interf.MaxEntries]
	return &e, nil
}

// @see interf.Builder
func (h *_History) Len() int {
	h.mux.RLock() // READ Lock
	defer h.mux.RUnlock()

	return h.count
}

// @see interf.Builder
func (h *_History) Newest() (uint64, bool) {
	h.mux.RLock() // READ Lock
	defer h.mux.RUnlock()

	return h.newest, h.count > 0
}

// @see interf.Builder
func (h *_History) Oldest() (uint64, bool) {
	h.mux.RLock() // READ Lock
	defer h.mux.RUnlock()

	if h.count == 0 {
		return 0, false
	}
	return h.newest - uint64(h.count) + 1, true
}

// @see interf.Builder
//
// Bytes serializes the history to the snapshot wire layout (newest first).
func (h *_History) Bytes() []byte {
	h.mux.RLock() // READ Lock
	defer h.mux.RUnlock()

	b := make([]byte, 0, interf.CountPrefixSize+h.count*interf.RecordSize)

	// count prefix
	var prefix [interf.CountPrefixSize]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(h.count))
	b = append(b, prefix[:]...)

	// records: newest first
	for i := 0; i < h.count; i++ {
		epoch := h.newest - uint64(i)
		b = append(b, EncodeRecord(epoch, h.entries[epoch%interf.MaxEntries])...)
	}
	return b
}

// @see interf.History
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (h *_History) Stat() map[string]uint64 {
	return h.stat.Stat()
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// contains reports whether the epoch is inside the retained window.
// The caller must hold the lock.
func (h *_History) contains(epoch uint64) bool {
	if h.count == 0 || epoch > h.newest {
		return false
	}
	oldest := h.newest - uint64(h.count) + 1
	return epoch >= oldest
}
