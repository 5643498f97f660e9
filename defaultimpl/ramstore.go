package impl

import (
	"errors"
	"io"
	"os"
	"sync"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// interface check: interf.WriteStore
var _ interf.WriteStore = (*_RamStore)(nil)

// @see interf.WriteStore
//
// RamStore keeps all snapshot resources in RAM.
// Published snapshots become visible with the next Update() call.
type _RamStore struct {
	hidden map[string][]byte // staged by Publish()
	data   map[string][]byte // visible to ReadAt(), set by Update()
	mux    *sync.RWMutex
	stat   *_HistStat
}

// NewRamStore return the RAM implementation of interf.WriteStore.
// The data are only in RAM. This implementation is mainly for testing.
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewRamStore(debugLvl uint8) interf.WriteStore {
	return &_RamStore{
		hidden: make(map[string][]byte),
		data:   make(map[string][]byte),
		mux:    new(sync.RWMutex),
		stat: &_HistStat{
			debugLvl:    debugLvl,
			packageName: "impl[ram]",
		},
	}
}

//-----------  IMPLEMENTATION:  @see interf.WriteStore  --------------------------------------------------------------//

// @see interf.Store
func (s *_RamStore) Update() error {
	s.mux.Lock() // WRITE Lock
	defer s.mux.Unlock()

	// swap in the staged versions
	data := make(map[string][]byte, len(s.hidden))
	for k, v := range s.hidden {
		data[k] = v
	}
	s.data = data

	s.stat.StUpdate(len(data), nil) // DEBUG
	return nil
}

// @see interf.Store
//
// ReadAt is all-or-nothing: io.EOF is returned for offsets past the end and
// io.ErrUnexpectedEOF for ranges that are only partially covered.
func (s *_RamStore) ReadAt(p []byte, id string, off uint64) error {
	s.mux.RLock() // READ Lock
	defer s.mux.RUnlock()

	err := readFull(p, s.data, id, off)
	s.stat.StRead(id, off, len(p), err) // DEBUG
	return err
}

// @see interf.Store
func (s *_RamStore) Close() error {
	s.mux.Lock() // WRITE Lock
	defer s.mux.Unlock()

	s.hidden = make(map[string][]byte)
	s.data = make(map[string][]byte)

	s.stat.PrintStatAfterClose("ram") // DEBUG
	return nil
}

// @see interf.Store
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (s *_RamStore) Stat() map[string]uint64 {
	return s.stat.Stat()
}

// @see interf.WriteStore
func (s *_RamStore) Publish(id string, snapshot []byte) error {
	// check input
	if id == "" {
		err := errors.New("empty id")
		s.stat.StPublish(id, len(snapshot), err) // DEBUG
		return err
	}

	// defensive copy (the caller keeps the original)
	cp := make([]byte, len(snapshot))
	copy(cp, snapshot)

	s.mux.Lock() // WRITE Lock
	defer s.mux.Unlock()

	s.hidden[id] = cp
	s.stat.StPublish(id, len(cp), nil) // DEBUG
	return nil
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// readFull implements the exact read semantic on a resource map.
func readFull(p []byte, data map[string][]byte, id string, off uint64) error {
	// resource must exist
	b, ok := data[id]
	if !ok {
		return os.ErrNotExist
	}

	// offset past the end
	if off >= uint64(len(b)) {
		return io.EOF
	}

	// range only partially covered
	if n := copy(p, b[off:]); n < len(p) {
		return io.ErrUnexpectedEOF
	}
	return nil
}
