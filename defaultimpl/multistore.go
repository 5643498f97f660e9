package impl

import (
	"errors"
	"fmt"
	"os"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// interface check: interf.Store
var _ interf.Store = (*_MultiStore)(nil)

// @see interf.Store
//
// MultiStore combines two or more stores to a fallback chain: ReadAt asks
// the stores in order and the first successful read wins. Typical use is a
// local file store in front of a remote store.
type _MultiStore struct {
	stores []interf.Store
	stat   *_HistStat
}

// NewMultiStore combines the given stores to a fallback chain.
// There must be at least two or more stores!
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewMultiStore(debugLvl uint8, stores ...interf.Store) (interf.Store, error) {
	// at least two stores
	if len(stores) <= 1 {
		return nil, errors.New("can't create new MultiStore with less than two stores")
	}
	for _, v := range stores {
		if v == nil {
			return nil, errors.New("can't create new MultiStore with store=nil")
		}
	}

	return &_MultiStore{
		stores: stores,
		stat: &_HistStat{
			debugLvl:    debugLvl,
			packageName: "impl[MULTI]",
		},
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.Store  -------------------------------------------------------------------//

// @see interf.Store
//
// Update refreshes all inner stores. All stores are updated even if one
// fails; the first error is returned.
func (s *_MultiStore) Update() error {
	var firstErr error
	for _, inner := range s.stores {
		if err := inner.Update(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.stat.StUpdate(len(s.stores), firstErr) // DEBUG
	return firstErr
}

// @see interf.Store
//
// ReadAt asks the stores in order, the first success wins.
// If all stores fail, the last error is returned.
func (s *_MultiStore) ReadAt(p []byte, id string, off uint64) error {
	err := os.ErrNotExist
	for _, inner := range s.stores {
		if err = inner.ReadAt(p, id, off); err == nil {
			break // success
		}
	}

	s.stat.StRead(id, off, len(p), err) // DEBUG
	return err
}

// @see interf.Store
func (s *_MultiStore) Close() error {
	var firstErr error
	for _, inner := range s.stores {
		if err := inner.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.stat.PrintStatAfterClose("multi") // DEBUG
	return firstErr
}

// @see interf.Store
//
// Stat returns the number of times internal processes have been run since initialization.
// The inner store counters are merged with a '[i] ' prefix.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (s *_MultiStore) Stat() map[string]uint64 {
	// summary
	ret := make(map[string]uint64)

	// _MultiStore stats
	for k, v := range s.stat.Stat() {
		if v > 0 {
			ret["[MULTI] "+k] = v
		}
	}

	// inner stats
	for i, inner := range s.stores {
		for k, v := range inner.Stat() {
			if v > 0 {
				ret[fmt.Sprintf("[%d] %s", i, k)] = v
			}
		}
	}

	return ret
}
