package impl

import (
	"errors"
	"os"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
	"github.com/oxtoacart/bpool"
)

// interface check: interf.History
var _ interf.History = (*_Accessor)(nil)

// @see interf.History
//
// Accessor resolves single record lookups against a snapshot resource.
// The current epoch is fixed at construction; the accessor holds no other
// state and is safe for concurrent use.
type _Accessor struct {
	currentEpoch uint64
	store        interf.Store
	cache        interf.Cache    // for caching records, can be nil !
	pool         *bpool.BytePool // the byte pool avoids allocating memory
	stat         *_HistStat      // collects statistical data about internal processes
}

// NewAccessor returns the default implementation of interf.History, backed by
// the given store. All lookups are resolved relative to currentEpoch.
// Is cache = nil, the cache is disabled.
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewAccessor(currentEpoch uint64, store interf.Store, cache interf.Cache, debugLvl uint8) (interf.History, error) {
	// check input
	// the cache can be nil!
	if store == nil {
		return nil, errors.New("can't create new Accessor with store=nil")
	}

	// accessor statistic
	stat := &_HistStat{
		debugLvl:    debugLvl, // enable debug logging [0, 1, 2] (level: high=2)
		packageName: "impl",   // text for debug logging
	}

	// use byte pool from cache
	// or create a small pool (cache == nil)
	var pool *bpool.BytePool
	if cache != nil {
		pool = cache.Pool()
	} else {
		pool = bpool.NewBytePool(25, interf.RecordSize)
	}

	return &_Accessor{
		currentEpoch: currentEpoch,
		store:        store,
		cache:        cache,
		pool:         pool,
		stat:         stat,
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.History  -----------------------------------------------------------------//

// @see interf.History
//
// GetEntry returns the Entry recorded for the target epoch.
// All 'no data' outcomes (epoch aged out, epoch is current/future, resource
// not readable in this environment, short read) are the os.ErrNotExist error.
// A record with a wrong embedded epoch is the distinct ErrEpochMismatch error.
func (a *_Accessor) GetEntry(targetEpoch uint64) (*interf.Entry, error) {

	// 1) offset arithmetic (pure, no I/O)
	off, ok := RecordOffset(a.currentEpoch, targetEpoch)
	if !ok {
		a.stat.HistNone(interf.StakeHistoryID, targetEpoch, "no offset") // DEBUG
		return nil, os.ErrNotExist
	}
	a.stat.HistGet(interf.StakeHistoryID, targetEpoch, off) // DEBUG

	// buffer from pool
	buf := a.pool.Get()
	defer a.pool.Put(buf)
	buf = buf[:interf.RecordSize]

	// 2) try the record cache
	if a.cache != nil {
		b, err := a.cache.Get(interf.StakeHistoryID, targetEpoch, buf)
		a.stat.CacheGet(interf.StakeHistoryID, targetEpoch, len(b), err) // DEBUG
		if err == nil && len(b) == interf.RecordSize {
			return a.decode(b, targetEpoch)
		}
	}

	// 3) external ranged read
	err := a.store.ReadAt(buf, interf.StakeHistoryID, off)
	a.stat.StRead(interf.StakeHistoryID, off, len(buf), err) // DEBUG
	if err != nil {
		// environment failures are folded into 'no data' at this layer
		// (callers needing the distinction inspect the store itself)
		a.stat.HistNone(interf.StakeHistoryID, targetEpoch, "read failed") // DEBUG
		return nil, os.ErrNotExist
	}

	// 4) fill the record cache
	if a.cache != nil {
		err := a.cache.Set(interf.StakeHistoryID, targetEpoch, buf)
		a.stat.CacheSet(interf.StakeHistoryID, targetEpoch, len(buf), err) // DEBUG
	}

	// 5) decode and validate
	return a.decode(buf, targetEpoch)
}

// @see interf.History
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (a *_Accessor) Stat() map[string]uint64 {
	return a.stat.Stat()
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// decode validates and parses one record. A mismatching epoch is the fatal
// fault and must propagate (never os.ErrNotExist, never swallowed).
func (a *_Accessor) decode(raw []byte, targetEpoch uint64) (*interf.Entry, error) {
	e, err := DecodeRecord(raw, targetEpoch)
	if err != nil {
		a.stat.HistFault(interf.StakeHistoryID, targetEpoch, err) // DEBUG
		return nil, err
	}
	return e, nil
}
