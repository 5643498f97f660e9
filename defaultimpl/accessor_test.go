package impl_test

import (
	"errors"
	"math"
	"os"
	"sync"
	"testing"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// initTestStore returns a RAM store with the demo snapshots.
func initTestStore(t *testing.T) interf.WriteStore {
	ws := NewRamStoreT(t)
	if err := impl.InitDemo(ws); err != nil {
		t.Fatal(err)
	}
	return ws
}

// NewRamStoreT is a test constructor with error check.
func NewRamStoreT(t *testing.T) interf.WriteStore {
	ws := impl.NewRamStore(impl.DebugOff)
	if ws == nil {
		t.Fatal("nil store")
	}
	return ws
}

//--------------------------------------------------------------------------------------------------------------------//

func TestNewAccessor(t *testing.T) {
	ws := initTestStore(t)

	// test with invalid store
	if _, err := impl.NewAccessor(600, nil, nil, impl.DebugOff); err == nil {
		t.Fatal("no error with invalid store")
	}

	// test without cache
	if _, err := impl.NewAccessor(600, ws, nil, impl.DebugOff); err != nil {
		t.Fatal(err)
	}

	// test with cache
	c := impl.NewCache(1)
	if _, err := impl.NewAccessor(600, ws, c, impl.DebugOff); err != nil {
		t.Fatal(err)
	}
}

func TestAccessor_GetEntry(t *testing.T) {
	ws := initTestStore(t)

	hist, err := impl.NewAccessor(impl.DemoCurrentEpoch, ws, nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	// every epoch of the retention window round trips
	oldest := uint64(impl.DemoCurrentEpoch - interf.MaxEntries) // 88
	newest := uint64(impl.DemoCurrentEpoch - 1)                 // 599
	for epoch := oldest; epoch <= newest; epoch++ {
		e, err := hist.GetEntry(epoch)
		if err != nil {
			t.Fatal(err)
		}
		if *e != impl.DemoEntry(epoch) {
			t.Fatalf("epoch %d: got %+v", epoch, *e)
		}
	}

	// retention boundary: 87 aged out, 88 is the oldest record
	if _, err := hist.GetEntry(oldest - 1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
	if _, err := hist.GetEntry(oldest); err != nil {
		t.Errorf("err=%v", err)
	}

	// current and future epochs
	if _, err := hist.GetEntry(impl.DemoCurrentEpoch); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
	if _, err := hist.GetEntry(math.MaxUint64); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
}

func TestAccessor_GetEntry_noHistory(t *testing.T) {
	ws := initTestStore(t)

	// current epoch 0: every lookup is 'no data'
	hist, err := impl.NewAccessor(0, ws, nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	for _, epoch := range []uint64{0, 1, 599, math.MaxUint64} {
		if _, err := hist.GetEntry(epoch); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("epoch %d: err=%v", epoch, err)
		}
	}

	// empty snapshot: the offset exists but the resource has no bytes there
	// (the store read fails, the accessor reports 'no data')
	histGen, err := impl.NewAccessor(1, NewSingleStore(t, ws, impl.DemoEmptyID), nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := histGen.GetEntry(0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
}

func TestAccessor_GetEntry_genesis(t *testing.T) {
	ws := initTestStore(t)

	// snapshot with a single epoch 0 record, current epoch 1
	hist, err := impl.NewAccessor(1, NewSingleStore(t, ws, impl.DemoGenesisID), nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	e, err := hist.GetEntry(0) // offset (0-0)*32+8 = 8
	if err != nil {
		t.Fatal(err)
	}
	if *e != (interf.Entry{Effective: 5, Activating: 2, Deactivating: 3}) {
		t.Fatalf("got %+v", *e)
	}

	if _, err := hist.GetEntry(1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
}

func TestAccessor_GetEntry_fault(t *testing.T) {
	ws := initTestStore(t)

	hist, err := impl.NewAccessor(impl.DemoCorruptCurrentEpoch, NewSingleStore(t, ws, impl.DemoCorruptID), nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	// intact records are fine
	if _, err := hist.GetEntry(impl.DemoCorruptEpoch + 1); err != nil {
		t.Fatal(err)
	}

	// the corrupted record is the fatal fault, never os.ErrNotExist
	e, err := hist.GetEntry(impl.DemoCorruptEpoch)
	if e != nil || err == nil {
		t.Fatalf("e=%v, err=%v", e, err)
	}
	if !errors.Is(err, impl.ErrEpochMismatch) || errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}
}

func TestAccessor_GetEntry_nullStore(t *testing.T) {
	// the environment can't expose raw reads:
	// the lookup reports 'no data', it never emulates a read
	hist, err := impl.NewAccessor(600, impl.NewNullStore(), nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := hist.GetEntry(599); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}

	// the store itself names the real reason
	if err := impl.NewNullStore().ReadAt(make([]byte, interf.RecordSize), interf.StakeHistoryID, 8); !errors.Is(err, impl.ErrUnsupported) {
		t.Errorf("err=%v", err)
	}
}

func TestAccessor_GetEntry_cache(t *testing.T) {
	ws := initTestStore(t)

	c := impl.NewCache(1)
	hist, err := impl.NewAccessor(impl.DemoCurrentEpoch, ws, c, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	ts := &testStat{t: t, h: hist}

	// first lookup: cache miss, store read, cache fill
	if _, err := hist.GetEntry(500); err != nil {
		t.Fatal(err)
	}
	ts.HistGet++
	ts.CacheMis++
	ts.StRead++
	ts.CacheSet++
	ts.Check() //--------------------------------------------------------------------------------

	// second lookup: cache hit, no store read
	e, err := hist.GetEntry(500)
	if err != nil {
		t.Fatal(err)
	}
	if *e != impl.DemoEntry(500) {
		t.Fatalf("got %+v", *e)
	}
	ts.HistGet++
	ts.CacheHit++
	ts.Check() //--------------------------------------------------------------------------------

	// rejected lookup: no cache, no store
	if _, err := hist.GetEntry(impl.DemoCurrentEpoch); !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}
	ts.HistNone++
	ts.Check() //--------------------------------------------------------------------------------
}

//--------------------------------------------------------------------------------------------------------------------//

func TestRace_Accessor(t *testing.T) {
	ws := initTestStore(t)

	c := impl.NewCache(1)
	hist, err := impl.NewAccessor(impl.DemoCurrentEpoch, ws, c, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(5)
	for n := 0; n < 5; n++ {
		go func() {
			//------------------------------
			for epoch := uint64(88); epoch < 600; epoch++ {
				e, err := hist.GetEntry(epoch)
				if err != nil || *e != impl.DemoEntry(epoch) {
					t.Fail()
				}
			}
			for _, epoch := range []uint64{0, 87, 600, 601, math.MaxUint64} {
				if _, err := hist.GetEntry(epoch); err == nil {
					t.Fail()
				}
			}
			//------------------------------
			wg.Done()
		}()
	}
	wg.Wait()
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

// NewSingleStore maps the stake history id to another resource of the inner
// store, so the demo snapshots can be used with NewAccessor.
func NewSingleStore(t *testing.T, inner interf.Store, id string) interf.Store {
	return &singleStore{inner: inner, id: id}
}

type singleStore struct {
	inner interf.Store
	id    string
}

func (s *singleStore) Update() error { return s.inner.Update() }
func (s *singleStore) Close() error  { return s.inner.Close() }
func (s *singleStore) ReadAt(p []byte, id string, off uint64) error {
	if id == interf.StakeHistoryID {
		id = s.id
	}
	return s.inner.ReadAt(p, id, off)
}
func (s *singleStore) Stat() map[string]uint64 { return s.inner.Stat() }

//--------------------------------------------------------------------------------------------------------------------//

type testStat struct {
	t *testing.T
	h interf.History

	HistGet   uint64
	HistNone  uint64
	HistFault uint64
	CacheHit  uint64
	CacheMis  uint64
	CacheSet  uint64
	StRead    uint64
	StReadErr uint64
}

func (ts *testStat) Check() {
	m := ts.h.Stat()

	if m["HistGet"] != ts.HistGet {
		ts.t.Errorf("HistGet: should=%d, is=%d", ts.HistGet, m["HistGet"])
	}
	if m["HistNone"] != ts.HistNone {
		ts.t.Errorf("HistNone: should=%d, is=%d", ts.HistNone, m["HistNone"])
	}
	if m["HistFault"] != ts.HistFault {
		ts.t.Errorf("HistFault: should=%d, is=%d", ts.HistFault, m["HistFault"])
	}
	if m["CacheHit"] != ts.CacheHit {
		ts.t.Errorf("CacheHit: should=%d, is=%d", ts.CacheHit, m["CacheHit"])
	}
	if m["CacheMis"] != ts.CacheMis {
		ts.t.Errorf("CacheMis: should=%d, is=%d", ts.CacheMis, m["CacheMis"])
	}
	if m["CacheSet"] != ts.CacheSet {
		ts.t.Errorf("CacheSet: should=%d, is=%d", ts.CacheSet, m["CacheSet"])
	}
	if m["StRead"] != ts.StRead {
		ts.t.Errorf("StRead: should=%d, is=%d", ts.StRead, m["StRead"])
	}
	if m["StReadErr"] != ts.StReadErr {
		ts.t.Errorf("StReadErr: should=%d, is=%d", ts.StReadErr, m["StReadErr"])
	}
}
