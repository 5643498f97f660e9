package impl

import (
	"encoding/binary"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// DemoCurrentEpoch is the current epoch of the demo stake history.
// The snapshot then holds the epochs 88..599 (@see interf.MaxEntries).
const DemoCurrentEpoch = 600

// DemoEmptyID is the id of a demo snapshot without records.
const DemoEmptyID = "demo-empty-history"

// DemoGenesisID is the id of a demo snapshot with a single epoch 0 record.
const DemoGenesisID = "demo-genesis-history"

// DemoCorruptID is the id of a demo snapshot whose middle record carries a
// wrong embedded epoch. Lookups of that epoch must report the fatal
// ErrEpochMismatch fault.
const DemoCorruptID = "demo-corrupt-history"

// The DemoCorruptID snapshot holds the epochs 0..9 (current epoch 10) and
// the record of epoch DemoCorruptEpoch carries the wrong embedded epoch.
const DemoCorruptCurrentEpoch = 10
const DemoCorruptEpoch = 5

// DemoEntry returns the deterministic Entry of the demo history for an epoch.
// The multipliers make every epoch unique and easy to verify.
func DemoEntry(epoch uint64) interf.Entry {
	return interf.Entry{
		Effective:    5 * epoch,
		Activating:   2 * epoch,
		Deactivating: 3 * epoch,
	}
}

// InitDemo publishes the following test snapshots:
//
//	+ interf.StakeHistoryID
//	   epochs 0..DemoCurrentEpoch-1 added, retention keeps 88..599
//	   entries: DemoEntry(epoch)
//	+ DemoEmptyID: count 0, no records
//	+ DemoGenesisID: single record for epoch 0
//	+ DemoCorruptID: epochs 0..9, record of epoch 5 corrupted
//
// The final Update() makes all snapshots visible.
func InitDemo(ws interf.WriteStore) error {

	// full demo history
	h := NewHistory()
	for e := uint64(0); e < DemoCurrentEpoch; e++ {
		if err := h.Add(e, DemoEntry(e)); err != nil {
			return err
		}
	}
	if err := ws.Publish(interf.StakeHistoryID, h.Bytes()); err != nil {
		return err
	}

	// empty history
	if err := ws.Publish(DemoEmptyID, NewHistory().Bytes()); err != nil {
		return err
	}

	// genesis history
	h = NewHistory()
	if err := h.Add(0, interf.Entry{Effective: 5, Activating: 2, Deactivating: 3}); err != nil {
		return err
	}
	if err := ws.Publish(DemoGenesisID, h.Bytes()); err != nil {
		return err
	}

	// corrupt history: flip the embedded epoch of one record
	h = NewHistory()
	for e := uint64(0); e < DemoCorruptCurrentEpoch; e++ {
		if err := h.Add(e, DemoEntry(e)); err != nil {
			return err
		}
	}
	b := h.Bytes()
	off, ok := RecordOffset(DemoCorruptCurrentEpoch, DemoCorruptEpoch)
	if !ok {
		panic("demo: no offset for corrupt record") // can't happen
	}
	binary.LittleEndian.PutUint64(b[off:off+8], 0xdead)
	if err := ws.Publish(DemoCorruptID, b); err != nil {
		return err
	}

	// final update
	return ws.Update()
}
