package impl

import (
	"encoding/binary"
	"errors"
	"fmt"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// ErrEpochMismatch is the fatal consistency fault: a record holds a different
// epoch than the one the offset arithmetic requested. This means the external
// snapshot skipped an epoch or uses an incompatible layout. The error must
// never be treated like a normal 'not found' (@see interf.History).
var ErrEpochMismatch = errors.New("stake history record epoch mismatch")

// ErrRecordSize is returned for raw buffers that are not exactly interf.RecordSize bytes.
var ErrRecordSize = errors.New("invalid stake history record size")

// EncodeRecord serializes one (epoch, Entry) pair to the 32 byte wire layout:
//
//	[ 0.. 8] epoch         (little-endian uint64)
//	[ 8..16] effective     (little-endian uint64)
//	[16..24] activating    (little-endian uint64)
//	[24..32] deactivating  (little-endian uint64)
func EncodeRecord(epoch uint64, e interf.Entry) []byte {
	b := make([]byte, interf.RecordSize)
	binary.LittleEndian.PutUint64(b[0:8], epoch)
	binary.LittleEndian.PutUint64(b[8:16], e.Effective)
	binary.LittleEndian.PutUint64(b[16:24], e.Activating)
	binary.LittleEndian.PutUint64(b[24:32], e.Deactivating)
	return b
}

// DecodeRecord parses a 32 byte record (@see EncodeRecord) and checks the
// embedded epoch against wantEpoch. A mismatch returns ErrEpochMismatch.
func DecodeRecord(raw []byte, wantEpoch uint64) (*interf.Entry, error) {
	// defensive: the contract is exactly one record
	if len(raw) != interf.RecordSize {
		return nil, fmt.Errorf("%w: %d byte", ErrRecordSize, len(raw))
	}

	// the embedded epoch must be the requested epoch
	epoch := binary.LittleEndian.Uint64(raw[0:8])
	if epoch != wantEpoch {
		return nil, fmt.Errorf("%w: record holds epoch %d, requested epoch %d", ErrEpochMismatch, epoch, wantEpoch)
	}

	// payload
	return &interf.Entry{
		Effective:    binary.LittleEndian.Uint64(raw[8:16]),
		Activating:   binary.LittleEndian.Uint64(raw[16:24]),
		Deactivating: binary.LittleEndian.Uint64(raw[24:32]),
	}, nil
}
