package interf

// MaxEntries is the retention capacity of a stake history snapshot.
// Only the most recent MaxEntries epochs are kept; older epochs are
// presumed fully resolved and are dropped by the writer.
const MaxEntries = 512

// RecordSize is the size of one serialized history record in bytes:
// 8 byte epoch + 8 byte effective + 8 byte activating + 8 byte deactivating
// (all little-endian).
const RecordSize = 32

// CountPrefixSize is the size of the record count prefix at the start
// of a snapshot (little-endian uint64).
const CountPrefixSize = 8

// MaxSnapshotSize is the upper bound on the serialized size of a full
// snapshot. Callers that need to read a whole snapshot can size their
// buffers with this value.
const MaxSnapshotSize = CountPrefixSize + MaxEntries*RecordSize // 16392 byte

// StakeHistoryID identifies the snapshot resource that holds the stake
// history. The id is fixed at program start and never changes.
const StakeHistoryID = "SysvarStakeHistory1111111111111111111111111"

// CacheExpireSeconds is the default value n. The cache stores records for max. n seconds.
const CacheExpireSeconds = 2 * 60 * 60 // 2 hours
