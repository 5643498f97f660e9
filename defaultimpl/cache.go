package impl

import (
	"encoding/binary"
	"runtime/debug"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
	"github.com/coocood/freecache"
	"github.com/oxtoacart/bpool"
)

// interface check: interf.Cache
var _ interf.Cache = (*_Cache)(nil)

// @see interf.Cache
//
// Cache stores single history records for a performant random read access. (@see interf.History)
// If possible, there should only be one common large cache (reuse the object in your program).
type _Cache struct {
	cache *freecache.Cache // RAM cache for records
	pool  *bpool.BytePool  // buffer pool
	size  int64            // max. capacity in bytes
}

// NewCache return the default implementation of interf.Cache.
// cacheSizeMB can't be less than 1 (min. size of freecache).
func NewCache(cacheSizeMB int) interf.Cache {
	// cache min. size
	if cacheSizeMB < 1 {
		cacheSizeMB = 1
	}

	// init freeCache
	cacheSize := cacheSizeMB * 1024 * 1024
	fCache := freecache.NewCache(cacheSize)
	debug.SetGCPercent(20)

	return &_Cache{
		cache: fCache,
		pool:  bpool.NewBytePool(300, interf.RecordSize), // ~ 10 kB
		size:  int64(cacheSize),
	}
}

// @see interf.Cache
//
// Get returns the value or 'not found' error.
// This method doesn't allocate memory when the capacity of buf is greater or equal to value.
func (c *_Cache) Get(id string, epoch uint64, buf []byte) ([]byte, error) {
	key := c.calcCacheKey(id, epoch)
	return c.cache.GetWithBuf(key, buf)
}

// @see interf.Cache
//
// Set stores the value in the cache.
// Old data can be deleted if the cache is full.
// The value expires after interf.CacheExpireSeconds.
func (c *_Cache) Set(id string, epoch uint64, data []byte) error {
	key := c.calcCacheKey(id, epoch)
	return c.cache.Set(key, data, interf.CacheExpireSeconds)
}

// @see interf.Cache
//
// Pool returns a byte pool. This means that the small byte buffers can be reused and the allocation is reduced.
// The Pool contain 300 buffer with the size of interf.RecordSize.
//
// Example of use:
//   buf := c.Pool().Get()
//   defer c.Pool().Put(buf)
func (c *_Cache) Pool() *bpool.BytePool {
	return c.pool
}

// @see interf.Cache
//
// Size returns the max. capacity of this cache in bytes.
func (c *_Cache) Size() int64 {
	return c.size
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// calcCacheKey converts id and an epoch into a byte key for freeCache.
func (c *_Cache) calcCacheKey(id string, epoch uint64) []byte {
	var bKey [8]byte
	binary.LittleEndian.PutUint64(bKey[:], epoch)
	return append(bKey[:], []byte(id)...)
}
