package impl

import (
	"errors"
	"io"
	"math"
	"os"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// interface check: interf.Store
var _ interf.Store = (*_RAtStore)(nil)

// @see interf.Store
//
// RAtStore adapts a single io.ReaderAt (bytes.Reader, os.File, ...) as a
// store with exactly one resource.
type _RAtStore struct {
	id   string
	r    io.ReaderAt
	stat *_HistStat
}

// NewReaderAtStore return a interf.Store that serves the single resource id
// from the given io.ReaderAt.
func NewReaderAtStore(id string, r io.ReaderAt) (interf.Store, error) {
	// check input
	if id == "" || r == nil {
		return nil, errors.New("can't create new ReaderAtStore with id='' or r=nil")
	}

	return &_RAtStore{
		id: id,
		r:  r,
		stat: &_HistStat{
			debugLvl:    DebugOff,
			packageName: "impl[rat]",
		},
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.Store  -------------------------------------------------------------------//

// @see interf.Store
func (s *_RAtStore) Update() error {
	s.stat.StUpdate(1, nil) // DEBUG
	return nil              // nothing to refresh
}

// @see interf.Store
func (s *_RAtStore) ReadAt(p []byte, id string, off uint64) error {
	err := s.readAt(p, id, off)
	s.stat.StRead(id, off, len(p), err) // DEBUG
	return err
}

// @see interf.Store
func (s *_RAtStore) Close() error {
	// close the inner reader if possible
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// @see interf.Store
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (s *_RAtStore) Stat() map[string]uint64 {
	return s.stat.Stat()
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

func (s *_RAtStore) readAt(p []byte, id string, off uint64) error {
	// only one resource exists
	if id != s.id {
		return os.ErrNotExist
	}

	// io.ReaderAt uses int64 offsets
	if off > math.MaxInt64 {
		return io.EOF
	}

	n, err := s.r.ReadAt(p, int64(off))
	if n == len(p) {
		return nil // full read, ignore io.EOF at the exact end
	}
	if err == io.EOF && n > 0 {
		err = io.ErrUnexpectedEOF
	}
	if err == nil {
		err = io.ErrUnexpectedEOF // short read without error
	}
	return err
}
