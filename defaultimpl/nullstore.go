package impl

import (
	"errors"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// ErrUnsupported is returned by the NullStore: the execution environment
// can't expose raw snapshot reads. The lookup reports 'no data' in this case,
// it never emulates a read.
var ErrUnsupported = errors.New("raw snapshot reads are not supported in this environment")

// interface check: interf.Store
var _ interf.Store = (*_NullStore)(nil)

// _NullStore is a store without read support (@see ErrUnsupported).
type _NullStore struct {
	// nope
}

// NewNullStore is a dummy store for environments without raw snapshot reads.
// Every ReadAt fails with ErrUnsupported.
func NewNullStore() interf.Store {
	return new(_NullStore)
}

//--------------------------------------------------------------------------------------------------------------------//

func (s *_NullStore) Update() error {
	return nil
}

func (s *_NullStore) ReadAt(_ []byte, _ string, _ uint64) error {
	return ErrUnsupported
}

func (s *_NullStore) Close() error {
	return nil
}

func (s *_NullStore) Stat() map[string]uint64 {
	return make(map[string]uint64)
}
