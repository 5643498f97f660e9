package impl

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// interface check: interf.WriteStore
var _ interf.WriteStore = (*_FileStore)(nil)

// @see interf.WriteStore
//
// FileStore keeps every snapshot resource as one file in a directory.
// The file name is the resource id. File handles are opened lazily and
// reused until Update() or Close().
type _FileStore struct {
	dir     string
	handles map[string]*os.File
	mux     *sync.RWMutex
	stat    *_HistStat
}

// NewFileStore return the file implementation of interf.WriteStore.
// All resources are stored as files in the directory dir (created if missing).
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewFileStore(dir string, debugLvl uint8) (interf.WriteStore, error) {
	// check input
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("can't create new FileStore with empty dir")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("can't create new FileStore: %v", err)
	}

	return &_FileStore{
		dir:     dir,
		handles: make(map[string]*os.File),
		mux:     new(sync.RWMutex),
		stat: &_HistStat{
			debugLvl:    debugLvl,
			packageName: "impl[file]",
		},
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.WriteStore  --------------------------------------------------------------//

// @see interf.Store
//
// Update drops all open handles, so the next ReadAt() picks up files that
// were replaced or added on disk.
func (s *_FileStore) Update() error {
	s.mux.Lock() // WRITE Lock
	defer s.mux.Unlock()

	n := len(s.handles)
	s.closeHandles()

	s.stat.StUpdate(n, nil) // DEBUG
	return nil
}

// @see interf.Store
func (s *_FileStore) ReadAt(p []byte, id string, off uint64) error {
	err := s.readAt(p, id, off)
	s.stat.StRead(id, off, len(p), err) // DEBUG
	return err
}

// @see interf.Store
func (s *_FileStore) Close() error {
	s.mux.Lock() // WRITE Lock
	defer s.mux.Unlock()

	s.closeHandles()
	s.stat.PrintStatAfterClose(s.dir) // DEBUG
	return nil
}

// @see interf.Store
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (s *_FileStore) Stat() map[string]uint64 {
	return s.stat.Stat()
}

// @see interf.WriteStore
//
// Publish writes the snapshot to a temp file and renames it over the target,
// so readers see either the old or the new version.
func (s *_FileStore) Publish(id string, snapshot []byte) error {
	// check input
	path, err := s.path(id)
	if err != nil {
		s.stat.StPublish(id, len(snapshot), err) // DEBUG
		return err
	}

	// write temp file + atomic rename
	tmp, err := ioutil.TempFile(s.dir, ".publish-*")
	if err == nil {
		_, err = tmp.Write(snapshot)
		if errC := tmp.Close(); err == nil {
			err = errC
		}
		if err == nil {
			err = os.Rename(tmp.Name(), path)
		} else {
			_ = os.Remove(tmp.Name())
		}
	}
	if err != nil {
		s.stat.StPublish(id, len(snapshot), err) // DEBUG
		return err
	}

	// drop a stale handle of the replaced file
	s.mux.Lock() // WRITE Lock
	if fh, ok := s.handles[id]; ok {
		_ = fh.Close()
		delete(s.handles, id)
	}
	s.mux.Unlock()

	s.stat.StPublish(id, len(snapshot), nil) // DEBUG
	return nil
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// readAt reads the exact range from the resource file (lazy open).
func (s *_FileStore) readAt(p []byte, id string, off uint64) error {
	// get open handle
	s.mux.RLock() // READ Lock
	fh, ok := s.handles[id]
	s.mux.RUnlock()

	// or open the file
	if !ok {
		var err error
		fh, err = s.open(id)
		if err != nil {
			return err
		}
	}

	// os.File.ReadAt is already all-or-nothing
	// (n < len(p) comes with io.EOF)
	n, err := fh.ReadAt(p, int64(off))
	if err == io.EOF && n < len(p) && n > 0 {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// open opens the resource file and stores the handle for reuse.
func (s *_FileStore) open(id string) (*os.File, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	s.mux.Lock() // WRITE Lock
	defer s.mux.Unlock()

	// double check (another caller can be faster)
	if fh, ok := s.handles[id]; ok {
		return fh, nil
	}

	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	s.handles[id] = fh
	return fh, nil
}

// path maps a resource id to a file path and rejects ids that would escape dir.
func (s *_FileStore) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid resource id '%s'", id)
	}
	return filepath.Join(s.dir, id), nil
}

// closeHandles closes and forgets all open handles.
// The caller must hold the write lock.
func (s *_FileStore) closeHandles() {
	for id, fh := range s.handles {
		_ = fh.Close()
		delete(s.handles, id)
	}
}
