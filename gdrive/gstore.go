package gdrive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
	google "google.golang.org/api/drive/v3"
)

// packageName is the text for debug logging
const packageName = "gdrive"

// interface check: interf.WriteStore
var _ interf.WriteStore = (*_GStore)(nil)

// _GStore serves snapshot resources from a Google Drive folder.
// The resource id is the drive file name inside the parent folder.
// Must be created with NewGStore().
type _GStore struct {
	google    *google.Service
	parent    string
	cacheFile string
	debugLvl  uint8

	mux         *sync.RWMutex
	index       map[string]_SnapFile // resource id -> drive file
	initialized bool

	statUpdate  uint64
	statRead    uint64
	statReadErr uint64
	statPublish uint64
}

// _SnapFile describes one snapshot file on drive.
type _SnapFile struct {
	DriveId string
	Name    string
	ModTime int64
	Size    int64
	Md5     string
}

// NewGStore returns a drive backed interf.WriteStore. The parent specifies the
// folder with the snapshot files. If the value is "root" or empty, the root
// directory of Google Drive is used.
// indexCacheFile is used to speed up the first Update() (index is available faster).
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewGStore(parent, indexCacheFile string, oauth *google.Service, debugLvl uint8) interf.WriteStore {
	s := &_GStore{
		google:    oauth,
		parent:    parent,
		cacheFile: indexCacheFile,
		debugLvl:  debugLvl,
		mux:       new(sync.RWMutex),
		index:     make(map[string]_SnapFile), // empty index, set by Update()
	}

	// root fix: replace root alias with valid folder id
	if s.parent == "root" || s.parent == "" {
		root, err := s.google.Files.Get("root").Do()
		if err != nil {
			// do nothing
			log.Printf("ERROR: %s/rootFix: %v", packageName, err)
		} else {
			// update parent folder id
			log.Printf("INFO: %s/rootFix: change parent folder id '%s' to '%s'", packageName, s.parent, root.Id)
			s.parent = root.Id
		}
	}
	return s
}

//-----------  IMPLEMENTATION:  @see interf.WriteStore  --------------------------------------------------------------//

// @see interf.Store
//
// Update rebuilds the internal snapshot index from the parent folder.
// If several drive files share a name, the newest (modifiedTime) wins.
// The first call loads the gob index cache to speed up the start.
// This method is thread-safe.
func (s *_GStore) Update() error {
	atomic.AddUint64(&s.statUpdate, 1)

	// use indexcache on the first call
	// loading the last state allows to speed up the process
	s.mux.Lock() // <-------------- LOCK
	first := !s.initialized
	if first {
		if err := cacheLoad(s); err != nil {
			log.Printf("WARNING: %s/Update: cacheLoad() failed: %v", packageName, err)
		} else {
			log.Printf("INFO: %s/Update: speed up initialization with indexcache", packageName)
		}
	}
	s.mux.Unlock() // <------------ UNLOCK

	// config
	const folderMimeType = "application/vnd.google-apps.folder"
	const fields = "nextPageToken, files(id, name, size, modifiedTime, md5Checksum)"
	const spaces = "drive" // Supported values are 'drive', 'appDataFolder' and 'photos'.
	const corpora = "user" // The user corpus includes all files in "My Drive" and "Shared with me"
	const pageSize = 1000  // split big file lists in pages (default 1000)
	query := fmt.Sprintf("trashed = false and mimeType != '%s' and '%s' in parents", folderMimeType, s.parent)

	// get all snapshot files (newest modifiedTime wins per name)
	newIndex := make(map[string]_SnapFile)
	pageToken := ""
	for {
		// read a result page
		fileList, err := s.google.Files.List().Q(query).PageToken(pageToken).
			Spaces(spaces).Corpora(corpora).PageSize(int64(pageSize)).
			Fields(fields).Do() // thread safe

		// error handling
		if err != nil {
			log.Printf("ERROR: %s/Update: can't read all result pages: %v", packageName, err)
			return err
		}

		// add all results (files) to the index
		for _, f := range fileList.Files {
			nf := _SnapFile{
				DriveId: f.Id,
				Name:    f.Name,
				ModTime: ParseTime(f.ModifiedTime),
				Size:    f.Size,
				Md5:     f.Md5Checksum,
			}
			if old, ok := newIndex[nf.Name]; !ok || nf.ModTime > old.ModTime {
				newIndex[nf.Name] = nf
			}
		}

		// break loop (no more pages)
		pageToken = fileList.NextPageToken
		if pageToken == "" {
			log.Printf("INFO: %s/Update: successful index update (%d snapshots)", packageName, len(newIndex))
			break
		}
	}

	// FIN: set new index, save indexcache and return
	s.mux.Lock() // <-------------- LOCK
	s.index = newIndex
	s.initialized = true
	err := cacheSave(s)
	s.mux.Unlock() // <------------ UNLOCK

	if err != nil {
		log.Printf("ERROR: %s/Update: cacheSave() failed: %v", packageName, err)
	}
	return nil
}

// @see interf.Store
//
// ReadAt downloads the exact byte range with a 'Range: bytes=o-e' request.
// A short response is an error. Unknown ids return os.ErrNotExist.
// This method is thread-safe.
func (s *_GStore) ReadAt(p []byte, id string, off uint64) error {
	err := s.readAt(p, id, off)
	if err == nil {
		atomic.AddUint64(&s.statRead, 1)
	} else {
		atomic.AddUint64(&s.statReadErr, 1)
	}
	if s.debugLvl >= 2 { // Debug level: high=2
		log.Printf("DEBUG: %s/ReadAt: id=%s, off=%d, req=%d, err=%v", packageName, id, off, len(p), err)
	}
	return err
}

// @see interf.Store
//
// Close is a no-op (drive connections are stateless HTTP requests).
func (s *_GStore) Close() error {
	return nil
}

// @see interf.Store
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (s *_GStore) Stat() map[string]uint64 {
	ret := map[string]uint64{
		"StUpdate":  atomic.LoadUint64(&s.statUpdate),
		"StRead":    atomic.LoadUint64(&s.statRead),
		"StReadErr": atomic.LoadUint64(&s.statReadErr),
		"StPublish": atomic.LoadUint64(&s.statPublish),
	}

	// ignore zero values
	for k, v := range ret {
		if v == 0 {
			delete(ret, k)
		}
	}
	return ret
}

// @see interf.WriteStore
//
// Publish uploads the snapshot as a new drive file and trashes older files
// with the same name. Readers see either the old or the new version.
// Don't forget to call Update().
// This method is thread-safe.
func (s *_GStore) Publish(id string, snapshot []byte) error {
	atomic.AddUint64(&s.statPublish, 1)

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("invalid input")
	}

	// set google file metadata
	f := &google.File{
		Name:     id,
		Parents:  []string{s.parent},
		MimeType: "application/octet-stream",
	}

	// upload
	f, err := s.google.Files.Create(f).Media(bytes.NewReader(snapshot)).Do()

	// request error
	if err != nil {
		errMsg := fmt.Sprintf("%v", err)
		if strings.Contains(errMsg, "insufficientPermissions") {
			// wrong permissions
			return fmt.Errorf("upload error: wrong permissions: create a new oauth token with write permissions: %v", err)
		}
		// other error
		return fmt.Errorf("upload error: %v", err)
	}

	// trash the replaced files (old versions of this snapshot)
	s.mux.RLock() // READ Lock
	old, ok := s.index[id]
	s.mux.RUnlock()

	if ok && old.DriveId != f.Id {
		if _, err := s.google.Files.Update(old.DriveId, &google.File{Trashed: true}).Do(); err != nil {
			log.Printf("WARNING: %s/Publish: can't trash old snapshot '%s': %v", packageName, old.DriveId, err)
		}
	}

	return nil
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// readAt downloads the range [off, off+len(p)) of the snapshot id.
func (s *_GStore) readAt(p []byte, id string, off uint64) error {
	// find the drive file (offline, internal index)
	s.mux.RLock() // READ Lock
	f, ok := s.index[id]
	s.mux.RUnlock()

	if !ok {
		return os.ErrNotExist
	}
	if len(p) == 0 {
		return nil // read nothing -> return nothing
	}

	// ranged download
	get := s.google.Files.Get(f.DriveId)
	get.Header().Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+uint64(len(p))-1))

	resp, err := get.Download()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// all-or-nothing (a short response is an error)
	_, err = io.ReadFull(resp.Body, p)
	return err
}
