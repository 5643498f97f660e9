package gdrive

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// _IndexCache stores the last valid snapshot index.
// Loading the last state allows reads while a new index is built.
// The CacheSig binds the cache to the parent folder and the drive user.
type _IndexCache struct {
	Index    map[string]_SnapFile
	CacheSig string
}

//--------------------------------------------------------------------------------------------------------------------//

// cacheSave saves the snapshot index to the indexcache file.
// The caller must hold the lock of s.
func cacheSave(s *_GStore) error {

	// calc cache sig
	sig, err := cacheSig(s) // connection to the google server
	if err != nil {
		return err
	}

	// create _IndexCache
	indexCache := _IndexCache{
		Index:    s.index,
		CacheSig: sig,
	}

	// create new indexcache file
	fh, err := os.OpenFile(s.cacheFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer fh.Close()

	// write data (serialize indexcache)
	if err := gob.NewEncoder(fh).Encode(indexCache); err != nil {
		return err
	}

	// success
	return nil
}

// cacheLoad loads the last valid snapshot index from the indexcache file.
// The caller must hold the lock of s.
func cacheLoad(s *_GStore) error {

	// exists indexcache file?
	if _, err := os.Stat(s.cacheFile); err != nil {
		return err
	}

	// open indexcache file
	fh, err := os.Open(s.cacheFile)
	if err != nil {
		return err
	}
	defer fh.Close()

	// load indexcache object
	indexCache := new(_IndexCache)
	if err := gob.NewDecoder(fh).Decode(&indexCache); err != nil {
		return err
	}

	// check indexcache signature
	sig, err := cacheSig(s)
	if err != nil {
		return err
	}
	if indexCache.CacheSig != sig {
		return errors.New("wrong indexcache signature")
	}

	// set indexcache data
	if indexCache.Index != nil {
		s.index = indexCache.Index
	}

	return nil
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

// cacheSig binds the indexcache to the oauth file and the parent folder.
// Any change to the cacheSig invalidates the indexcache.
// This function needs an active connection to the google server.
func cacheSig(s *_GStore) (string, error) {
	const errorSig = "ERROR-SIG"

	// get PermissionId: The user's ID as visible in Permission resources (oauth file).
	about, err := s.google.About.Get().Fields("user(permissionId)").Do()
	if err != nil {
		return errorSig, err
	}
	permId := about.User.PermissionId

	// check PermissionId
	if len(permId) < 3 {
		return errorSig, errors.New("invalid user permissionId")
	}

	// calc sig
	h := md5.New()
	h.Write([]byte(s.parent)) // parent folder (example 'root')
	h.Write([]byte("|"))
	h.Write([]byte(permId)) // permId (= google user)

	return fmt.Sprintf("%x", h.Sum(nil)), nil // return cacheSig
}
