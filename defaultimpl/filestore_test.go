package impl_test

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"testing"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// initTestFileStore returns a FileStore in a fresh temp dir.
func initTestFileStore(t *testing.T) interf.WriteStore {
	dir, err := ioutil.TempDir("", "stakehist-filestore-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	ws, err := impl.NewFileStore(dir, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestNewFileStore(t *testing.T) {
	// invalid dir
	if _, err := impl.NewFileStore("", impl.DebugOff); err == nil {
		t.Fatal("no error for empty dir")
	}

	// missing dirs are created
	ws := initTestFileStore(t)
	defer func() { _ = ws.Close() }()
}

func TestFileStore(t *testing.T) {
	ws := initTestFileStore(t)
	defer func() { _ = ws.Close() }()

	// unknown resource
	buf := make([]byte, 4)
	if err := ws.ReadAt(buf, "snap", 0); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}

	// invalid ids (must not escape the store dir)
	for _, id := range []string{"", ".", "..", ".hidden", "a/b", "../escape"} {
		if err := ws.Publish(id, []byte("data")); err == nil {
			t.Fatalf("no error for id '%s'", id)
		}
	}

	// publish + read
	if err := ws.Publish("snap", []byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if err := ws.ReadAt(buf, "snap", 2); err != nil || !bytes.Equal(buf, []byte("2345")) {
		t.Fatalf("buf=%s, err=%v", buf, err)
	}

	// offset past the end / partial range
	if err := ws.ReadAt(buf, "snap", 10); err != io.EOF {
		t.Fatalf("err=%v", err)
	}
	if err := ws.ReadAt(buf, "snap", 8); err != io.ErrUnexpectedEOF {
		t.Fatalf("err=%v", err)
	}

	// replace: the rename is atomic, the new version is served
	if err := ws.Publish("snap", []byte("ABCDEFGHIJ")); err != nil {
		t.Fatal(err)
	}
	if err := ws.ReadAt(buf, "snap", 0); err != nil || !bytes.Equal(buf, []byte("ABCD")) {
		t.Fatalf("buf=%s, err=%v", buf, err)
	}

	// Update() drops the handles, reads still work afterwards
	if err := ws.Update(); err != nil {
		t.Fatal(err)
	}
	if err := ws.ReadAt(buf, "snap", 6); err != nil || !bytes.Equal(buf, []byte("GHIJ")) {
		t.Fatalf("buf=%s, err=%v", buf, err)
	}
}

func TestFileStore_lookup(t *testing.T) {
	ws := initTestFileStore(t)
	defer func() { _ = ws.Close() }()

	// the full pipeline against files on disk
	if err := impl.InitDemo(ws); err != nil {
		t.Fatal(err)
	}
	hist, err := impl.NewAccessor(impl.DemoCurrentEpoch, ws, nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	e, err := hist.GetEntry(599)
	if err != nil || *e != impl.DemoEntry(599) {
		t.Fatalf("e=%+v, err=%v", e, err)
	}
	if _, err := hist.GetEntry(87); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}
}
