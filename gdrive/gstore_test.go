package gdrive_test

import (
	"bytes"
	"errors"
	"os"
	"path"
	"testing"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	"github.com/SchnorcherSepp/stakehist/gdrive"
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// initGStore returns a drive backed WriteStore or skips the test when the
// secret files are absent.
func initGStore(t *testing.T, readonly bool) interf.WriteStore {
	if _, err := os.Stat(testClientCredFile); err != nil {
		t.Skipf("skip: no secret files (%s)", testClientCredFile)
	}

	tokenFile := testTokenFileWrite
	if readonly {
		tokenFile = testTokenFileRead
	}

	oauth, err := gdrive.OAuth(testClientCredFile, tokenFile, readonly)
	if err != nil {
		t.Fatal(err)
	}

	indexCacheFile := path.Join(os.TempDir(), "testGStoreIndexCache.dat")
	return gdrive.NewGStore("root", indexCacheFile, oauth, impl.DebugOff)
}

func TestGStore_Publish_ReadAt(t *testing.T) {
	ws := initGStore(t, false)
	defer func() { _ = ws.Close() }()

	// publish the demo snapshots
	if err := impl.InitDemo(ws); err != nil {
		t.Fatal(err)
	}

	// full lookup pipeline against drive
	hist, err := impl.NewAccessor(impl.DemoCurrentEpoch, ws, nil, impl.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	e, err := hist.GetEntry(599)
	if err != nil {
		t.Fatal(err)
	}
	if *e != impl.DemoEntry(599) {
		t.Errorf("wrong entry: %+v", e)
	}

	// aged out
	if _, err := hist.GetEntry(87); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
}

func TestGStore_ReadAt_Raw(t *testing.T) {
	ws := initGStore(t, false)
	defer func() { _ = ws.Close() }()

	if err := impl.InitDemo(ws); err != nil {
		t.Fatal(err)
	}

	// read one raw record and compare with the encoder
	off, ok := impl.RecordOffset(impl.DemoCurrentEpoch, 598)
	if !ok {
		t.Fatal("no offset")
	}
	buf := make([]byte, interf.RecordSize)
	if err := ws.ReadAt(buf, interf.StakeHistoryID, off); err != nil {
		t.Fatal(err)
	}
	want := impl.EncodeRecord(598, impl.DemoEntry(598))
	if !bytes.Equal(buf, want) {
		t.Errorf("wrong raw record:\n got %x\nwant %x", buf, want)
	}

	// unknown id
	if err := ws.ReadAt(buf, "no-such-snapshot", 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v", err)
	}
}
