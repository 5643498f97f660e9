package gdrive_test

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/SchnorcherSepp/stakehist/gdrive"
)

const testClientCredFile = "../test/secret/client_credentials.json"
const testTokenFileRead = "../test/secret/token_read.json"
const testTokenFileWrite = "../test/secret/token_write.json"

func TestOAuth(t *testing.T) {
	// loadOAuthConf: read file error (not exist?)
	s, e := gdrive.OAuth("", "", false)
	if s != nil || e == nil {
		t.Errorf("s=%v, e=%v", s, e)
	}

	// loadOAuthConf: parsing error (empty file?)
	s, e = gdrive.OAuth(emptyFile(t), "", false)
	if s != nil || e == nil || !strings.Contains(e.Error(), "unexpected end of JSON input") {
		t.Errorf("s=%v, e=%v", s, e)
	}

	// can't test this (user interaction)
	// * loadToken: open error (not exist?)
	// * loadToken: parsing error (empty file?)
	// * reqNewToken: request (new)
	var _ = "nop"
}

func TestOAuth_secret(t *testing.T) {
	if _, err := os.Stat(testClientCredFile); err != nil {
		t.Skipf("skip: no secret files (%s)", testClientCredFile)
	}

	// valid clientCred and valid token (READ)
	s, e := gdrive.OAuth(testClientCredFile, testTokenFileRead, true)
	if e != nil || s == nil {
		t.Errorf("s=%v, e=%v", s, e)
	}

	// valid clientCred and valid token (WRITE)
	s, e = gdrive.OAuth(testClientCredFile, testTokenFileWrite, false)
	if e != nil || s == nil {
		t.Errorf("s=%v, e=%v", s, e)
	}
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

func emptyFile(t *testing.T) string {
	p := path.Join(os.TempDir(), "empty.file")

	fh, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	_ = fh.Close()

	return p
}
