package utils

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lukechampine.com/blake3"
)

func TestBlake3Hash(t *testing.T) {
	t.Parallel()

	msg := []byte(strings.Repeat("secp_key,name\r\n", 1024))
	want := blake3.Sum256(msg)

	if got := Blake3Hash(msg); !bytes.Equal(got, want[:]) {
		t.Fatalf("hash mismatch")
	}
}

func TestBlake3HashFile(t *testing.T) {
	t.Parallel()

	// larger than one read chunk so the loop runs more than once
	msg := bytes.Repeat([]byte("{\"secp\":\"S1\"}\n"), readChunk/8)
	path := filepath.Join(t.TempDir(), "mainnet_validators.json")
	if err := os.WriteFile(path, msg, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := Blake3HashFile(path)
	if err != nil {
		t.Fatalf("Blake3HashFile returned error: %v", err)
	}
	want := blake3.Sum256(msg)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("file hash mismatch")
	}
}

func TestBlake3HashFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := Blake3HashFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGetHashFromBytes(t *testing.T) {
	t.Parallel()

	msg := []byte("{}")
	want := blake3.Sum256(msg)
	got := GetHashFromBytes(msg)
	if got != hex.EncodeToString(want[:]) {
		t.Fatalf("GetHashFromBytes = %s, want %s", got, hex.EncodeToString(want[:]))
	}
	if len(got) != 2*digestSize {
		t.Fatalf("digest length = %d, want %d", len(got), 2*digestSize)
	}
}
