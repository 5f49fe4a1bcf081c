// Package sessiontest builds WTelegram session containers for tests. It
// implements the producing side of the format independently of the reader so
// the reader is never checked against its own inverse.
package sessiontest

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/tink/go/subtle/random"
)

// Key is a fixed 16-byte secret used by tests that don't care about the
// key value.
var Key = []byte{
	0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
}

// KeyHex returns Key hex-encoded, the way it is passed on the command line.
func KeyHex() string {
	return hex.EncodeToString(Key)
}

// Options control how a container is laid out.
type Options struct {
	// IV overrides the random initialization vector.
	IV []byte
	// Gap is the number of filler bytes between the header and the data
	// region, so position is not always 8.
	Gap int
	// Trailer is the number of filler bytes after the data region.
	Trailer int
}

// Seal returns the data region for text: IV followed by the AES-128-CBC
// encryption of sha256(text) ‖ text with PKCS#7 padding.
func Seal(key, iv, text []byte) []byte {
	block, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}
	digest := sha256.Sum256(text)
	plaintext := append(digest[:], text...)
	n := aes.BlockSize - len(plaintext)%aes.BlockSize
	plaintext = append(plaintext, bytes.Repeat([]byte{byte(n)}, n)...)

	region := make([]byte, len(iv)+len(plaintext))
	copy(region, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(region[len(iv):], plaintext)
	return region
}

// Container returns a complete container holding region.
func Container(region []byte, opts Options) []byte {
	position := 8 + opts.Gap
	b := make([]byte, position, position+len(region)+opts.Trailer)
	binary.LittleEndian.PutUint32(b[0:4], uint32(position))
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(region)))
	copy(b[8:], random.GetRandomBytes(uint32(opts.Gap)))
	b = append(b, region...)
	return append(b, random.GetRandomBytes(uint32(opts.Trailer))...)
}

// Build seals text under key and returns the container bytes.
func Build(key []byte, text string, opts Options) []byte {
	iv := opts.IV
	if iv == nil {
		iv = random.GetRandomBytes(aes.BlockSize)
	}
	return Container(Seal(key, iv, []byte(text)), opts)
}

// WriteFile writes data into a new file in a temporary directory owned by t
// and returns its path.
func WriteFile(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "WTelegram.session")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write session file: %v", err)
	}
	return path
}

// WriteSession seals text under Key and writes it to a temporary file.
func WriteSession(t testing.TB, text string) string {
	t.Helper()
	return WriteFile(t, Build(Key, text, Options{Gap: 5, Trailer: 3}))
}

// Record is a minimal WTelegram session record with a single DC session.
const Record = `{
  "ApiId": 12345,
  "UserId": 777000,
  "MainDC": 2,
  "DCSessions": {
    "2": {
      "Id": 5012300400223,
      "AuthKeyID": 1234567890,
      "AuthKey": "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
      "UserId": 777000,
      "Salt": 0,
      "DataCenter": {
        "flags": 0,
        "id": 2,
        "ip_address": "149.154.167.51",
        "port": 443
      }
    },
    "4": {
      "AuthKey": "AQIDBA==",
      "DataCenter": {
        "id": 4,
        "ip_address": "149.154.167.91",
        "port": 443
      }
    }
  }
}`
