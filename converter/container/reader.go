// Package container reads WTelegram session files. A file starts with an
// 8-byte little-endian header locating an encrypted data region:
//
//	offset    size        field
//	0         4           position (u32 LE)
//	4         4           length   (u32 LE)
//	position  16          IV
//	position+16 length-16 AES-128-CBC ciphertext
package container

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/sessionport/sessionport/converter/encryption"
)

const (
	positionWidth = 4
	lengthWidth   = 4
	headerWidth   = positionWidth + lengthWidth

	remediationHint = "Use the correct secret key, or delete the file to start a new session"
)

// encoding is the byte order of the container header.
var encoding = binary.LittleEndian

var (
	// ErrIO is returned when the session file cannot be opened or read.
	ErrIO = errors.New("session file i/o error")

	// ErrFormat is returned when the container structure is invalid.
	ErrFormat = errors.New("invalid session file format")
)

// Header locates the data region inside the container.
type Header struct {
	Position uint32
	Length   uint32
}

// Payload is the verified content of a session container.
type Payload struct {
	Header   Header
	FileSize int64
	// Text is the decrypted session record. It is empty for an empty file.
	Text string
}

// ReadError wraps every failure of ReadFile and adds a remediation hint to
// the message.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("Exception while reading session file %s: %v\n%s", e.Path, e.Err, remediationHint)
}

// Cause returns the underlying error.
func (e *ReadError) Cause() error { return e.Err }

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error { return e.Err }

// ReadFile decrypts and verifies the session container at path using the
// hex-encoded secret key. A zero-length file yields an empty Payload and no
// error.
func ReadFile(path, secretKeyHex string) (*Payload, error) {
	payload, err := readFile(path, secretKeyHex)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return payload, nil
}

func readFile(path, secretKeyHex string) (*Payload, error) {
	key, err := hex.DecodeString(secretKeyHex)
	if err != nil {
		return nil, errors.Wrap(encryption.ErrInvalidKey, err.Error())
	}
	handler, err := encryption.NewHandler(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "open file failed: %v", err)
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "stat file failed: %v", err)
	}
	payload := &Payload{FileSize: fi.Size()}
	if payload.FileSize == 0 {
		return payload, nil
	}

	payload.Header, err = readHeader(file)
	if err != nil {
		return nil, err
	}
	region, err := readRegion(file, payload.Header, payload.FileSize)
	if err != nil {
		return nil, err
	}
	text, err := handler.Open(region)
	if err != nil {
		if errors.Is(err, encryption.ErrMalformed) {
			return nil, errors.Wrap(ErrFormat, err.Error())
		}
		return nil, err
	}
	payload.Text = string(text)
	return payload, nil
}

func readHeader(r io.ReaderAt) (Header, error) {
	var b [headerWidth]byte
	n, err := r.ReadAt(b[:], 0)
	if n != headerWidth {
		if err != nil && err != io.EOF {
			return Header{}, errors.Wrapf(ErrIO, "read header failed: %v", err)
		}
		return Header{}, errors.Wrap(ErrFormat, "can't read session header")
	}
	return Header{
		Position: encoding.Uint32(b[:positionWidth]),
		Length:   encoding.Uint32(b[positionWidth:]),
	}, nil
}

func readRegion(r io.ReaderAt, h Header, size int64) ([]byte, error) {
	if int64(h.Position)+int64(h.Length) > size {
		return nil, errors.Wrapf(ErrFormat,
			"position (%d) + length (%d) exceeds file size (%d)", h.Position, h.Length, size)
	}
	if h.Length < encryption.IVLength {
		return nil, errors.Wrapf(ErrFormat, "session block length %d is shorter than the IV", h.Length)
	}
	region := make([]byte, h.Length)
	n, err := r.ReadAt(region, int64(h.Position))
	if n != len(region) {
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(ErrIO, "read session block failed: %v", err)
		}
		return nil, errors.Wrapf(ErrFormat, "can't read session block (%d, %d)", h.Position, h.Length)
	}
	return region, nil
}
