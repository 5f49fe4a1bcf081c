// Package encryption opens the encrypted data region of a WTelegram session
// container: AES-128-CBC with PKCS#7 padding, followed by a SHA-256 digest
// check over the decrypted payload.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"

	tinksubtle "github.com/google/tink/go/subtle"
	"github.com/pkg/errors"
)

const (
	// KeyLength is the size in bytes of the secret key. Only AES-128 is used
	// by the container format.
	KeyLength = 16

	// IVLength is the size of the initialization vector stored in front of
	// the ciphertext.
	IVLength = aes.BlockSize

	// DigestLength is the size of the SHA-256 digest stored in front of the
	// decrypted payload text.
	DigestLength = 32

	digestHash = "SHA256"
)

var (
	// ErrInvalidKey is returned when the secret key does not have KeyLength
	// bytes.
	ErrInvalidKey = errors.New("invalid secret key")

	// ErrIntegrity is returned when the decrypted payload does not match its
	// stored digest. A wrong key and a corrupted file look the same here.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrMalformed is returned when the data region cannot hold an IV and a
	// whole number of cipher blocks.
	ErrMalformed = errors.New("malformed encrypted region")
)

// Handler decrypts and verifies data regions with a single secret key.
type Handler struct {
	block cipher.Block
}

// NewHandler creates a Handler for the given secret key.
func NewHandler(key []byte) (*Handler, error) {
	if len(key) != KeyLength {
		return nil, errors.Wrapf(ErrInvalidKey, "key is %d bytes, expected %d", len(key), KeyLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return &Handler{block: block}, nil
}

// Open splits region into IV and ciphertext, decrypts it, removes the padding,
// and verifies the leading digest. It returns the payload text that follows
// the digest.
func (h *Handler) Open(region []byte) ([]byte, error) {
	if len(region) < IVLength {
		return nil, errors.Wrapf(ErrMalformed, "region is %d bytes, shorter than the IV", len(region))
	}
	iv := region[:IVLength]
	ciphertext := region[IVLength:]

	plaintext, err := h.decrypt(iv, ciphertext)
	if err != nil {
		return nil, err
	}
	return verifyDigest(plaintext)
}

func (h *Handler) decrypt(iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.Wrapf(ErrMalformed,
			"ciphertext length %d is not a positive multiple of the block size", len(ciphertext))
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(h.block, iv).CryptBlocks(plaintext, ciphertext)
	return unpad(plaintext)
}

// unpad strips PKCS#7 padding. Bad padding is an integrity failure.
func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.Wrap(ErrIntegrity, "bad decrypt")
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errors.Wrap(ErrIntegrity, "bad decrypt")
	}
	return b[:len(b)-n], nil
}

func verifyDigest(plaintext []byte) ([]byte, error) {
	if len(plaintext) < DigestLength {
		return nil, errors.Wrapf(ErrIntegrity, "payload is %d bytes, shorter than the digest", len(plaintext))
	}
	stored := plaintext[:DigestLength]
	text := plaintext[DigestLength:]

	h := tinksubtle.GetHashFunc(digestHash)()
	h.Write(text)
	if subtle.ConstantTimeCompare(stored, h.Sum(nil)) != 1 {
		return nil, errors.Wrap(ErrIntegrity, "digest mismatch")
	}
	return text, nil
}
