package codec

import (
	"bytes"
	"encoding/base64"
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Ensure the fields are packed in their fixed order with big-endian widths.
func TestPackLayout(t *testing.T) {
	s := &StringSession{
		DCID:          2,
		ServerAddress: "149.154.167.51",
		Port:          443,
		AuthKey:       make([]byte, 32),
	}
	b, err := s.Pack()
	require.NoError(t, err)

	expected := []byte{0x02, 0x00, 0x0e}
	expected = append(expected, "149.154.167.51"...)
	expected = append(expected, 0x01, 0xbb)
	expected = append(expected, make([]byte, 32)...)
	require.Equal(t, expected, b)
}

func TestEncodeSession(t *testing.T) {
	tests := []struct {
		name    string
		authKey []byte
		address string
		port    int
		dcID    int
		want    string
	}{
		{
			name:    "zero auth key",
			authKey: make([]byte, 32),
			address: "149.154.167.51",
			port:    443,
			dcID:    2,
			want:    "1AgAOMTQ5LjE1NC4xNjcuNTEBuwAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		},
		{
			name:    "short auth key",
			authKey: []byte{1, 2, 3, 4},
			address: "149.154.167.91",
			port:    443,
			dcID:    4,
			want:    "1BAAOMTQ5LjE1NC4xNjcuOTEBuwECAwQ=",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeSession(tc.authKey, tc.address, tc.port, tc.dcID)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.True(t, strings.HasPrefix(got, CurrentVersion))
		})
	}
}

// Ensure encoding the same inputs twice yields identical output.
func TestEncodeSessionDeterministic(t *testing.T) {
	key := bytes.Repeat([]byte{0xab}, 256)
	a, err := EncodeSession(key, "2001:b28:f23d:f001::a", 443, 1)
	require.NoError(t, err)
	b, err := EncodeSession(key, "2001:b28:f23d:f001::a", 443, 1)
	require.NoError(t, err)
	require.Equal(t, a, b)

	packed, err := base64.StdEncoding.DecodeString(a[len(CurrentVersion):])
	require.NoError(t, err)
	require.Len(t, packed, 1+2+len("2001:b28:f23d:f001::a")+2+256)
	require.Equal(t, key, packed[len(packed)-256:])
}

// Ensure boundary values are accepted and packed without wrapping.
func TestEncodeSessionBoundaries(t *testing.T) {
	s := &StringSession{DCID: math.MaxUint8, Port: math.MaxUint16}
	b, err := s.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0x00, 0x00, 0xff, 0xff}, b)

	s = &StringSession{ServerAddress: strings.Repeat("a", math.MaxUint16)}
	b, err = s.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xff}, b[1:3])
}

// Ensure out-of-range values fail instead of being silently truncated.
func TestEncodeSessionRange(t *testing.T) {
	tests := []struct {
		name    string
		address string
		port    int
		dcID    int
	}{
		{"negative dc", "a", 443, -1},
		{"dc too large", "a", 443, 256},
		{"negative port", "a", -1, 2},
		{"port too large", "a", 65536, 2},
		{"address too long", strings.Repeat("a", math.MaxUint16+1), 443, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeSession(nil, tc.address, tc.port, tc.dcID)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrRange))
			require.Empty(t, got)
		})
	}
}

// Ensure the length pass and the byte pass agree.
func TestLenEncoderMatchesByteEncoder(t *testing.T) {
	s := &StringSession{DCID: 5, ServerAddress: "91.108.56.130", Port: 80, AuthKey: []byte("key")}
	lenEnc := new(lenEncoder)
	require.NoError(t, s.Encode(lenEnc))

	b, err := s.Pack()
	require.NoError(t, err)
	require.Equal(t, lenEnc.Length, len(b))
}
