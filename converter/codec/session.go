// Package codec packs a data-center session into the portable GramJS string
// session format:
//
//	"1" + base64(dcId:1 ‖ addrLen:2 BE ‖ addr ‖ port:2 BE ‖ authKey)
package codec

import (
	"encoding/base64"
)

// CurrentVersion is the format marker prepended to every session string.
const CurrentVersion = "1"

// StringSession holds the fields of a portable session string.
type StringSession struct {
	DCID          int
	ServerAddress string
	Port          int
	AuthKey       []byte
}

// Encode writes the session fields in their fixed order.
func (s *StringSession) Encode(e packetEncoder) error {
	if err := e.PutUint8(s.DCID); err != nil {
		return err
	}
	if err := e.PutString(s.ServerAddress); err != nil {
		return err
	}
	if err := e.PutUint16(s.Port); err != nil {
		return err
	}
	return e.PutRawBytes(s.AuthKey)
}

// Pack returns the packed session bytes without the version marker or base64
// encoding.
func (s *StringSession) Pack() ([]byte, error) {
	return encode(s)
}

// Save returns the session string. Out-of-range fields fail with ErrRange
// instead of being truncated.
func (s *StringSession) Save() (string, error) {
	b, err := s.Pack()
	if err != nil {
		return "", err
	}
	return CurrentVersion + base64.StdEncoding.EncodeToString(b), nil
}

// EncodeSession packs the given fields into a session string.
func EncodeSession(authKey []byte, serverAddress string, port, dcID int) (string, error) {
	s := &StringSession{
		DCID:          dcID,
		ServerAddress: serverAddress,
		Port:          port,
		AuthKey:       authKey,
	}
	return s.Save()
}
