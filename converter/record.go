package converter

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/sessionport/sessionport/converter/codec"
)

// Record is the part of a WTelegram session record needed for conversion.
// Fields the converter doesn't use are ignored when decoding.
type Record struct {
	MainDC     int                `json:"MainDC"`
	DCSessions map[int]*DCSession `json:"DCSessions"`
}

// DCSession is the per data-center entry of a Record.
type DCSession struct {
	AuthKey    []byte      `json:"AuthKey"`
	DataCenter *DataCenter `json:"DataCenter"`
}

// DataCenter describes the endpoint an auth key belongs to. Pointers tell an
// absent field apart from a zero value.
type DataCenter struct {
	ID        *int    `json:"id"`
	IPAddress *string `json:"ip_address"`
	Port      *int    `json:"port"`
}

// ParseRecord decodes the decrypted session text.
func ParseRecord(text string) (*Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrap(ErrParse, "session record is empty")
	}
	record := new(Record)
	if err := json.Unmarshal([]byte(text), record); err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	return record, nil
}

// Extract returns the session for the given DC id. A dcID of 0 selects
// MainDC. It never falls back to another DC.
func (r *Record) Extract(dcID int) (*codec.StringSession, error) {
	if dcID == 0 {
		dcID = r.MainDC
	}
	session, ok := r.DCSessions[dcID]
	if !ok || session == nil {
		return nil, errors.Wrapf(ErrMissingField, "DC session not found for DC %d", dcID)
	}
	missing := func(field string) error {
		return errors.Wrapf(ErrMissingField, "DC session %d has no %s", dcID, field)
	}
	if len(session.AuthKey) == 0 {
		return nil, missing("AuthKey")
	}
	dc := session.DataCenter
	if dc == nil {
		return nil, missing("DataCenter")
	}
	if dc.IPAddress == nil || *dc.IPAddress == "" {
		return nil, missing("DataCenter.ip_address")
	}
	if dc.Port == nil {
		return nil, missing("DataCenter.port")
	}
	if dc.ID == nil {
		return nil, missing("DataCenter.id")
	}
	return &codec.StringSession{
		DCID:          *dc.ID,
		ServerAddress: *dc.IPAddress,
		Port:          *dc.Port,
		AuthKey:       session.AuthKey,
	}, nil
}
