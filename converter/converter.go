// Package converter turns WTelegram session files into GramJS session strings.
package converter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/natefinch/atomic"
	"github.com/nats-io/nuid"
	"github.com/pkg/errors"

	"github.com/sessionport/sessionport/converter/container"
	"github.com/sessionport/sessionport/converter/logger"
)

// Converter runs the read → parse → extract → encode pipeline for one
// session file.
type Converter struct {
	config *Config
	logger logger.Logger
	runID  string
}

// New creates a Converter for the given Config.
func New(config *Config) *Converter {
	c := &Converter{
		config: config,
		logger: logger.NewLogger(config.LogLevel),
		runID:  nuid.Next(),
	}
	c.logger.Prefix(fmt.Sprintf("[%s] ", c.runID))
	return c
}

// SetLogger replaces the Converter's logger.
func (c *Converter) SetLogger(l logger.Logger) {
	c.logger = l
}

// SetLogWriter redirects log output, which defaults to stderr.
func (c *Converter) SetLogWriter(w io.Writer) {
	c.logger.SetWriter(w)
}

// Convert reads the session file at path with the hex-encoded secret key and
// returns the session string for the configured DC.
func (c *Converter) Convert(path, secretKeyHex string) (string, error) {
	start := time.Now()
	c.logger.Debugf("Reading session file %s", path)

	payload, err := container.ReadFile(path, secretKeyHex)
	if err != nil {
		return "", err
	}
	c.logger.Debugf("Decrypted %s session block at offset %d (file size %s)",
		humanize.IBytes(uint64(payload.Header.Length)), payload.Header.Position,
		humanize.IBytes(uint64(payload.FileSize)))

	record, err := ParseRecord(payload.Text)
	if err != nil {
		return "", err
	}
	c.logger.Debugf("Session record has %d DC sessions, main DC is %d",
		len(record.DCSessions), record.MainDC)

	session, err := record.Extract(c.config.DC)
	if err != nil {
		return "", err
	}
	c.logger.Debugf("Exporting DC %d at %s:%d with %d-byte auth key",
		session.DCID, session.ServerAddress, session.Port, len(session.AuthKey))
	if session.DCID != record.MainDC {
		c.logger.Warnf("Exporting DC %d, which is not the main DC %d", session.DCID, record.MainDC)
	}

	str, err := session.Save()
	if err != nil {
		return "", err
	}
	c.logger.Debugf("Converted session in %s", durafmt.Parse(time.Since(start)))
	return str, nil
}

// WriteOutput writes the session string to the configured output file, or to
// w when none is configured. The file is replaced atomically and left
// readable by its owner only.
func (c *Converter) WriteOutput(w io.Writer, sessionStr string) error {
	var b strings.Builder
	if c.config.Output.Label {
		b.WriteString(DefaultLabel)
		b.WriteByte('\n')
	}
	b.WriteString(sessionStr)
	b.WriteByte('\n')

	if c.config.Output.File == "" {
		_, err := io.WriteString(w, b.String())
		return err
	}
	if err := atomic.WriteFile(c.config.Output.File, strings.NewReader(b.String())); err != nil {
		return errors.Wrap(err, "failed to write session string")
	}
	if err := os.Chmod(c.config.Output.File, 0600); err != nil {
		return errors.Wrap(err, "failed to restrict session string file")
	}
	c.logger.Infof("Wrote session string to %s", c.config.Output.File)
	return nil
}
