package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Logger interface is used to allow tests to inject custom loggers.
type Logger interface {
	Fatalf(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debug(...interface{})
	Warn(...interface{})
	Info(...interface{})
	Fatal(...interface{})
	Prefix(string)
	Silent(bool)
	Writer() io.Writer
	SetWriter(io.Writer)
}

type logger struct {
	*log.Logger
	prefixFormatter *prefixFormatter
	silencedOut     io.Writer
}

// prefixFormatter prepends a fixed prefix to every message before handing the
// entry to the wrapped formatter.
type prefixFormatter struct {
	prefix string
	log.Formatter
}

func (f *prefixFormatter) Format(entry *log.Entry) ([]byte, error) {
	if f.prefix != "" {
		entry.Message = f.prefix + entry.Message
	}
	return f.Formatter.Format(entry)
}

// NewLogger returns a new Logger instance backed by Logrus. Output goes to
// stderr so stdout stays reserved for the session string.
func NewLogger(level uint32) Logger {
	l := log.New()
	l.SetLevel(log.Level(level))
	l.SetOutput(os.Stderr)
	pf := &prefixFormatter{
		Formatter: &log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
	}
	l.Formatter = pf
	return &logger{Logger: l, prefixFormatter: pf}
}

// Prefix sets a string which is prepended to every log message. An empty
// string clears it.
func (l *logger) Prefix(prefix string) {
	l.prefixFormatter.prefix = prefix
}

// Silent discards all output while enabled. Disabling it without enabling it
// first panics.
func (l *logger) Silent(enable bool) {
	if enable {
		if l.silencedOut == nil {
			l.silencedOut = l.Out
			l.Out = io.Discard
		}
		return
	}
	if l.silencedOut == nil {
		panic("logger: Silent(false) called without Silent(true)")
	}
	l.Out = l.silencedOut
	l.silencedOut = nil
}

func (l *logger) Writer() io.Writer {
	return l.Out
}

func (l *logger) SetWriter(writer io.Writer) {
	l.Out = writer
}
