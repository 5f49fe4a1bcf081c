package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sessionport/sessionport/converter"
	"github.com/sessionport/sessionport/converter/sessiontest"
)

const mainDCSession = "1AgAOMTQ5LjE1NC4xNjcuNTEBuwAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"sessionport"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	path := sessiontest.WriteSession(t, sessiontest.Record)

	code, stdout, stderr := runCLI(path, sessiontest.KeyHex())
	require.Equal(t, 0, code, stderr)
	require.Equal(t, mainDCSession+"\n", stdout)
	require.Empty(t, stderr)
}

func TestRunFlags(t *testing.T) {
	path := sessiontest.WriteSession(t, sessiontest.Record)

	code, stdout, stderr := runCLI("--label", "--dc", "4", path, sessiontest.KeyHex())
	require.Equal(t, 0, code, stderr)
	require.Equal(t, converter.DefaultLabel+"\n1BAAOMTQ5LjE1NC4xNjcuOTEBuwECAwQ=\n", stdout)

	out := filepath.Join(t.TempDir(), "gramjs.session")
	code, stdout, stderr = runCLI("-o", out, "-l", "debug", path, sessiontest.KeyHex())
	require.Equal(t, 0, code, stderr)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "Converted session in")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, mainDCSession+"\n", string(data))
}

// Ensure fewer than two arguments prints usage and fails.
func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"WTelegram.session"}} {
		code, stdout, stderr := runCLI(args...)
		require.Equal(t, 1, code)
		require.Contains(t, stdout, "<sessionFile> <secretKeyHex>")
		require.Contains(t, stdout, "Example:")
		require.NotContains(t, stderr, "Error:")
	}
}

func TestRunErrors(t *testing.T) {
	path := sessiontest.WriteSession(t, sessiontest.Record)

	code, stdout, stderr := runCLI(path, strings.Repeat("0", 32))
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "Error: ")
	require.Contains(t, stderr, "integrity check failed")
	require.Contains(t, stderr, "delete the file to start a new session")

	code, stdout, stderr = runCLI("--dc", "9", path, sessiontest.KeyHex())
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "DC session not found for DC 9")

	code, _, stderr = runCLI("--dc", "-1", path, sessiontest.KeyHex())
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "session.dc")

	code, _, stderr = runCLI("--level", "loud", path, sessiontest.KeyHex())
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "log.level")
}
