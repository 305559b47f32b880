package engines

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

// fakeBackend writes an executable shell script into a temp dir. The
// script records its arguments, one per line, in the returned args file.
func fakeBackend(t *testing.T, body string) (script, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake backends are POSIX shell scripts")
	}
	dir := t.TempDir()
	script = filepath.Join(dir, "backend")
	argsFile = filepath.Join(dir, "args")

	content := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n" + body + "\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))
	return script, argsFile
}

func readArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// argAfter returns the argument following flag, or "".
func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func wavInfo(t *testing.T, data []byte) (sampleRate, channels int) {
	t.Helper()
	d := wav.NewDecoder(bytes.NewReader(data))
	d.ReadInfo()
	require.NoError(t, d.Err())
	require.True(t, d.IsValidFile(), "not a valid wav file")
	return int(d.SampleRate), int(d.NumChans)
}

// writeOutPath is a shell snippet that runs producer with its stdout
// redirected into the file named after flag.
func writeOutPath(flag, producer string) string {
	return `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "` + flag + `" ]; then out="$2"; fi
  shift
done
` + producer + ` > "$out"`
}

// setHome points HOME at a fresh temp dir and drops the cached home
// directory on both ends of the test.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)
	return home
}
