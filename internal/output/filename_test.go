package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFilename(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "20250102_030405.wav", GenerateFilename("", "wav", at))
	assert.Equal(t, "news_20250102_030405.mp3", GenerateFilename("news", ".mp3", at))
}

func TestResolvePath(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	base := t.TempDir()
	existing := filepath.Join(base, "existing")
	require.NoError(t, os.Mkdir(existing, 0o755))

	tests := []struct {
		name   string
		target string
		dir    string
		want   string
	}{
		{
			name: "empty target uses audio dir",
			dir:  filepath.Join(base, "audio"),
			want: filepath.Join(base, "audio", "p_20250102_030405.wav"),
		},
		{
			name:   "trailing separator",
			target: filepath.Join(base, "new") + string(filepath.Separator),
			want:   filepath.Join(base, "new", "p_20250102_030405.wav"),
		},
		{
			name:   "existing directory",
			target: existing,
			want:   filepath.Join(existing, "p_20250102_030405.wav"),
		},
		{
			name:   "verbatim file with parents",
			target: filepath.Join(base, "deep", "er", "out.wav"),
			want:   filepath.Join(base, "deep", "er", "out.wav"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.target, tt.dir, "p", "wav", at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.DirExists(t, filepath.Dir(got))
		})
	}
}

func TestResolvePath_EmptyEverything(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got, err := ResolvePath("", "", "", "mp3", at)
	require.NoError(t, err)
	assert.Equal(t, "20250102_030405.mp3", got)
}
