package engines

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     []string
		wantErr  bool
	}{
		{
			name:     "plain",
			template: "piper",
			want:     []string{"piper"},
		},
		{
			name:     "quoted arguments",
			template: `python3 -m "my tts" --flag 'a b'`,
			want:     []string{"python3", "-m", "my tts", "--flag", "a b"},
		},
		{
			name:     "placeholders stay single arguments",
			template: "silero-tts --model-path {model_path} --speaker {speaker} --rate={sample_rate}",
			vars: map[string]string{
				"model_path":  "/models/with space/v3_en.pt",
				"speaker":     "en_0",
				"sample_rate": "48000",
			},
			want: []string{"silero-tts", "--model-path", "/models/with space/v3_en.pt", "--speaker", "en_0", "--rate=48000"},
		},
		{
			name:     "unknown placeholder left alone",
			template: "tool {other}",
			vars:     map[string]string{"model": "x"},
			want:     []string{"tool", "{other}"},
		},
		{
			name:     "empty",
			template: "   ",
			wantErr:  true,
		},
		{
			name:     "unterminated quote",
			template: `tool "oops`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.template, tt.vars)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping Unix command test on Windows")
	}
	r := NewRunner(5 * time.Second)
	ctx := context.Background()

	t.Run("stdin is delivered", func(t *testing.T) {
		out, err := r.Run(ctx, Command{Args: []string{"cat"}, Stdin: "hello world"})
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(out))
	})

	t.Run("environment is extended", func(t *testing.T) {
		out, err := r.Run(ctx, Command{
			Args: []string{"sh", "-c", "printf %s \"$TTS_HOME\""},
			Env:  []string{"TTS_HOME=/models"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/models", string(out))
	})

	t.Run("stderr is reported", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Args: []string{"sh", "-c", "echo 'model exploded' >&2; exit 3"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "subprocess failed")
		assert.Contains(t, err.Error(), "model exploded")
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Args: []string{"nonexistent_command_xyz"}})
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Args: []string{"sleep", "5"}, Timeout: 50 * time.Millisecond})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "timed out"), err.Error())
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := r.Run(ctx, Command{})
		assert.Error(t, err)
	})
}

func TestNewRunnerDefaultTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewRunner(0).defaultTimeout)
	assert.Equal(t, time.Minute, NewRunner(time.Minute).defaultTimeout)
}
