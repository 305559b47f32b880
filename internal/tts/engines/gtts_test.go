package engines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

type gttsRecorder struct {
	mu      sync.Mutex
	queries []map[string]string
}

func (r *gttsRecorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/translate_tts" {
			http.NotFound(w, req)
			return
		}
		q := req.URL.Query()
		r.mu.Lock()
		r.queries = append(r.queries, map[string]string{
			"q":        q.Get("q"),
			"tl":       q.Get("tl"),
			"ttsspeed": q.Get("ttsspeed"),
			"idx":      q.Get("idx"),
			"total":    q.Get("total"),
		})
		r.mu.Unlock()

		if status != http.StatusOK {
			http.Error(w, "quota exceeded", status)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3<" + q.Get("idx") + ">"))
	}
}

func newTestGTTS(url string) *GTTS {
	return NewGTTS(config.GTTSConfig{
		BaseURL:           url,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
	})
}

func TestGTTS_Synthesize(t *testing.T) {
	rec := &gttsRecorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	e := newTestGTTS(srv.URL)
	audio, err := e.Synthesize(context.Background(), "Hello world. How are you?", tts.SynthesisConfig{Language: "en"})
	require.NoError(t, err)

	assert.Equal(t, "ID3<0>ID3<1>", string(audio))
	require.Len(t, rec.queries, 2)
	assert.Equal(t, "Hello world.", rec.queries[0]["q"])
	assert.Equal(t, "How are you?", rec.queries[1]["q"])
	assert.Equal(t, "en", rec.queries[0]["tl"])
	assert.Equal(t, "1", rec.queries[0]["ttsspeed"])
	assert.Equal(t, "2", rec.queries[1]["total"])
}

func TestGTTS_Slow(t *testing.T) {
	rec := &gttsRecorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	_, err := newTestGTTS(srv.URL).Synthesize(context.Background(), "hola", tts.SynthesisConfig{Language: "es", Slow: true})
	require.NoError(t, err)
	require.Len(t, rec.queries, 1)
	assert.Equal(t, "0.3", rec.queries[0]["ttsspeed"])
	assert.Equal(t, "es", rec.queries[0]["tl"])
}

func TestGTTS_HTTPErrorIsGenerationFailure(t *testing.T) {
	srv := httptest.NewServer((&gttsRecorder{}).handler(http.StatusTooManyRequests))
	defer srv.Close()

	_, err := newTestGTTS(srv.URL).Synthesize(context.Background(), "hello", tts.SynthesisConfig{Language: "en"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tts.ErrGenerationFailed))
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGTTS_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestGTTS(url).Synthesize(context.Background(), "hello", tts.SynthesisConfig{Language: "en"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tts.ErrGenerationFailed))
}

func TestGTTS_CancelledContext(t *testing.T) {
	srv := httptest.NewServer((&gttsRecorder{}).handler(http.StatusOK))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestGTTS(srv.URL).Synthesize(ctx, "hello", tts.SynthesisConfig{Language: "en"})
	assert.Error(t, err)
}

func TestGTTS_Probe(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://translate.google.com", false},
		{"http://127.0.0.1:8080", false},
		{"ftp://example.com", true},
		{"not a url", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := newTestGTTS(tt.url).Probe(context.Background())
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tts.ErrEngineNotAvailable))
			var te *tts.TTSError
			require.True(t, errors.As(err, &te))
			assert.Contains(t, te.Guidance, "gtts.base_url")
		})
	}
}

func TestGTTS_Descriptor(t *testing.T) {
	d := newTestGTTS("https://translate.google.com").Descriptor()
	assert.Equal(t, tts.EngineGTTS, d.ID)
	assert.Equal(t, tts.BufferOnly, d.NativeOutput)
	assert.Equal(t, tts.FormatMP3, d.Format())
	assert.True(t, d.Remote)
	assert.False(t, d.RequiresFileRoundTrip)
}

func TestSplitText(t *testing.T) {
	long := strings.Repeat("a", 250)

	tests := []struct {
		name string
		in   string
		max  int
		want []string
	}{
		{"short", "hello there", 100, []string{"hello there"}},
		{"sentences", "One. Two! Three?", 100, []string{"One.", "Two!", "Three?"}},
		{"titles stay in their sentence", "Dr. Who is here. Bye", 100, []string{"Dr. Who is here.", "Bye"}},
		{"word boundary", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"long word is cut", long, 100, []string{long[:100], long[100:200], long[200:]}},
		{"whitespace only", "  \n\t ", 100, nil},
		{"runes not bytes", "привет мир", 6, []string{"привет", "мир"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitText(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			for _, c := range got {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), tt.max)
			}
		})
	}
}
