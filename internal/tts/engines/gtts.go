package engines

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

// gttsMaxChunk is the longest text the translate endpoint accepts per request.
const gttsMaxChunk = 100

const gttsUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// GTTS synthesizes speech with the Google Translate TTS endpoint.
// Text is split into short chunks that are requested one after another,
// and the MP3 responses are concatenated.
type GTTS struct {
	baseURL string
	client  *http.Client

	// Rate limiting to avoid being blocked by Google
	limiter *rate.Limiter
}

// NewGTTS creates the Google Translate adapter.
func NewGTTS(cfg config.GTTSConfig) *GTTS {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &GTTS{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (e *GTTS) ID() tts.EngineID { return tts.EngineGTTS }

func (e *GTTS) Descriptor() tts.EngineDescriptor {
	return tts.EngineDescriptor{
		ID:                tts.EngineGTTS,
		NativeOutput:      tts.BufferOnly,
		DefaultExtension:  "mp3",
		DefaultSampleRate: 24000,
		Remote:            true,
	}
}

// Probe checks the endpoint URL. Reachability is not probed; an offline
// machine fails at synthesis time.
func (e *GTTS) Probe(context.Context) error {
	u, err := url.Parse(e.baseURL)
	if err == nil && ((u.Scheme != "http" && u.Scheme != "https") || u.Host == "") {
		err = errors.New("scheme must be http or https with a host")
	}
	if err != nil {
		return tts.NotAvailable(tts.EngineGTTS, BuildGTTSGuidance(e.baseURL, err))
	}
	return nil
}

// Synthesize returns MP3 audio for text. Rate and Volume have no
// counterpart in the endpoint; Slow selects the slow voice.
func (e *GTTS) Synthesize(ctx context.Context, text string, cfg tts.SynthesisConfig) ([]byte, error) {
	chunks := splitText(text, gttsMaxChunk)

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, tts.GenerationFailed(tts.EngineGTTS, fmt.Errorf("rate limit wait cancelled: %w", err))
		}

		start := time.Now()
		n, err := e.fetchChunk(ctx, &audio, chunk, i, len(chunks), cfg)
		if err != nil {
			return nil, tts.GenerationFailed(tts.EngineGTTS, err).WithContext("chunk", i)
		}
		log.Debug("Fetched gtts chunk", "chunk", i+1, "of", len(chunks), "bytes", n, "duration", time.Since(start))
	}
	return audio.Bytes(), nil
}

func (e *GTTS) fetchChunk(ctx context.Context, w io.Writer, chunk string, idx, total int, cfg tts.SynthesisConfig) (int64, error) {
	speed := "1"
	if cfg.Slow {
		speed = "0.3"
	}
	q := url.Values{
		"ie":       {"UTF-8"},
		"client":   {"tw-ob"},
		"q":        {chunk},
		"tl":       {cfg.Language},
		"ttsspeed": {speed},
		"total":    {strconv.Itoa(total)},
		"idx":      {strconv.Itoa(idx)},
		"textlen":  {strconv.Itoa(utf8.RuneCountInString(chunk))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", gttsUserAgent)
	req.Header.Set("Referer", e.baseURL+"/")

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return io.Copy(w, resp.Body)
}

// splitText breaks text into sentences, then packs each sentence's words
// greedily into chunks of at most max runes. Words longer than max are
// cut.
func splitText(text string, max int) []string {
	var chunks []string
	for _, sentence := range tts.SplitSentences(text) {
		chunks = append(chunks, packWords(sentence, max)...)
	}
	return chunks
}

func packWords(sentence string, max int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(sentence) {
		for utf8.RuneCountInString(word) > max {
			flush()
			r := []rune(word)
			chunks = append(chunks, string(r[:max]))
			word = string(r[max:])
		}

		n := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+n > max {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += n
	}
	flush()
	return chunks
}

var _ tts.Engine = (*GTTS)(nil)
