package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anca-ferro/tts/internal/tts"
)

func TestLanguages(t *testing.T) {
	assert.Nil(t, Languages(tts.EngineGTTS))
	assert.Nil(t, Languages(tts.EngineEspeak))

	silero := Languages(tts.EngineSilero)
	assert.IsIncreasing(t, silero)
	assert.Contains(t, silero, "ru")
	assert.Contains(t, silero, "uk")

	assert.Contains(t, Languages(tts.EngineCoqui), "en")
	assert.Contains(t, Languages(tts.EnginePiper), "en")
}
