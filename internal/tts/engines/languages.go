package engines

import (
	"sort"

	"github.com/anca-ferro/tts/internal/tts"
)

// Languages lists the language codes an engine has a dedicated model or
// voice for. A nil result means the backend accepts any language itself.
func Languages(id tts.EngineID) []string {
	var codes []string
	switch id {
	case tts.EngineCoqui:
		for code := range coquiLanguageModels {
			codes = append(codes, code)
		}
	case tts.EnginePiper:
		for code := range piperVoices {
			codes = append(codes, code)
		}
	case tts.EngineSilero:
		for code := range sileroModels {
			codes = append(codes, code)
		}
	default:
		return nil
	}
	sort.Strings(codes)
	return codes
}
