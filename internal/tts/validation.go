package tts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// MaxTextLength is the maximum number of characters accepted per request.
const MaxTextLength = 5000

// Validate checks text, engine and language against the registry and
// returns an immutable Request. It has no side effects.
//
// Failures are *TTSError values: INVALID_INPUT wrapping ErrEmptyInput,
// ErrInputTooLong, ErrInvalidLanguageCode or ErrUnknownEngine, and
// ENGINE_UNAVAILABLE wrapping ErrEngineNotAvailable with remediation.
func Validate(text, engine, language string, registry *Registry) (Request, error) {
	trimmed, err := ValidateText(text)
	if err != nil {
		return Request{}, err
	}

	id, err := ValidateEngine(engine, registry)
	if err != nil {
		return Request{}, err
	}

	lang, err := ValidateLanguage(language)
	if err != nil {
		return Request{}, err
	}

	return Request{text: trimmed, engine: id, language: lang}, nil
}

// ValidateText trims text and enforces the length bounds.
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", validationError(ErrEmptyInput, "text cannot be empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxTextLength {
		return "", validationError(ErrInputTooLong,
			fmt.Sprintf("text is %d characters, maximum is %d", n, MaxTextLength)).
			WithContext("length", n)
	}
	return trimmed, nil
}

// ValidateLanguage requires a two letter code and lower-cases it.
func ValidateLanguage(language string) (string, error) {
	if utf8.RuneCountInString(language) != 2 {
		return "", validationError(ErrInvalidLanguageCode,
			fmt.Sprintf("language code %q must be exactly 2 letters (e.g. en, ru, de)", language)).
			WithContext("language", language)
	}
	return strings.ToLower(language), nil
}

// ValidateEngine resolves name in the registry and checks availability.
func ValidateEngine(name string, registry *Registry) (EngineID, error) {
	desc, err := registry.Describe(EngineID(strings.ToLower(strings.TrimSpace(name))))
	if err != nil {
		return "", err
	}
	if !desc.Available {
		return "", NotAvailable(desc.ID, desc.Guidance)
	}
	return desc.ID, nil
}

// unknownEngineError names the offending value and, when one of the
// registered names is close, suggests it.
func unknownEngineError(name string, registered []string) error {
	msg := fmt.Sprintf("unknown engine %q", name)
	if s := suggestEngine(name, registered); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return validationError(ErrUnknownEngine, msg).
		WithContext("engine", name).
		WithGuidance("Supported engines: " + strings.Join(registered, ", "))
}

// suggestEngine returns the best fuzzy match for name, or "".
func suggestEngine(name string, registered []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if matches := fuzzy.Find(name, registered); len(matches) > 0 {
		return matches[0].Str
	}
	// "piper-tts" style inputs: a registered name hidden inside the input.
	for _, candidate := range registered {
		if len(fuzzy.Find(candidate, []string{name})) > 0 {
			return candidate
		}
	}
	return ""
}
