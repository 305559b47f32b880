package tts

import (
	"errors"
	"fmt"
)

// Common TTS errors
var (
	// ErrEmptyInput indicates the text is blank after trimming
	ErrEmptyInput = errors.New("text is empty")

	// ErrInputTooLong indicates the text exceeds MaxTextLength characters
	ErrInputTooLong = errors.New("text is too long")

	// ErrInvalidLanguageCode indicates a language code that is not two letters
	ErrInvalidLanguageCode = errors.New("invalid language code")

	// ErrUnknownEngine indicates an engine id that is not registered
	ErrUnknownEngine = errors.New("unknown TTS engine")

	// ErrEngineExists indicates a second registration for the same id
	ErrEngineExists = errors.New("engine already registered")

	// ErrEngineNotAvailable indicates the selected engine is not available
	ErrEngineNotAvailable = errors.New("selected TTS engine is not available")

	// ErrGenerationFailed indicates the backend failed during synthesis
	ErrGenerationFailed = errors.New("text synthesis failed")

	// ErrEngineOutputEmpty indicates the backend succeeded but produced no audio
	ErrEngineOutputEmpty = errors.New("engine produced no audio")

	// ErrModelNotFound indicates model weights are missing locally
	ErrModelNotFound = errors.New("model not found")

	// ErrPlaybackUnavailable indicates the audio device cannot be opened
	ErrPlaybackUnavailable = errors.New("audio playback unavailable")

	// ErrAudioFileNotFound indicates a playback source path does not exist
	ErrAudioFileNotFound = errors.New("audio file not found")

	// ErrDelivery indicates a sink failed to deliver the artifact
	ErrDelivery = errors.New("delivery failed")

	// ErrInvalidOptions indicates conflicting or out of range settings
	ErrInvalidOptions = errors.New("invalid options")
)

// TTSError represents a TTS-specific error with additional context
type TTSError struct {
	Code     ErrorCode
	Message  string
	Guidance string
	Cause    error
	Context  map[string]interface{}
}

// Error implements the error interface
func (e *TTSError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Guidance != "" {
		msg += "\n\n" + e.Guidance
	}
	return msg
}

// Unwrap returns the underlying error
func (e *TTSError) Unwrap() error {
	return e.Cause
}

// ErrorCode identifies specific error types
type ErrorCode string

const (
	// ErrorCodeInvalidInput marks validation errors
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Engine errors
	ErrorCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrorCodeEngineFailure     ErrorCode = "ENGINE_FAILURE"

	// Output errors
	ErrorCodeAudioDevice    ErrorCode = "AUDIO_DEVICE"
	ErrorCodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
)

// NewTTSError creates a new TTS error with context
func NewTTSError(code ErrorCode, message string, cause error) *TTSError {
	return &TTSError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *TTSError) WithContext(key string, value interface{}) *TTSError {
	e.Context[key] = value
	return e
}

// WithGuidance attaches remediation text shown below the message
func (e *TTSError) WithGuidance(guidance string) *TTSError {
	e.Guidance = guidance
	return e
}

// IsFatal returns true if retrying with the same input cannot succeed
func (e *TTSError) IsFatal() bool {
	switch e.Code {
	case ErrorCodeInvalidInput,
		ErrorCodeEngineUnavailable,
		ErrorCodeAudioDevice:
		return true
	default:
		return false
	}
}

// IsRetryable returns true if a caller may retry, possibly on another engine
func (e *TTSError) IsRetryable() bool {
	return e.Code == ErrorCodeEngineFailure
}

// CodeOf returns the error code of the first TTSError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var te *TTSError
	if errors.As(err, &te) {
		return te.Code, true
	}
	return "", false
}

// IsValidationError reports whether err is a bad-input error.
func IsValidationError(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrorCodeInvalidInput
}

// validationError builds an INVALID_INPUT error wrapping sentinel.
func validationError(sentinel error, message string) *TTSError {
	return NewTTSError(ErrorCodeInvalidInput, message, sentinel)
}

// GenerationFailed wraps a backend error so it matches ErrGenerationFailed
// while keeping the backend's own message.
func GenerationFailed(engine EngineID, cause error) *TTSError {
	return NewTTSError(ErrorCodeEngineFailure,
		fmt.Sprintf("%s synthesis failed", engine),
		fmt.Errorf("%w: %w", ErrGenerationFailed, cause)).
		WithContext("engine", engine)
}

// OutputEmpty reports a backend that finished without producing audio.
func OutputEmpty(engine EngineID) *TTSError {
	return NewTTSError(ErrorCodeEngineFailure,
		fmt.Sprintf("%s produced no audio", engine), ErrEngineOutputEmpty).
		WithContext("engine", engine)
}

// ModelNotFound reports missing model weights with remediation text.
func ModelNotFound(engine EngineID, model, guidance string) *TTSError {
	return NewTTSError(ErrorCodeEngineFailure,
		fmt.Sprintf("%s model %q not found", engine, model), ErrModelNotFound).
		WithContext("engine", engine).
		WithContext("model", model).
		WithGuidance(guidance)
}

// NotAvailable reports an engine whose probe failed.
func NotAvailable(engine EngineID, guidance string) *TTSError {
	return NewTTSError(ErrorCodeEngineUnavailable,
		fmt.Sprintf("engine %q is not available", engine), ErrEngineNotAvailable).
		WithContext("engine", engine).
		WithGuidance(guidance)
}

// DeliveryFailed wraps a sink failure.
func DeliveryFailed(sink string, cause error) *TTSError {
	return NewTTSError(ErrorCodeDeliveryFailed,
		fmt.Sprintf("%s sink", sink),
		fmt.Errorf("%w: %w", ErrDelivery, cause)).
		WithContext("sink", sink)
}

// PlaybackUnavailable reports an audio device that cannot be used.
func PlaybackUnavailable(cause error) *TTSError {
	return NewTTSError(ErrorCodeAudioDevice, "cannot open audio device",
		fmt.Errorf("%w: %w", ErrPlaybackUnavailable, cause))
}

// AudioFileNotFound reports a playback source that does not exist.
func AudioFileNotFound(path string) *TTSError {
	return NewTTSError(ErrorCodeAudioDevice,
		fmt.Sprintf("cannot play %s", path), ErrAudioFileNotFound).
		WithContext("path", path)
}

// InvalidOptions reports a settings problem found before synthesis.
func InvalidOptions(message string) *TTSError {
	return validationError(ErrInvalidOptions, message)
}
