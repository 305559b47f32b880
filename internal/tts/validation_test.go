package tts

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{name: "plain", text: "Hello world", want: "Hello world"},
		{name: "trimmed", text: "  \tHello\n ", want: "Hello"},
		{name: "inner whitespace kept", text: "a  b", want: "a  b"},
		{name: "empty", text: "", wantErr: ErrEmptyInput},
		{name: "whitespace only", text: " \n\t ", wantErr: ErrEmptyInput},
		{name: "exactly max", text: strings.Repeat("a", MaxTextLength), want: strings.Repeat("a", MaxTextLength)},
		{name: "max after trim", text: "  " + strings.Repeat("a", MaxTextLength) + "  ", want: strings.Repeat("a", MaxTextLength)},
		{name: "too long", text: strings.Repeat("a", MaxTextLength+1), wantErr: ErrInputTooLong},
		{name: "multibyte counted as characters", text: strings.Repeat("я", MaxTextLength), want: strings.Repeat("я", MaxTextLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateText(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateText() error = %v, want %v", err, tt.wantErr)
				}
				if !IsValidationError(err) {
					t.Errorf("expected a validation error, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateText() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"en", "en", false},
		{"EN", "en", false},
		{"Ru", "ru", false},
		{"", "", true},
		{"e", "", true},
		{"eng", "", true},
		{"en-US", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateLanguage(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLanguageCode) {
					t.Fatalf("ValidateLanguage(%q) error = %v, want ErrInvalidLanguageCode", tt.in, err)
				}
				if tt.in != "" && !strings.Contains(err.Error(), tt.in) {
					t.Errorf("error %q does not name the offending value", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateLanguage(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ValidateLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	reg, _ := registryWith(t, map[EngineID]bool{
		EngineGTTS:   true,
		EnginePiper:  true,
		EngineSilero: false,
	})

	tests := []struct {
		name     string
		text     string
		engine   string
		language string
		wantErr  error
		wantCode ErrorCode
	}{
		{name: "valid", text: " Hi ", engine: "gtts", language: "EN"},
		{name: "engine case-insensitive", text: "Hi", engine: "PIPER", language: "en"},
		{name: "empty text", text: "", engine: "gtts", language: "en", wantErr: ErrEmptyInput, wantCode: ErrorCodeInvalidInput},
		{name: "unknown engine", text: "Hi", engine: "festival", language: "en", wantErr: ErrUnknownEngine, wantCode: ErrorCodeInvalidInput},
		{name: "unavailable engine", text: "Hi", engine: "silero", language: "en", wantErr: ErrEngineNotAvailable, wantCode: ErrorCodeEngineUnavailable},
		{name: "bad language", text: "Hi", engine: "gtts", language: "english", wantErr: ErrInvalidLanguageCode, wantCode: ErrorCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Validate(tt.text, tt.engine, tt.language, reg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				code, ok := CodeOf(err)
				if !ok || code != tt.wantCode {
					t.Errorf("Validate() code = %q, want %q", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if req.Text() != strings.TrimSpace(tt.text) {
				t.Errorf("Text() = %q", req.Text())
			}
			if req.Language() != strings.ToLower(tt.language) {
				t.Errorf("Language() = %q", req.Language())
			}
			if string(req.Engine()) != strings.ToLower(tt.engine) {
				t.Errorf("Engine() = %q", req.Engine())
			}
		})
	}
}

func TestValidate_UnavailableCarriesGuidance(t *testing.T) {
	reg, _ := registryWith(t, map[EngineID]bool{EngineCoqui: false})

	_, err := Validate("Hi", "coqui", "en", reg)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "install coqui") {
		t.Errorf("error should include remediation, got %q", err)
	}
}

func TestValidate_UnknownEngineSuggestion(t *testing.T) {
	reg, _ := registryWith(t, map[EngineID]bool{
		EngineGTTS:  true,
		EnginePiper: true,
	})

	tests := []struct {
		name    string
		engine  string
		suggest string
	}{
		{"abbreviation", "pipr", "piper"},
		{"decorated name", "piper-tts", "piper"},
		{"no match", "xyz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate("Hi", tt.engine, "en", reg)
			if !errors.Is(err, ErrUnknownEngine) {
				t.Fatalf("expected ErrUnknownEngine, got %v", err)
			}
			msg := err.Error()
			if !strings.Contains(msg, tt.engine) {
				t.Errorf("error %q does not name %q", msg, tt.engine)
			}
			hasHint := strings.Contains(msg, "did you mean")
			if tt.suggest == "" && hasHint {
				t.Errorf("unexpected suggestion in %q", msg)
			}
			if tt.suggest != "" && !strings.Contains(msg, `did you mean "`+tt.suggest+`"`) {
				t.Errorf("expected suggestion %q in %q", tt.suggest, msg)
			}
		})
	}
}
