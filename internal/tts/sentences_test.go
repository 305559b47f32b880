package tts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "Simple sentences",
			text: "Hello world. This is a test! Is it working?",
			want: []string{"Hello world.", "This is a test!", "Is it working?"},
		},
		{
			name: "Titles",
			text: "Dr. Smith and Mr. Jones met at 3 p.m. yesterday.",
			want: []string{"Dr. Smith and Mr. Jones met at 3 p.m. yesterday."},
		},
		{
			name: "Technical abbreviations",
			text: "The API uses HTTP. The SDK supports multiple languages.",
			want: []string{"The API uses HTTP.", "The SDK supports multiple languages."},
		},
		{
			name: "File extensions",
			text: "Edit the config.yml file. Then run main.go to start.",
			want: []string{"Edit the config.yml file.", "Then run main.go to start."},
		},
		{
			name: "Degrees",
			text: "Prof. Johnson has a Ph.D. in computer science. She teaches at MIT.",
			want: []string{"Prof. Johnson has a Ph.D. in computer science.", "She teaches at MIT."},
		},
		{
			name: "Decimal numbers",
			text: "The value is 3.14. The price is $19.99.",
			want: []string{"The value is 3.14.", "The price is $19.99."},
		},
		{
			name: "Version numbers",
			text: "Version 2.0.1 is released. Update to v3.0 soon.",
			want: []string{"Version 2.0.1 is released.", "Update to v3.0 soon."},
		},
		{
			name: "Ellipsis",
			text: "Wait... I'm thinking. Let me see...",
			want: []string{"Wait... I'm thinking.", "Let me see..."},
		},
		{
			name: "URLs",
			text: "Visit https://example.com for info. Check the docs.",
			want: []string{"Visit https://example.com for info.", "Check the docs."},
		},
		{
			name: "Mixed punctuation",
			text: "Really?! That's amazing! Wow!!!",
			want: []string{"Really?!", "That's amazing!", "Wow!!!"},
		},
		{
			name: "Quotes",
			text: `He said "Hello." She replied "Hi there."`,
			want: []string{`He said "Hello."`, `She replied "Hi there."`},
		},
		{
			name: "Cyrillic",
			text: "Привет. Как дела? Всё хорошо.",
			want: []string{"Привет.", "Как дела?", "Всё хорошо."},
		},
		{
			name: "Wide punctuation",
			text: "你好。世界！",
			want: []string{"你好。", "世界！"},
		},
		{
			name: "Whitespace is normalized",
			text: "  One\n\ntwo   three.  ",
			want: []string{"One two three."},
		},
		{
			name: "Empty",
			text: " \t\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}
