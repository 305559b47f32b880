package tts

import (
	"strings"
	"unicode"
)

// titles never end a sentence: "Dr. Smith" is one sentence.
var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "mt": true,
	"г": true, "гр": true, "им": true, "проф": true,
}

const (
	terminators  = ".!?"
	wideEnders   = "。！？"
	closingMarks = "\"'”’»)]"
)

// SplitSentences splits text into sentences for synthesis. A run of
// terminators ends a sentence when followed by whitespace and a rune
// that is not a lower-case letter. Ellipses, decimals, URLs and titles
// such as "Dr." do not end a sentence. Whitespace is normalized.
func SplitSentences(text string) []string {
	runes := []rune(strings.Join(strings.Fields(text), " "))

	var (
		sentences []string
		start     int
	)
	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if strings.ContainsRune(wideEnders, r) {
			end := i + 1
			for end < len(runes) && strings.ContainsRune(wideEnders+closingMarks, runes[end]) {
				end++
			}
			emit(end)
			i = end - 1
			continue
		}
		if !strings.ContainsRune(terminators, r) {
			continue
		}

		// take the whole run, e.g. `?!` or `."`
		end := i + 1
		for end < len(runes) && strings.ContainsRune(terminators+closingMarks, runes[end]) {
			end++
		}
		run := string(runes[i:end])
		i = end - 1

		if end == len(runes) {
			break
		}
		if runes[end] != ' ' || end+1 >= len(runes) {
			continue
		}
		if strings.Contains(run, "..") {
			continue
		}
		if unicode.IsLower(runes[end+1]) {
			continue
		}
		if run[0] == '.' && titles[wordBefore(runes, end-len([]rune(run)))] {
			continue
		}
		emit(end)
	}
	emit(len(runes))
	return sentences
}

// wordBefore returns the lower-cased word ending just before pos.
func wordBefore(runes []rune, pos int) string {
	start := pos
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	word := strings.TrimLeftFunc(string(runes[start:pos]), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return strings.ToLower(word)
}
