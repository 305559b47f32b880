package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/anca-ferro/tts/internal/tts"
)

type inputOptions struct {
	file        string
	clipboard   bool
	markdown    bool
	includeCode bool
}

var (
	markdownExtensions = []string{".md", ".mdown", ".mkdn", ".mkd", ".markdown"}
	frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n.*?\r?\n---\r?\n`)

	// readClipboard is swapped in tests
	readClipboard = clipboard.ReadAll
)

// readInput picks the text source. Precedence: arguments (a lone "-"
// reads stdin), --file, --clipboard, then piped stdin.
func readInput(args []string, opts inputOptions, stdin io.Reader, piped bool) (string, error) {
	markdown := opts.markdown

	var text string
	switch {
	case len(args) == 1 && args[0] == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		text = string(b)
	case len(args) > 0:
		text = strings.Join(args, " ")
	case opts.file != "":
		b, err := os.ReadFile(opts.file)
		if errors.Is(err, fs.ErrNotExist) {
			return "", tts.InvalidOptions(fmt.Sprintf("file not found: %s", opts.file))
		}
		if err != nil {
			return "", fmt.Errorf("unable to read file: %w", err)
		}
		text = string(b)
		markdown = markdown || isMarkdownFile(opts.file)
	case opts.clipboard:
		s, err := readClipboard()
		if err != nil {
			return "", fmt.Errorf("unable to read clipboard: %w", err)
		}
		text = s
	case piped:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		text = string(b)
	default:
		return "", tts.InvalidOptions("no text given").
			WithGuidance("Pass text as arguments, with --file, with --clipboard or on stdin.")
	}

	if markdown {
		return tts.MarkdownToSpeech(removeFrontmatter(text), tts.MarkdownOptions{
			IncludeCode: opts.includeCode,
		})
	}
	return text, nil
}

func isMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range markdownExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

func removeFrontmatter(s string) string {
	return frontmatterPattern.ReplaceAllString(s, "")
}
