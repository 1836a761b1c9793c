package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const fallbackFilename = "blog-post.md"

// Document is the downloadable artifact for one generated post.
type Document struct {
	Title    string
	Filename string
	Markdown string
}

// NewDocument names the artifact after title.
func NewDocument(title, markdown string) Document {
	return Document{
		Title:    title,
		Filename: Filename(title),
		Markdown: markdown,
	}
}

// reservedChars cannot appear in a file name on Windows.
const reservedChars = `/\:*?"<>|`

// Filename returns "<title>.md" reduced to a single portable path element:
// reserved and control characters become spaces, runs of spaces collapse.
func Filename(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(reservedChars, r):
			return ' '
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, title)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, ". ")
	if cleaned == "" {
		return fallbackFilename
	}
	return cleaned + ".md"
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderHTML converts model markdown to HTML. Raw HTML in the source is
// dropped by goldmark's default (unsafe off) renderer.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile saves doc under dir and returns the written path.
func WriteFile(dir string, doc Document) (string, error) {
	if doc.Markdown == "" {
		return "", errors.New("document has no content")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, []byte(doc.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Digest 取正文首段（去掉标题行），不足时退回压缩后的全文前 limit 个字符。
func Digest(markdown string, limit int) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return truncate(line, limit)
	}
	return truncate(strings.Join(strings.Fields(markdown), " "), limit)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
