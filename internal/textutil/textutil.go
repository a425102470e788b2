// Package textutil derives plain-text facts (excerpts, read time) from
// HTML-or-text article bodies.
package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Defaults used when a blog post omits its excerpt or read time.
const (
	ExcerptLength  = 150
	WordsPerMinute = 200
	excerptSuffix  = "..."
)

// blockElements end a run of text; a space is emitted so words on either
// side do not fuse.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true, "td": true, "th": true,
}

// StripHTML returns the text content of s with whitespace collapsed.
// Script and style bodies are dropped. Plain text passes through.
func StripHTML(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				skip++
			case blockElements[tag]:
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case blockElements[tag]:
				b.WriteByte(' ')
			}
		}
	}
}

// Excerpt returns the first limit runes of the plain text of content,
// followed by "..." when it was cut. A non-positive limit uses ExcerptLength.
func Excerpt(content string, limit int) string {
	if limit <= 0 {
		limit = ExcerptLength
	}
	text := StripHTML(content)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	return strings.TrimRight(string(runes[:limit]), " ") + excerptSuffix
}

// WordCount counts whitespace-separated words in the plain text of content.
func WordCount(content string) int {
	return len(strings.Fields(StripHTML(content)))
}

// ReadTime estimates minutes to read content at WordsPerMinute, rounding up.
// It is never less than one minute.
func ReadTime(content string) int {
	words := WordCount(content)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
