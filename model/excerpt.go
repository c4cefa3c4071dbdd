package model

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultExcerptLength is the rune budget of a summarized excerpt.
const DefaultExcerptLength = 160

var whitespace = regexp.MustCompile(`\s+`)

// blockTags separate words; other tags are dropped in place.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "thead": true, "tbody": true,
	"tr": true, "td": true, "th": true,
}

// Summarize builds a plain-text excerpt of at most n runes from HTML or
// plain text. Longer text is cut at the last word boundary and ends in "…".
func Summarize(text string, n int) string {
	if n <= 0 {
		n = DefaultExcerptLength
	}

	text = strings.TrimSpace(whitespace.ReplaceAllString(plainText(text), " "))

	if utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:n-1])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

// plainText returns the unescaped text nodes of s, skipping comments and
// the bodies of script and style elements.
func plainText(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				skip++
			case blockTags[tag]:
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case (tag == "script" || tag == "style") && skip > 0:
				skip--
			case blockTags[tag]:
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); blockTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}
