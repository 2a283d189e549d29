// Package anchor locates insertion points in semi-structured source text
// (Gradle scripts, Swift sources, Podfiles) and splices content at them.
// Every lookup either returns a Span or ErrNotFound; callers treat
// ErrNotFound as "leave the file unchanged".
package anchor

import (
	"errors"
	"regexp"
)

// ErrNotFound reports that the structure an edit is anchored to is absent.
var ErrNotFound = errors.New("anchor not found")

// NotFound is the sentinel index returned by FindMatchingBrace.
const NotFound = -1

// Span is a half-open byte range [Start, End) within a text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// In returns the text covered by the span.
func (s Span) In(text string) string {
	return text[s.Start:s.End]
}

// Find returns the span of the first match of re in text.
func Find(text string, re *regexp.Regexp) (Span, error) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return Span{}, ErrNotFound
	}
	return Span{Start: loc[0], End: loc[1]}, nil
}

// FindLast returns the span of the last match of re in text.
func FindLast(text string, re *regexp.Regexp) (Span, error) {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return Span{}, ErrNotFound
	}
	last := locs[len(locs)-1]
	return Span{Start: last[0], End: last[1]}, nil
}

// FindGroups returns the spans of every capture group of the first match.
// Index 0 is the whole match.
func FindGroups(text string, re *regexp.Regexp) ([]Span, error) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, ErrNotFound
	}
	spans := make([]Span, len(loc)/2)
	for i := range spans {
		spans[i] = Span{Start: loc[2*i], End: loc[2*i+1]}
	}
	return spans, nil
}

// FindMatchingBrace returns the index of the '}' closing the '{' at open,
// or NotFound when open is not a '{' or the braces never balance.
func FindMatchingBrace(text string, open int) int {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return NotFound
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

// BlockBody finds header in text and returns the span between the first
// '{' at or after the end of the header match and its matching '}'.
func BlockBody(text string, header *regexp.Regexp) (Span, error) {
	return BlockBodyFrom(text, 0, header)
}

// BlockBodyFrom is BlockBody restricted to text[from:]. The returned span
// is relative to text.
func BlockBodyFrom(text string, from int, header *regexp.Regexp) (Span, error) {
	h, err := Find(text[from:], header)
	if err != nil {
		return Span{}, err
	}
	open := indexByteFrom(text, '{', from+h.Start)
	if open == NotFound {
		return Span{}, ErrNotFound
	}
	end := FindMatchingBrace(text, open)
	if end == NotFound {
		return Span{}, ErrNotFound
	}
	return Span{Start: open + 1, End: end}, nil
}

// SpliceAt inserts content at byte offset at.
func SpliceAt(text string, at int, content string) string {
	return text[:at] + content + text[at:]
}

// Replace substitutes the span with content.
func Replace(text string, span Span, content string) string {
	return text[:span.Start] + content + text[span.End:]
}

func indexByteFrom(text string, b byte, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] == b {
			return i
		}
	}
	return NotFound
}
