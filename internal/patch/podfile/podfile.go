// Package podfile edits CocoaPods Podfiles: pods for the app target and
// `target '<name>' do … end` blocks for app extensions.
package podfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
)

// PrepareAnchor is the line after which the app pods are inserted.
const PrepareAnchor = "prepare_react_native_project!"

var (
	blockOpen = regexp.MustCompile(`^\s*(?:if|unless|begin|case|def|while|until)\b|\bdo(?:\s*\|[^|]*\|)?\s*$`)
	blockEnd  = regexp.MustCompile(`^\s*end\b`)
)

// Pod renders a pod declaration line.
func Pod(name string) string {
	return fmt.Sprintf("pod '%s'", name)
}

// AddPods inserts the missing pod lines right after the line containing
// after. Presence is a literal substring check.
func AddPods(text, after string, pods []string) (string, error) {
	missing := missingPods(text, pods)
	if len(missing) == 0 {
		return text, nil
	}
	idx := strings.Index(text, after)
	if idx < 0 {
		return text, fmt.Errorf("%s: %w", after, anchor.ErrNotFound)
	}
	eol := lineEnd(text, idx)

	var b strings.Builder
	for _, p := range missing {
		b.WriteString("\n  ")
		b.WriteString(Pod(p))
	}
	return anchor.SpliceAt(text, eol, b.String()), nil
}

func missingPods(text string, pods []string) []string {
	var missing []string
	for _, p := range pods {
		if !strings.Contains(text, Pod(p)) {
			missing = append(missing, p)
		}
	}
	return missing
}

// EnsureTarget makes sure a `target '<name>' do … end` block exists and
// contains each pod. A missing block is appended at the end of the file; an
// existing block only receives the pods it lacks.
func EnsureTarget(text, name string, pods []string) string {
	header := regexp.MustCompile(`(?m)^[ \t]*target\s+['"]` + regexp.QuoteMeta(name) + `['"]\s+do[^\n]*\n?`)
	loc := header.FindStringIndex(text)
	if loc == nil {
		return appendTarget(text, name, pods)
	}

	bodyStart := loc[1]
	bodyEnd := findEnd(text, bodyStart)
	if bodyEnd == anchor.NotFound {
		return text
	}

	body := text[bodyStart:bodyEnd]
	var b strings.Builder
	for _, p := range pods {
		if strings.Contains(body, Pod(p)) {
			continue
		}
		b.WriteString("  ")
		b.WriteString(Pod(p))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return text
	}
	return anchor.SpliceAt(text, bodyEnd, b.String())
}

func appendTarget(text, name string, pods []string) string {
	var b strings.Builder
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\ntarget '%s' do\n", name)
	for _, p := range pods {
		fmt.Fprintf(&b, "  %s\n", Pod(p))
	}
	b.WriteString("end\n")
	return b.String()
}

// findEnd returns the offset of the line holding the `end` that closes the
// block whose body starts at from, counting nested do/if/def blocks.
func findEnd(text string, from int) int {
	depth := 1
	pos := from
	for pos < len(text) {
		eol := lineEnd(text, pos)
		line := stripComment(text[pos:eol])
		switch {
		case blockEnd.MatchString(line):
			depth--
			if depth == 0 {
				return pos
			}
		case blockOpen.MatchString(line):
			depth++
		}
		pos = eol + 1
	}
	return anchor.NotFound
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func lineEnd(text string, from int) int {
	if i := strings.IndexByte(text[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(text)
}
