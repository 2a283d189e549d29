// Package resources upserts entries in Android value resource files
// (strings.xml, colors.xml) line by line, keeping the rest of the file as
// written.
package resources

import (
	"fmt"
	"regexp"
	"strings"
)

// Resource names written by the Mindbox integration.
const (
	ChannelID          = "mindbox_default_channel_id"
	ChannelName        = "mindbox_default_channel_name"
	ChannelDescription = "mindbox_default_channel_description"
	NotificationColor  = "mindbox_default_notification_color"
	SmallIcon          = "mindbox_notification_small_icon"
)

const (
	header  = `<?xml version="1.0" encoding="utf-8"?>`
	open    = "<resources>"
	closing = "</resources>"
)

var nameAttr = regexp.MustCompile(`name="([^"]+)"`)

// Skeleton is the content of a freshly created resource file.
const Skeleton = header + "\n" + open + "\n" + closing + "\n"

// Entry is a single named value resource.
type Entry struct {
	Kind  string // string, color, ...
	Name  string
	Value string
}

// String returns a <string> entry.
func String(name, value string) Entry { return Entry{Kind: "string", Name: name, Value: value} }

// Color returns a <color> entry.
func Color(name, value string) Entry { return Entry{Kind: "color", Name: name, Value: value} }

// Line renders the entry indented by four spaces with its value escaped.
func (e Entry) Line() string {
	return fmt.Sprintf(`    <%s name="%s">%s</%s>`, e.Kind, e.Name, Escape(e.Value), e.Kind)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape escapes the five XML special characters.
func Escape(value string) string {
	return escaper.Replace(value)
}

// Upsert drops every line declaring one of the entries' names and inserts the
// entries right before </resources>. Empty input starts from Skeleton; input
// without a closing tag is replaced by a fresh file holding only the entries.
func Upsert(original string, entries []Entry) string {
	if len(entries) == 0 {
		return original
	}
	if original == "" {
		original = Skeleton
	}

	names := make(map[string]bool, len(entries))
	lines := make([]string, len(entries))
	for i, e := range entries {
		names[e.Name] = true
		lines[i] = e.Line()
	}

	var kept []string
	for _, line := range strings.Split(original, "\n") {
		if m := nameAttr.FindStringSubmatch(line); m != nil && names[m[1]] {
			continue
		}
		kept = append(kept, line)
	}

	closeAt := -1
	for i, line := range kept {
		if strings.TrimSpace(line) == closing {
			closeAt = i
			break
		}
	}
	if closeAt < 0 {
		return strings.Join(append(append([]string{header, open}, lines...), closing, ""), "\n")
	}

	out := make([]string, 0, len(kept)+len(lines))
	out = append(out, kept[:closeAt]...)
	out = append(out, lines...)
	out = append(out, kept[closeAt:]...)
	return strings.Join(out, "\n")
}
