package xcodeproj

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const headComment = "// !$*UTF8*$!\n"

var bareValue = regexp.MustCompile(`^[A-Za-z0-9._/]+$`)

// Quote renders a raw graph string the way project files store it: bare
// when it only holds characters from [A-Za-z0-9._/], quoted and escaped
// otherwise. Surrounding quotes are content and get escaped like any other
// quote; pre-quoted input is stripped with Unquote before it enters the
// graph.
func Quote(v string) string {
	if bareValue.MatchString(v) {
		return v
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote strips one level of surrounding quotes from a value supplied by
// the caller. Build setting values may arrive pre-quoted; the graph stores
// raw strings.
func Unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(v[1 : len(v)-1])
	}
	return v
}

// inline lists the classes written on a single line.
var inline = map[string]bool{ISABuildFile: true, ISAFileReference: true}

type writer struct {
	p        *Project
	b        strings.Builder
	comments map[string]string
}

// Encode serializes the project in Xcode's layout: objects grouped by class
// in alphabetical sections, keys sorted with isa first, identifiers
// annotated with comments.
func (p *Project) Encode() []byte {
	w := &writer{p: p, comments: p.comments()}
	w.b.WriteString(headComment)
	w.b.WriteString("{\n")

	keys := sortedKeys(p.top)
	keys = append(keys, "objects")
	slices.Sort(keys)
	for _, key := range keys {
		if key == "objects" {
			w.writeObjects()
			continue
		}
		w.writeEntry(1, key, p.top[key])
	}
	w.b.WriteString("}\n")
	return []byte(w.b.String())
}

func (w *writer) writeObjects() {
	w.b.WriteString("\tobjects = {\n")

	sections := map[string][]string{}
	for id, obj := range w.p.objects {
		sections[obj.ISA()] = append(sections[obj.ISA()], id)
	}
	names := sortedKeys(sections)
	for _, isa := range names {
		ids := sections[isa]
		slices.Sort(ids)
		fmt.Fprintf(&w.b, "\n/* Begin %s section */\n", isa)
		for _, id := range ids {
			if inline[isa] {
				w.writeInlineObject(id)
			} else {
				indent(&w.b, 2)
				w.b.WriteString(w.ref(id))
				w.b.WriteString(" = ")
				w.writeValue(2, id, map[string]interface{}(w.p.objects[id]))
				w.b.WriteString(";\n")
			}
		}
		fmt.Fprintf(&w.b, "/* End %s section */\n", isa)
	}
	w.b.WriteString("\t};\n")
}

func (w *writer) writeInlineObject(id string) {
	indent(&w.b, 2)
	w.b.WriteString(w.ref(id))
	w.b.WriteString(" = {")
	for _, key := range objectKeys(w.p.objects[id]) {
		w.b.WriteString(key)
		w.b.WriteString(" = ")
		w.writeInlineValue(key, w.p.objects[id][key])
		w.b.WriteString("; ")
	}
	w.b.WriteString("};\n")
}

func (w *writer) writeInlineValue(key string, v interface{}) {
	switch t := v.(type) {
	case map[string]interface{}:
		w.b.WriteString("{")
		for _, k := range sortedKeys(t) {
			w.b.WriteString(k)
			w.b.WriteString(" = ")
			w.writeInlineValue(k, t[k])
			w.b.WriteString("; ")
		}
		w.b.WriteString("}")
	case []interface{}:
		w.b.WriteString("(")
		for _, item := range t {
			w.writeInlineValue(key, item)
			w.b.WriteString(", ")
		}
		w.b.WriteString(")")
	default:
		w.b.WriteString(w.scalar(key, fmt.Sprint(v)))
	}
}

func (w *writer) writeEntry(depth int, key string, v interface{}) {
	indent(&w.b, depth)
	w.b.WriteString(Quote(key))
	w.b.WriteString(" = ")
	w.writeValue(depth, key, v)
	w.b.WriteString(";\n")
}

func (w *writer) writeValue(depth int, key string, v interface{}) {
	switch t := v.(type) {
	case map[string]interface{}:
		w.b.WriteString("{\n")
		keys := sortedKeys(t)
		if _, ok := t["isa"]; ok {
			keys = objectKeys(t)
		}
		for _, k := range keys {
			w.writeEntry(depth+1, k, t[k])
		}
		indent(&w.b, depth)
		w.b.WriteString("}")
	case []interface{}:
		w.b.WriteString("(\n")
		for _, item := range t {
			indent(&w.b, depth+1)
			w.writeValue(depth+1, key, item)
			w.b.WriteString(",\n")
		}
		indent(&w.b, depth)
		w.b.WriteString(")")
	default:
		w.b.WriteString(w.scalar(key, fmt.Sprint(v)))
	}
}

func (w *writer) scalar(key, v string) string {
	if key != "remoteGlobalIDString" && key != "TestTargetID" {
		if _, ok := w.p.objects[v]; ok {
			return w.ref(v)
		}
	}
	return Quote(v)
}

func (w *writer) ref(id string) string {
	if c := w.comments[id]; c != "" {
		return id + " /* " + c + " */"
	}
	return id
}

func objectKeys(obj map[string]interface{}) []string {
	keys := sortedKeys(obj)
	if i := slices.Index(keys, "isa"); i > 0 {
		keys = append([]string{"isa"}, slices.Delete(keys, i, i+1)...)
	}
	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteByte('\t')
	}
}
