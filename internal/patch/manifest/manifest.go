// Package manifest mutates AndroidManifest.xml as an element tree.
//
// Every mutator reports whether it changed the tree so callers can skip
// writing an untouched manifest.
package manifest

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
)

// Namespaces and attribute names used by the mutators.
const (
	ToolsNamespace = "http://schemas.android.com/tools"

	attrName     = "android:name"
	attrValue    = "android:value"
	attrResource = "android:resource"
	attrExported = "android:exported"
	attrToolsNS  = "xmlns:tools"
	attrToolsOp  = "tools:node"
)

const indent = 4

// Manifest is a parsed AndroidManifest.xml document.
type Manifest struct {
	doc *etree.Document
}

// Parse reads a manifest. The root element must be <manifest>.
func Parse(data []byte) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "manifest" {
		return nil, fmt.Errorf("parse manifest: <manifest> root: %w", anchor.ErrNotFound)
	}
	return &Manifest{doc: doc}, nil
}

// Bytes serializes the manifest with four-space indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	m.doc.Indent(indent)
	return m.doc.WriteToBytes()
}

// EnsureToolsNamespace declares xmlns:tools on the root unless present.
func (m *Manifest) EnsureToolsNamespace() bool {
	root := m.doc.Root()
	if root.SelectAttr(attrToolsNS) != nil {
		return false
	}
	root.CreateAttr(attrToolsNS, ToolsNamespace)
	return true
}

// Application returns the main <application> element.
func (m *Manifest) Application() (*etree.Element, error) {
	app := m.doc.Root().SelectElement("application")
	if app == nil {
		return nil, fmt.Errorf("<application>: %w", anchor.ErrNotFound)
	}
	return app, nil
}

// ValueType selects how a meta-data entry carries its value.
type ValueType int

const (
	// Value stores a literal in android:value.
	Value ValueType = iota
	// Resource stores a resource reference in android:resource.
	Resource
)

func (v ValueType) attr() string {
	if v == Resource {
		return attrResource
	}
	return attrValue
}

// MetaData returns the value of the named meta-data entry.
func (m *Manifest) MetaData(name string) (string, bool) {
	app, err := m.Application()
	if err != nil {
		return "", false
	}
	for _, el := range app.SelectElements("meta-data") {
		if el.SelectAttrValue(attrName, "") == name {
			if a := el.SelectAttr(attrValue); a != nil {
				return a.Value, true
			}
			return el.SelectAttrValue(attrResource, ""), true
		}
	}
	return "", false
}

// UpsertMetaData removes every <meta-data> named name under <application>
// and appends a single entry with the given value. A manifest that already
// holds exactly that entry is left untouched.
func (m *Manifest) UpsertMetaData(name, value string, typ ValueType) (bool, error) {
	app, err := m.Application()
	if err != nil {
		return false, err
	}

	var existing []*etree.Element
	for _, el := range app.SelectElements("meta-data") {
		if el.SelectAttrValue(attrName, "") == name {
			existing = append(existing, el)
		}
	}
	if len(existing) == 1 && len(existing[0].Attr) == 2 &&
		existing[0].SelectAttrValue(typ.attr(), "\x00") == value {
		return false, nil
	}

	for _, el := range existing {
		app.RemoveChild(el)
	}
	el := app.CreateElement("meta-data")
	el.CreateAttr(attrName, name)
	el.CreateAttr(typ.attr(), value)
	return true, nil
}

// Service describes a <service> declaration.
type Service struct {
	Name          string
	Exported      bool
	IntentActions []string
}

func (s Service) element() *etree.Element {
	el := etree.NewElement("service")
	el.CreateAttr(attrName, s.Name)
	el.CreateAttr(attrExported, fmt.Sprintf("%t", s.Exported))
	for _, action := range s.IntentActions {
		filter := el.CreateElement("intent-filter")
		filter.CreateElement("action").CreateAttr(attrName, action)
	}
	return el
}

func findService(app *etree.Element, name string) *etree.Element {
	for _, el := range app.SelectElements("service") {
		if el.SelectAttrValue(attrName, "") == name {
			return el
		}
	}
	return nil
}

// UpsertService replaces the service with the same android:name in place,
// or appends it to <application>.
func (m *Manifest) UpsertService(s Service) (bool, error) {
	app, err := m.Application()
	if err != nil {
		return false, err
	}

	want := s.element()
	current := findService(app, s.Name)
	if current == nil {
		app.AddChild(want)
		return true, nil
	}
	if render(current) == render(want) {
		return false, nil
	}
	app.InsertChildAt(current.Index(), want)
	app.RemoveChild(current)
	return true, nil
}

// RemoveService marks the named service with tools:node="remove" so the
// manifest merger drops the declaration contributed by a library. A
// placeholder element is appended when the service is not declared locally.
func (m *Manifest) RemoveService(name string) (bool, error) {
	app, err := m.Application()
	if err != nil {
		return false, err
	}

	el := findService(app, name)
	if el == nil {
		el = app.CreateElement("service")
		el.CreateAttr(attrName, name)
		el.CreateAttr(attrToolsOp, "remove")
		return true, nil
	}
	if el.SelectAttrValue(attrToolsOp, "") == "remove" {
		return false, nil
	}
	el.CreateAttr(attrToolsOp, "remove")
	return true, nil
}

// render serializes an element without insignificant whitespace.
func render(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	doc.Indent(etree.NoIndent)
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}
