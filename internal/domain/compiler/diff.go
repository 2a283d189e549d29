package compiler

import "fmt"

// DiffType classifies a planned file change.
type DiffType string

const (
	DiffTypeAdd    DiffType = "add"    // lines, entries or files that are not there yet
	DiffTypeRemove DiffType = "remove" // e.g. the Expo FCM service stub
	DiffTypeModify DiffType = "modify"
	DiffTypeNone   DiffType = "none"
)

func (d DiffType) String() string { return string(d) }

// Diff is what a step's Plan reports: which file (or Xcode object) of which
// kind changes, and the lines it inserts.
type Diff struct {
	diffType DiffType
	resource string // gradle, manifest, plist, xcode, ...
	name     string
	oldValue string
	newValue string
	detail   []string
}

// NewDiff describes a change of resource name from oldValue to newValue.
// Either value may be empty.
func NewDiff(diffType DiffType, resource, name, oldValue, newValue string) Diff {
	return Diff{diffType: diffType, resource: resource, name: name, oldValue: oldValue, newValue: newValue}
}

func (d Diff) Type() DiffType   { return d.diffType }
func (d Diff) Resource() string { return d.resource }
func (d Diff) Name() string     { return d.name }

// Summary is the one-line form printed by `plan`:
//
//	+ xcode MindboxNotificationServiceExtension (com.example.app.MindboxNotificationServiceExtension)
//	~ gradle android/app/build.gradle
func (d Diff) Summary() string {
	target := d.resource + " " + d.name
	switch d.diffType {
	case DiffTypeAdd:
		return fmt.Sprintf("+ %s (%s)", target, d.newValue)
	case DiffTypeRemove:
		return fmt.Sprintf("- %s (%s)", target, d.oldValue)
	case DiffTypeModify:
		return "~ " + target
	default:
		return "  " + target
	}
}

// WithDetail returns a copy of the diff carrying the lines it adds, for
// verbose plan output.
func (d Diff) WithDetail(lines ...string) Diff {
	d.detail = append([]string(nil), lines...)
	return d
}

// Detail returns the inserted lines attached with WithDetail.
func (d Diff) Detail() []string {
	return append([]string(nil), d.detail...)
}

// IsEmpty reports a zero Diff, or a DiffTypeNone one that names nothing.
func (d Diff) IsEmpty() bool {
	return (d.diffType == "" || d.diffType == DiffTypeNone) && d.resource == "" && d.name == ""
}
