// Package xcodeproj reads, edits and writes Xcode project.pbxproj files.
//
// A project is an object graph keyed by 24 character hex identifiers. The
// graph is decoded with howett.net/plist (which understands the OpenStep
// format Xcode writes), edited through the typed helpers in this package
// and written back by Encode in the layout Xcode itself produces.
package xcodeproj

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"howett.net/plist"
)

// Object ISA names used by the package.
const (
	ISABuildFile              = "PBXBuildFile"
	ISAFileReference          = "PBXFileReference"
	ISAGroup                  = "PBXGroup"
	ISANativeTarget           = "PBXNativeTarget"
	ISAProject                = "PBXProject"
	ISASourcesBuildPhase      = "PBXSourcesBuildPhase"
	ISAResourcesBuildPhase    = "PBXResourcesBuildPhase"
	ISAFrameworksBuildPhase   = "PBXFrameworksBuildPhase"
	ISACopyFilesBuildPhase    = "PBXCopyFilesBuildPhase"
	ISATargetDependency       = "PBXTargetDependency"
	ISAContainerItemProxy     = "PBXContainerItemProxy"
	ISABuildConfiguration     = "XCBuildConfiguration"
	ISAConfigurationList      = "XCConfigurationList"
	ProductTypeApplication    = "com.apple.product-type.application"
	ProductTypeAppExtension   = "com.apple.product-type.app-extension"
	FileTypeAppExtension      = "wrapper.app-extension"
	sourceTreeGroup           = "<group>"
	sourceTreeSDK             = "SDKROOT"
	sourceTreeBuiltProductDir = "BUILT_PRODUCTS_DIR"
)

// ErrMalformed reports a project whose structure cannot be navigated.
var ErrMalformed = errors.New("malformed project")

// Object is a single entry of the objects dictionary. Scalar values are
// strings, lists are []interface{} and nested dictionaries are
// map[string]interface{}.
type Object map[string]interface{}

// ISA returns the object's class name.
func (o Object) ISA() string { return o.String("isa") }

// String returns the scalar at key, or "".
func (o Object) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Strings returns the string members of the list at key.
func (o Object) Strings(key string) []string {
	raw, _ := o[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Dict returns the dictionary at key, creating it when absent.
func (o Object) Dict(key string) map[string]interface{} {
	if d, ok := o[key].(map[string]interface{}); ok {
		return d
	}
	d := map[string]interface{}{}
	o[key] = d
	return d
}

// AppendUnique appends id to the list at key unless it is already a member.
func (o Object) AppendUnique(key, id string) bool {
	if slices.Contains(o.Strings(key), id) {
		return false
	}
	raw, _ := o[key].([]interface{})
	o[key] = append(raw, id)
	return true
}

// Project is a decoded project.pbxproj.
type Project struct {
	name    string
	top     map[string]interface{}
	objects map[string]Object
	ids     *IDGenerator
}

// Parse decodes a project.pbxproj.
func Parse(data []byte) (*Project, error) {
	var top map[string]interface{}
	if _, err := plist.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}

	rawObjects, ok := top["objects"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("objects dictionary: %w", ErrMalformed)
	}
	objects := make(map[string]Object, len(rawObjects))
	for id, v := range rawObjects {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("object %s is not a dictionary: %w", id, ErrMalformed)
		}
		objects[id] = Object(obj)
	}
	delete(top, "objects")

	p := &Project{top: top, objects: objects}
	if _, ok := p.objects[p.RootID()]; !ok {
		return nil, fmt.Errorf("rootObject %q: %w", p.RootID(), ErrMalformed)
	}
	p.ids = NewIDGenerator(slices.Collect(maps.Keys(objects)))
	return p, nil
}

// Clone returns a deep copy that can be edited without touching p.
func (p *Project) Clone() *Project {
	objects := make(map[string]Object, len(p.objects))
	for id, obj := range p.objects {
		objects[id] = Object(deepCopy(map[string]interface{}(obj)).(map[string]interface{}))
	}
	return &Project{
		name:    p.name,
		top:     deepCopy(p.top).(map[string]interface{}),
		objects: objects,
		ids:     NewIDGenerator(slices.Collect(maps.Keys(objects))),
	}
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

// RootID returns the identifier of the PBXProject object.
func (p *Project) RootID() string {
	s, _ := p.top["rootObject"].(string)
	return s
}

// Root returns the PBXProject object.
func (p *Project) Root() Object { return p.objects[p.RootID()] }

// Object returns the object with the given id.
func (p *Project) Object(id string) (Object, bool) {
	obj, ok := p.objects[id]
	return obj, ok
}

// Len returns the number of objects in the graph.
func (p *Project) Len() int { return len(p.objects) }

// Add stores obj under a fresh identifier and returns it.
func (p *Project) Add(obj Object) string {
	id := p.ids.Next()
	p.objects[id] = obj
	return id
}

// IDsByISA returns the sorted identifiers of every object of class isa.
func (p *Project) IDsByISA(isa string) []string {
	var ids []string
	for id, obj := range p.objects {
		if obj.ISA() == isa {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Targets returns the target ids in the order the project lists them.
func (p *Project) Targets() []string {
	return p.Root().Strings("targets")
}

// TargetByName returns the id of the native target called name.
func (p *Project) TargetByName(name string) (string, bool) {
	for _, id := range p.Targets() {
		if obj, ok := p.objects[id]; ok && obj.String("name") == name {
			return id, true
		}
	}
	return "", false
}

// AppTarget returns the first target producing an application, falling
// back to the first target.
func (p *Project) AppTarget() (string, error) {
	targets := p.Targets()
	for _, id := range targets {
		if p.objects[id].String("productType") == ProductTypeApplication {
			return id, nil
		}
	}
	if len(targets) == 0 {
		return "", fmt.Errorf("no targets: %w", ErrMalformed)
	}
	return targets[0], nil
}

// MainGroup returns the id of the project's main group.
func (p *Project) MainGroup() (string, error) {
	id := p.Root().String("mainGroup")
	if _, ok := p.objects[id]; !ok {
		return "", fmt.Errorf("mainGroup: %w", ErrMalformed)
	}
	return id, nil
}

// BuildSetting returns a build setting of the named configuration of a
// target.
func (p *Project) BuildSetting(targetID, configuration, key string) (string, bool) {
	for _, cfg := range p.configurations(targetID) {
		if cfg.String("name") != configuration {
			continue
		}
		v, ok := cfg.Dict("buildSettings")[key].(string)
		return v, ok
	}
	return "", false
}

func (p *Project) configurations(targetID string) []Object {
	target, ok := p.objects[targetID]
	if !ok {
		return nil
	}
	list, ok := p.objects[target.String("buildConfigurationList")]
	if !ok {
		return nil
	}
	var out []Object
	for _, id := range list.Strings("buildConfigurations") {
		if cfg, ok := p.objects[id]; ok {
			out = append(out, cfg)
		}
	}
	return out
}
