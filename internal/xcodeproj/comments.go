package xcodeproj

import (
	"fmt"
	"path"
	"strings"
)

var defaultPhaseNames = map[string]string{
	ISASourcesBuildPhase:       "Sources",
	ISAResourcesBuildPhase:     "Resources",
	ISAFrameworksBuildPhase:    "Frameworks",
	ISACopyFilesBuildPhase:     "CopyFiles",
	"PBXHeadersBuildPhase":     "Headers",
	"PBXShellScriptBuildPhase": "ShellScript",
}

// SetName records the project name (the .xcodeproj basename) used in
// comments of the project's configuration list.
func (p *Project) SetName(name string) {
	p.name = strings.TrimSuffix(name, ".xcodeproj")
}

func (p *Project) projectName() string {
	if p.name != "" {
		return p.name
	}
	if targets := p.Targets(); len(targets) > 0 {
		return p.objects[targets[0]].String("name")
	}
	return ""
}

func phaseName(obj Object) string {
	if name := obj.String("name"); name != "" {
		return name
	}
	return defaultPhaseNames[obj.ISA()]
}

func displayName(obj Object) string {
	if obj == nil {
		return ""
	}
	if name := obj.String("name"); name != "" {
		return name
	}
	if p := obj.String("path"); p != "" {
		return path.Base(p)
	}
	return ""
}

// comments derives the annotation Xcode writes next to every object id.
func (p *Project) comments() map[string]string {
	out := make(map[string]string, len(p.objects))

	phaseOf := map[string]string{}
	for _, obj := range p.objects {
		if _, isPhase := defaultPhaseNames[obj.ISA()]; !isPhase {
			continue
		}
		for _, file := range obj.Strings("files") {
			phaseOf[file] = phaseName(obj)
		}
	}

	for id, obj := range p.objects {
		switch isa := obj.ISA(); {
		case isa == ISAProject:
			out[id] = "Project object"
		case isa == ISABuildFile:
			name := displayName(p.objects[obj.String("fileRef")])
			if name == "" {
				name = obj.String("productRef")
			}
			if phase := phaseOf[id]; phase != "" {
				name += " in " + phase
			}
			out[id] = name
		case isa == ISATargetDependency || isa == ISAContainerItemProxy:
			out[id] = isa
		case defaultPhaseNames[isa] != "":
			out[id] = phaseName(obj)
		case isa != ISAConfigurationList:
			out[id] = displayName(obj)
		}

		if list := obj.String("buildConfigurationList"); list != "" {
			owner := obj.String("name")
			if obj.ISA() == ISAProject {
				owner = p.projectName()
			}
			out[list] = fmt.Sprintf("Build configuration list for %s %q", obj.ISA(), owner)
		}
	}
	return out
}
