// Package gradle patches Groovy Gradle build scripts produced by prebuild:
// maven repositories, buildscript classpath entries, applied plugins and
// implementation dependencies. Every function returns its input unchanged
// when the marker it guards on is already present.
package gradle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
)

var (
	buildscript     = regexp.MustCompile(`\bbuildscript\s*\{`)
	allprojects     = regexp.MustCompile(`\ballprojects\s*\{`)
	repositories    = regexp.MustCompile(`\brepositories\s*\{`)
	buildscriptDeps = regexp.MustCompile(`(?s)(buildscript.*?dependencies\s*\{)(.*?)(\n\s*\})`)
	applyPluginLine = regexp.MustCompile(`(?m)^apply plugin:\s*["'][^"']+["'].*$`)
	dependencies    = regexp.MustCompile(`dependencies\s*\{`)
	applicationID   = regexp.MustCompile(`applicationId\s+['"]([^'"]+)['"]`)
	namespace       = regexp.MustCompile(`namespace\s+['"]([^'"]+)['"]`)
)

// AddMavenRepository appends repoLine to the repositories block of both
// buildscript{} and allprojects{}. Blocks are matched by balanced braces,
// so nested maven{} entries do not end the block early. It is a no-op
// when url already appears anywhere in the script and returns
// anchor.ErrNotFound when neither block exists.
func AddMavenRepository(text, url, repoLine string) (string, error) {
	if strings.Contains(text, url) {
		return text, nil
	}

	found := false
	for _, outer := range []*regexp.Regexp{buildscript, allprojects} {
		body, err := repositoriesBody(text, outer)
		if err != nil {
			continue
		}
		found = true
		text = anchor.SpliceAt(text, lineEndBefore(text, body), "\n"+repoLine)
	}

	if !found {
		return text, fmt.Errorf("repositories block: %w", anchor.ErrNotFound)
	}
	return text, nil
}

// repositoriesBody returns the body of the repositories{} block nested in
// the block opened by outer.
func repositoriesBody(text string, outer *regexp.Regexp) (anchor.Span, error) {
	block, err := anchor.BlockBody(text, outer)
	if err != nil {
		return anchor.Span{}, err
	}
	body, err := anchor.BlockBodyFrom(text[:block.End], block.Start, repositories)
	if err != nil {
		return anchor.Span{}, err
	}
	return body, nil
}

// lineEndBefore returns the offset of the last newline inside span, so an
// insertion lands on its own line above the closing brace. Single-line
// bodies insert right before the brace.
func lineEndBefore(text string, span anchor.Span) int {
	if i := strings.LastIndexByte(span.In(text), '\n'); i >= 0 {
		return span.Start + i
	}
	return span.End
}

// AddClasspathDependency inserts line at the top of buildscript{ dependencies{} }
// unless marker is present.
func AddClasspathDependency(text, line, marker string) (string, error) {
	if strings.Contains(text, marker) {
		return text, nil
	}
	groups, err := anchor.FindGroups(text, buildscriptDeps)
	if err != nil {
		return text, fmt.Errorf("buildscript dependencies block: %w", err)
	}
	return anchor.SpliceAt(text, groups[1].End, "\n"+line), nil
}

// AddPlugin inserts an `apply plugin:` line after the last existing one, or
// at the top of the file when there is none. It is a no-op when marker is
// present.
func AddPlugin(text, line, marker string) string {
	if strings.Contains(text, marker) || strings.HasPrefix(text, line) {
		return text
	}
	last, err := anchor.FindLast(text, applyPluginLine)
	if err != nil {
		return line + "\n" + text
	}
	return anchor.SpliceAt(text, last.End, "\n"+line)
}

// Dependency is an artifact added with the implementation configuration.
type Dependency struct {
	Coordinate string // group:name
	Version    string // optional
}

// Line renders the dependency as an indented implementation statement.
func (d Dependency) Line() string {
	notation := d.Coordinate
	if d.Version != "" {
		notation += ":" + d.Version
	}
	return fmt.Sprintf("    implementation '%s'", notation)
}

// Missing returns the dependencies whose coordinate does not appear quoted
// in text.
func Missing(text string, deps []Dependency) []Dependency {
	var missing []Dependency
	for _, d := range deps {
		if containsArtifact(text, d.Coordinate) {
			continue
		}
		missing = append(missing, d)
	}
	return missing
}

func containsArtifact(text, coordinate string) bool {
	return strings.Contains(text, "'"+coordinate) || strings.Contains(text, `"`+coordinate)
}

// AddDependencies inserts the missing deps at the top of the first
// dependencies{} block, in the given order.
func AddDependencies(text string, deps []Dependency) (string, error) {
	missing := Missing(text, deps)
	if len(missing) == 0 {
		return text, nil
	}
	span, err := anchor.Find(text, dependencies)
	if err != nil {
		return text, fmt.Errorf("dependencies block: %w", err)
	}

	lines := make([]string, len(missing))
	for i, d := range missing {
		lines[i] = d.Line()
	}
	return anchor.SpliceAt(text, span.End, "\n"+strings.Join(lines, "\n")), nil
}

// PackageName extracts the application id from an app build.gradle,
// falling back to the namespace.
func PackageName(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{applicationID, namespace} {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}
