// Package swift injects Mindbox setup into an Expo AppDelegate.swift.
//
// Each transform is a pure string function that returns its input unchanged
// when its marker is already present, or anchor.ErrNotFound when the
// structure it edits (class declaration, method body) cannot be located.
package swift

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
)

var (
	importBlock      = regexp.MustCompile(`(?m)^(?:import\s+.*\n)+`)
	classDeclaration = regexp.MustCompile(`(?:public\s+)?class\s+AppDelegate\s*:\s*([^{\n]+)`)
	classHeader      = regexp.MustCompile(`(?:public\s+)?class\s+AppDelegate\b[^{]*`)
	didFinishLaunch  = regexp.MustCompile(`(?:public\s+)?override\s+func\s+application\([^)]*didFinishLaunchingWithOptions[^)]*\)[^{]*`)
)

// AddImports inserts the missing import statements after the first import
// block, or at the top of the file when there is none.
func AddImports(text string, imports []string) string {
	var missing []string
	for _, imp := range imports {
		if !hasImport(text, imp) {
			missing = append(missing, imp+"\n")
		}
	}
	if len(missing) == 0 {
		return text
	}

	block := strings.Join(missing, "")
	span, err := anchor.Find(text, importBlock)
	if err != nil {
		return block + text
	}
	return anchor.SpliceAt(text, span.End, block)
}

func hasImport(text, imp string) bool {
	module := strings.TrimSpace(strings.TrimPrefix(imp, "import"))
	re := regexp.MustCompile(`(?m)^\s*import\s+` + regexp.QuoteMeta(module) + `\s*$`)
	return re.MatchString(text)
}

// AddConformance appends protocol to the AppDelegate's inheritance clause.
func AddConformance(text, protocol string) (string, error) {
	groups, err := anchor.FindGroups(text, classDeclaration)
	if err != nil {
		return text, fmt.Errorf("AppDelegate class declaration: %w", err)
	}
	clause := groups[1]
	current := clause.In(text)
	for _, p := range strings.Split(current, ",") {
		if strings.TrimSpace(p) == protocol {
			return text, nil
		}
	}
	trimmed := strings.TrimRight(current, " \t")
	return anchor.Replace(text, clause, trimmed+", "+protocol+current[len(trimmed):]), nil
}

// AddLaunchLines inserts the given statements at the top of
// application(_:didFinishLaunchingWithOptions:). A line is skipped when its
// trimmed form already appears in the method body.
func AddLaunchLines(text string, lines []string) (string, error) {
	body, err := anchor.BlockBody(text, didFinishLaunch)
	if err != nil {
		return text, fmt.Errorf("didFinishLaunchingWithOptions body: %w", err)
	}
	existing := body.In(text)

	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(existing, trimmed) {
			continue
		}
		b.WriteString("\n    ")
		b.WriteString(trimmed)
	}
	if b.Len() == 0 {
		return text, nil
	}
	return anchor.SpliceAt(text, body.Start, b.String()), nil
}

// AddMethod appends method to the AppDelegate class body unless signature
// already appears in it.
func AddMethod(text, signature, method string) (string, error) {
	body, err := anchor.BlockBody(text, classHeader)
	if err != nil {
		return text, fmt.Errorf("AppDelegate class body: %w", err)
	}
	if strings.Contains(body.In(text), signature) {
		return text, nil
	}
	return anchor.SpliceAt(text, body.End, "\n"+method), nil
}

// AppendOnce appends block to the end of the file unless signature occurs.
func AppendOnce(text, signature, block string) string {
	if strings.Contains(text, signature) {
		return text
	}
	return text + block
}
