// Package validation provides input validators for the plugin property bag.
// Everything here is pure; callers translate the sentinel errors into
// user-facing configuration errors.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Common validation errors.
var (
	ErrEmptyInput           = errors.New("input cannot be empty")
	ErrPathTraversal        = errors.New("path traversal detected")
	ErrInvalidPath          = errors.New("invalid path")
	ErrInvalidColor         = errors.New("invalid color")
	ErrInvalidTeamID        = errors.New("invalid development team id")
	ErrInvalidBundleID      = errors.New("invalid bundle identifier")
	ErrInvalidAppGroup      = errors.New("invalid app group id")
	ErrInvalidVersion       = errors.New("invalid deployment target")
	ErrInvalidResourceValue = errors.New("invalid resource value")
	ErrInvalidIconExtension = errors.New("unsupported icon extension")
)

var (
	// colorRegex matches Android color literals: #RGB, #ARGB, #RRGGBB, #AARRGGBB.
	colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

	// teamIDRegex matches Apple developer team identifiers, e.g. "ABCDE12345".
	teamIDRegex = regexp.MustCompile(`^[A-Z0-9]{10}$`)

	// bundleIDRegex matches reverse-DNS identifiers, e.g. "com.example.app".
	bundleIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)

	// appGroupRegex accepts ids with or without the "group." prefix;
	// whitespace and commas are stripped before use.
	appGroupRegex = regexp.MustCompile(`^(group\.)?[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*$`)

	// controlCharRegex finds control characters other than tab.
	controlCharRegex = regexp.MustCompile(`[\x00-\x08\x0a-\x1f\x7f]`)
)

// ValidatePath validates a file path and prevents path traversal attacks.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// ValidatePathWithBase validates that a relative path stays inside basePath.
// Absolute paths and home-relative paths are accepted as given: they name
// files outside the project on purpose (CI secrets, shared assets).
func ValidatePathWithBase(path, basePath string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "~/") {
		return nil
	}

	joined := filepath.Join(basePath, path)
	rel, err := filepath.Rel(filepath.Clean(basePath), joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: path %q escapes base directory %q", ErrPathTraversal, path, basePath)
	}

	return nil
}

// ValidateColor validates an Android color literal.
func ValidateColor(color string) error {
	if color == "" {
		return ErrEmptyInput
	}
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("%w: %q must look like #RRGGBB or #AARRGGBB", ErrInvalidColor, color)
	}
	return nil
}

// ValidateTeamID validates an Apple development team identifier.
func ValidateTeamID(id string) error {
	if id == "" {
		return ErrEmptyInput
	}
	if !teamIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %q must be 10 uppercase letters or digits", ErrInvalidTeamID, id)
	}
	return nil
}

// ValidateBundleIdentifier validates a reverse-DNS bundle identifier.
func ValidateBundleIdentifier(id string) error {
	if id == "" {
		return ErrEmptyInput
	}
	if len(id) > 255 || !bundleIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidBundleID, id)
	}
	return nil
}

// ValidateAppGroupID validates an app group identifier after cleaning.
func ValidateAppGroupID(id string) error {
	cleaned := CleanAppGroupID(id)
	if cleaned == "" {
		return ErrEmptyInput
	}
	if !appGroupRegex.MatchString(cleaned) {
		return fmt.Errorf("%w: %q", ErrInvalidAppGroup, id)
	}
	return nil
}

// CleanAppGroupID strips commas and whitespace from an app group id.
func CleanAppGroupID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, id)
}

// ValidateDeploymentTarget validates an iOS version such as "15.1" or "16".
func ValidateDeploymentTarget(version string) error {
	if version == "" {
		return ErrEmptyInput
	}
	if !semver.IsValid("v" + version) {
		return fmt.Errorf("%w: %q is not a version number", ErrInvalidVersion, version)
	}
	if semver.Prerelease("v"+version) != "" || semver.Build("v"+version) != "" {
		return fmt.Errorf("%w: %q must be a plain MAJOR.MINOR version", ErrInvalidVersion, version)
	}
	return nil
}

// CompareVersions compares two plain dotted versions ("15.1" vs "16").
// Invalid versions sort before valid ones, matching semver.Compare.
func CompareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

// ValidateResourceValue rejects control characters in Android resource strings.
func ValidateResourceValue(value string) error {
	if controlCharRegex.MatchString(value) {
		return fmt.Errorf("%w: value contains control characters", ErrInvalidResourceValue)
	}
	return nil
}

// ValidateIconExtension accepts .png and .xml drawables.
func ValidateIconExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".xml":
		return nil
	default:
		return fmt.Errorf("%w: %q (expected .png or .xml)", ErrInvalidIconExtension, filepath.Ext(path))
	}
}

func containsPathTraversal(path string) bool {
	normalized := filepath.ToSlash(filepath.Clean(path))
	for _, seg := range strings.Split(normalized, "/") {
		if seg == ".." {
			return true
		}
	}

	if strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E") {
		return true
	}

	return false
}
