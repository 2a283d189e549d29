// Package credentials builds the EAS build credentials block that
// registers the notification extension targets with their app group.
package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// Extension target names shared with the iOS provider.
const (
	ServiceExtension = "MindboxNotificationServiceExtension"
	ContentExtension = "MindboxNotificationContentExtension"
)

// AppGroupsEntitlement is the entitlement key listing app groups.
const AppGroupsEntitlement = "com.apple.security.application-groups"

// ErrNoBundleIdentifier is returned when the app has no iOS bundle id.
var ErrNoBundleIdentifier = errors.New("ios.bundleIdentifier is not defined, skipping EAS credentials configuration")

// Format selects the encoding of the rendered block.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// AppExtension is one entry of extra.eas.build.experimental.ios.appExtensions.
type AppExtension struct {
	TargetName       string              `json:"targetName" yaml:"targetName"`
	BundleIdentifier string              `json:"bundleIdentifier" yaml:"bundleIdentifier"`
	Entitlements     map[string][]string `json:"entitlements" yaml:"entitlements"`
}

// Extensions returns the entries for both notification extensions.
func Extensions(bundleID string, props config.Properties) []AppExtension {
	group := props.AppGroupID(bundleID)
	out := make([]AppExtension, 0, 2)
	for _, target := range []string{ServiceExtension, ContentExtension} {
		out = append(out, AppExtension{
			TargetName:       target,
			BundleIdentifier: bundleID + "." + target,
			Entitlements:     map[string][]string{AppGroupsEntitlement: {group}},
		})
	}
	return out
}

// Merge adds the extension entries to extra, creating the
// eas.build.experimental.ios path as needed. Existing keys are kept and
// entries already listed under the same targetName are not duplicated.
// extra is not modified.
func Merge(extra map[string]interface{}, bundleID string, props config.Properties) (map[string]interface{}, error) {
	if bundleID == "" {
		return extra, ErrNoBundleIdentifier
	}

	out := cloneMap(extra)
	ios := out
	for _, key := range []string{"eas", "build", "experimental", "ios"} {
		ios = child(ios, key)
	}

	existing, _ := ios["appExtensions"].([]interface{})
	listed := make(map[string]bool, len(existing))
	for _, item := range existing {
		if m, ok := item.(map[string]interface{}); ok {
			if name, ok := m["targetName"].(string); ok {
				listed[name] = true
			}
		}
	}

	merged := append([]interface{}(nil), existing...)
	for _, ext := range Extensions(bundleID, props) {
		if listed[ext.TargetName] {
			continue
		}
		merged = append(merged, map[string]interface{}{
			"targetName":       ext.TargetName,
			"bundleIdentifier": ext.BundleIdentifier,
			"entitlements": map[string]interface{}{
				AppGroupsEntitlement: []interface{}{ext.Entitlements[AppGroupsEntitlement][0]},
			},
		})
	}
	ios["appExtensions"] = merged
	return out, nil
}

// Encode renders v in the requested format.
func Encode(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

// Decode parses an existing extra object. YAML is a superset of JSON, so
// both encodings are accepted.
func Decode(data []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode extra: %w", err)
	}
	return out, nil
}

func child(m map[string]interface{}, key string) map[string]interface{} {
	if c, ok := m[key].(map[string]interface{}); ok {
		return c
	}
	c := map[string]interface{}{}
	m[key] = c
	return c
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
