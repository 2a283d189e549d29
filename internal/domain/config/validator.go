package config

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/validation"
)

type propertyKind int

const (
	kindString propertyKind = iota
	kindBool
	kindStringList
)

func (k propertyKind) String() string {
	switch k {
	case kindBool:
		return "a boolean"
	case kindStringList:
		return "an array"
	default:
		return "a string"
	}
}

type propertySpec struct {
	key  string
	kind propertyKind
	// apply stores an already type-checked value and validates its content.
	apply func(p *Properties, v interface{}, root string) error
}

var propertySpecs = []propertySpec{
	{"androidPushProviders", kindStringList, applyPushProviders},
	{"googleServicesFilePath", kindString, pathProperty(func(p *Properties, s string) { p.GoogleServicesFilePath = s })},
	{"huaweiServicesFilePath", kindString, pathProperty(func(p *Properties, s string) { p.HuaweiServicesFilePath = s })},
	{"rustoreProjectId", kindString, textProperty(func(p *Properties, s string) { p.RustoreProjectID = s })},
	{"androidChannelId", kindString, textProperty(func(p *Properties, s string) { p.AndroidChannelID = s })},
	{"androidChannelName", kindString, textProperty(func(p *Properties, s string) { p.AndroidChannelName = s })},
	{"androidChannelDescription", kindString, textProperty(func(p *Properties, s string) { p.AndroidChannelDescription = s })},
	{"smallIcon", kindString, applySmallIcon},
	{"smallIconAccentColor", kindString, applyAccentColor},
	{"nativeRequestPermission", kindBool, boolProperty(func(p *Properties, b bool) { p.NativeRequestPermission = b })},
	{"usedExpoNotification", kindBool, boolProperty(func(p *Properties, b bool) { p.UsedExpoNotification = b })},
	{"workRuntimeWorkaround", kindBool, boolProperty(func(p *Properties, b bool) { p.WorkRuntimeWorkaround = b })},
	{"iosMode", kindString, applyIOSMode},
	{"iosDevTeam", kindString, applyDevTeam},
	{"iosDeploymentTarget", kindString, applyDeploymentTarget},
	{"iosNseFilePath", kindString, pathProperty(func(p *Properties, s string) { p.IOSNseFilePath = s })},
	{"iosNceFilePath", kindString, pathProperty(func(p *Properties, s string) { p.IOSNceFilePath = s })},
	{"iosAppGroupId", kindString, applyAppGroup},
}

// PropertyKeys returns the recognized property names in declaration order.
func PropertyKeys() []string {
	keys := make([]string, len(propertySpecs))
	for i, spec := range propertySpecs {
		keys[i] = spec.key
	}
	return keys
}

// DecodeProperties validates a raw property bag and converts it into
// Properties. Unknown keys are reported first; when any are present no
// value is inspected. Relative paths are checked against root.
func DecodeProperties(raw map[string]interface{}, root string) (Properties, error) {
	props := DefaultProperties()
	errs := NewErrorList()

	unknown := make([]string, 0)
	for key := range raw {
		if !slices.Contains(PropertyKeys(), key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs.Add(NewInvalidPropertyError(key))
	}
	if errs.HasErrors() {
		return Properties{}, errs
	}

	for _, spec := range propertySpecs {
		value, ok := raw[spec.key]
		if !ok || value == nil {
			continue
		}
		typed, ok := coerce(spec.kind, value)
		if !ok {
			errs.Add(NewPropertyTypeError(spec.key, spec.kind.String()))
			continue
		}
		if err := spec.apply(&props, typed, root); err != nil {
			if ue := GetUserError(err); ue != nil {
				errs.Add(ue)
			} else {
				errs.Add(NewPropertyValueError(spec.key, err))
			}
		}
	}

	if err := errs.AsError(); err != nil {
		return Properties{}, err
	}
	return props, nil
}

// ValidateProject checks the project section.
func ValidateProject(p Project) error {
	errs := NewErrorList()
	if p.Root == "" {
		errs.AddValidation("project.root", "must not be empty", "")
	}
	if p.BundleIdentifier != "" {
		if err := validation.ValidateBundleIdentifier(p.BundleIdentifier); err != nil {
			errs.AddValidation("project.bundleIdentifier", err.Error(), "Use the value of expo.ios.bundleIdentifier, e.g. com.example.app.")
		}
	}
	if p.Android == "" {
		errs.AddValidation("project.android", "must not be empty", "The default is \"android\".")
	}
	if p.IOS == "" {
		errs.AddValidation("project.ios", "must not be empty", "The default is \"ios\".")
	}
	return errs.AsError()
}

// coerce converts YAML/TOML/JSON values and environment strings to the
// expected kind. Environment overrides arrive as strings, so "true" is a
// boolean and "firebase,huawei" is a list.
func coerce(kind propertyKind, value interface{}) (interface{}, bool) {
	switch kind {
	case kindString:
		s, ok := value.(string)
		return s, ok
	case kindBool:
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(v)
			return b, err == nil
		}
		return nil, false
	case kindStringList:
		switch v := value.(type) {
		case []string:
			return v, true
		case []interface{}:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				out = append(out, s)
			}
			return out, true
		case string:
			out := make([]string, 0)
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			return out, true
		}
	}
	return nil, false
}

func applyPushProviders(p *Properties, v interface{}, _ string) error {
	names := v.([]string)
	providers := make([]PushProvider, 0, len(names))
	for _, name := range names {
		provider := PushProvider(name)
		if !slices.Contains(PushProviders(), provider) {
			return &UserError{
				Code: ErrCodeConfigInvalid,
				Message: fmt.Sprintf("%s'androidPushProviders' contains invalid provider %q. Valid providers are: firebase, huawei, rustore.",
					messagePrefix, name),
				Context: "props.androidPushProviders",
			}
		}
		providers = append(providers, provider)
	}
	*p = p.WithPushProviders(providers...)
	return nil
}

func pathProperty(set func(*Properties, string)) func(*Properties, interface{}, string) error {
	return func(p *Properties, v interface{}, root string) error {
		s := v.(string)
		if s == "" {
			return nil
		}
		if err := validation.ValidatePathWithBase(s, root); err != nil {
			return err
		}
		set(p, s)
		return nil
	}
}

func textProperty(set func(*Properties, string)) func(*Properties, interface{}, string) error {
	return func(p *Properties, v interface{}, _ string) error {
		s := v.(string)
		if err := validation.ValidateResourceValue(s); err != nil {
			return err
		}
		set(p, s)
		return nil
	}
}

func boolProperty(set func(*Properties, bool)) func(*Properties, interface{}, string) error {
	return func(p *Properties, v interface{}, _ string) error {
		set(p, v.(bool))
		return nil
	}
}

func applySmallIcon(p *Properties, v interface{}, root string) error {
	s := v.(string)
	if s == "" {
		return nil
	}
	if err := validation.ValidatePathWithBase(s, root); err != nil {
		return err
	}
	if err := validation.ValidateIconExtension(s); err != nil {
		return err
	}
	p.SmallIcon = s
	return nil
}

func applyAccentColor(p *Properties, v interface{}, _ string) error {
	s := v.(string)
	if s == "" {
		return nil
	}
	if err := validation.ValidateColor(s); err != nil {
		return err
	}
	p.SmallIconAccentColor = s
	return nil
}

func applyIOSMode(p *Properties, v interface{}, _ string) error {
	mode := IOSMode(v.(string))
	switch mode {
	case IOSModeDevelopment, IOSModeProduction:
		p.IOSMode = mode
		return nil
	case "":
		return nil
	default:
		return &UserError{
			Code:    ErrCodeConfigInvalid,
			Message: fmt.Sprintf("%s'iosMode' must be \"development\" or \"production\".", messagePrefix),
			Context: "props.iosMode",
		}
	}
}

func applyDevTeam(p *Properties, v interface{}, _ string) error {
	s := v.(string)
	if s == "" {
		return nil
	}
	if err := validation.ValidateTeamID(s); err != nil {
		return err
	}
	p.IOSDevTeam = s
	return nil
}

func applyDeploymentTarget(p *Properties, v interface{}, _ string) error {
	s := v.(string)
	if s == "" {
		return nil
	}
	if err := validation.ValidateDeploymentTarget(s); err != nil {
		return err
	}
	p.IOSDeploymentTarget = s
	return nil
}

func applyAppGroup(p *Properties, v interface{}, _ string) error {
	s := v.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if err := validation.ValidateAppGroupID(s); err != nil {
		return err
	}
	p.IOSAppGroupID = s
	return nil
}
