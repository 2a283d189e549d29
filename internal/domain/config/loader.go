package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix marks environment variables that override config values,
// e.g. MINDBOX_IOS_MODE=production or MINDBOX_PROJECT_ROOT=/work/app.
const EnvPrefix = "MINDBOX_"

// ConfigFileNames are tried in order when no explicit path is given.
var ConfigFileNames = []string{"mindbox.yaml", "mindbox.yml", "mindbox.toml", "mindbox.json"}

var envKeys = buildEnvKeys()

// Loader reads a config file, applies defaults and environment overrides,
// and validates the result.
type Loader struct {
	useEnv bool
}

// NewLoader creates a Loader that honors MINDBOX_* environment overrides.
func NewLoader() *Loader {
	return &Loader{useEnv: true}
}

// WithEnv returns a Loader with environment overrides toggled.
func (l *Loader) WithEnv(enabled bool) *Loader {
	return &Loader{useEnv: enabled}
}

// FindConfigFile returns the first known config file name present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", NewConfigNotFoundError(filepath.Join(dir, ConfigFileNames[0]))
}

// Load reads the configuration at path. An empty path searches the
// working directory. Relative project.root values resolve against the
// directory holding the config file.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		found, err := FindConfigFile(wd)
		if err != nil {
			return nil, err
		}
		path = found
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, NewConfigParseError(path, err)
	}
	if l.useEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKeyFor), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	cfg, err := fromKoanf(k, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// FromMap builds a validated Config from in-memory values shaped like the
// config file. Used by tests and by hosts that already hold parsed options.
func FromMap(values map[string]interface{}, baseDir string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load values: %w", err)
	}
	return fromKoanf(k, baseDir)
}

func fromKoanf(k *koanf.Koanf, baseDir string) (*Config, error) {
	var project Project
	if err := k.Unmarshal("project", &project); err != nil {
		return nil, NewUserError(ErrCodeConfigInvalid, "invalid project section").WithUnderlying(err)
	}
	if project.Root != "" {
		project.Root = ports.ResolvePath(baseDir, project.Root)
	}

	errs := NewErrorList()
	if err := ValidateProject(project); err != nil {
		var list *ErrorList
		if errors.As(err, &list) {
			for _, ue := range list.Errors() {
				errs.Add(ue)
			}
		}
	}

	raw := map[string]interface{}{}
	if k.Exists("props") {
		section, ok := k.Get("props").(map[string]interface{})
		if !ok {
			errs.Add(NewUserError(ErrCodeConfigInvalid, messagePrefix+"'props' must be a mapping.").WithContext("props"))
		} else {
			raw = section
		}
	}

	props, err := DecodeProperties(raw, project.Root)
	if err != nil {
		var list *ErrorList
		if errors.As(err, &list) {
			for _, ue := range list.Errors() {
				errs.Add(ue)
			}
		} else {
			return nil, err
		}
	}

	if err := errs.AsError(); err != nil {
		return nil, err
	}
	return &Config{Project: project, Props: props}, nil
}

func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"project.root":    ".",
		"project.android": "android",
		"project.ios":     "ios",
	}
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return TOMLParser{}, nil
	case ".json":
		return JSONParser{}, nil
	default:
		return nil, NewUserError(ErrCodeConfigParse, fmt.Sprintf("unsupported config format %q", filepath.Ext(path))).
			WithContext(path).
			WithSuggestion("Use .yaml, .yml, .toml or .json.")
	}
}

// envKeyFor maps MINDBOX_IOS_MODE to props.iosMode. Variables that do not
// name a known key are dropped.
func envKeyFor(name string) string {
	return envKeys[strings.TrimPrefix(name, EnvPrefix)]
}

func buildEnvKeys() map[string]string {
	keys := map[string]string{}
	for _, field := range []string{"root", "android", "ios", "bundleIdentifier", "iosProjectName", "iosAppDelegate"} {
		keys["PROJECT_"+screamingSnake(field)] = "project." + field
	}
	for _, spec := range propertySpecs {
		keys[screamingSnake(spec.key)] = "props." + spec.key
	}
	return keys
}

// screamingSnake converts lowerCamel keys: iosNseFilePath -> IOS_NSE_FILE_PATH.
func screamingSnake(key string) string {
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// TOMLParser is a koanf parser backed by go-toml.
type TOMLParser struct{}

// Unmarshal parses TOML bytes into a nested map.
func (TOMLParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (TOMLParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return toml.Marshal(m)
}

// JSONParser is a koanf parser over encoding/json.
type JSONParser struct{}

// Unmarshal parses JSON bytes into a nested map.
func (JSONParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as indented JSON.
func (JSONParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
