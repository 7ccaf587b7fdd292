package config

import (
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
// DRAFTSMITH_OVERLAY_MAX_WIDTH=60 sets overlay.max_width.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "DRAFTSMITH_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "THEME":     "render.theme",
			prefix + "LOG_LEVEL": "log.level",
		},
		environ: os.Environ,
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a settings map.
// Empty string values are treated as valid values, not as unset.
// Variables that name no setting are skipped; see Unknown.
func (l *EnvLoader) Load() map[string]any {
	settings := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path := l.path(name)
		kind, known := fieldKinds[path]
		if !known {
			continue
		}
		setByPath(settings, path, parseValue(value, kind))
	}
	return settings
}

// Unknown returns the sorted names of prefixed variables that name no
// setting and are ignored by Load.
func (l *EnvLoader) Unknown() []string {
	var names []string
	for _, env := range l.environ() {
		name, _, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, known := fieldKinds[l.path(name)]; !known {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (l *EnvLoader) path(name string) string {
	if path, ok := l.mapping[name]; ok {
		return path
	}
	return l.envToPath(name)
}

// envToPath converts DRAFTSMITH_RENDER_WORD_WRAP to render.word_wrap.
func (l *EnvLoader) envToPath(env string) string {
	section, key, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(key)
}

// fieldKinds maps every settings path, e.g. "overlay.max_width", to the
// kind of the Config field it sets.
var fieldKinds = func() map[string]reflect.Kind {
	kinds := make(map[string]reflect.Kind)
	collectKinds(reflect.TypeOf(Config{}), "", kinds)
	return kinds
}()

func collectKinds(t reflect.Type, prefix string, kinds map[string]reflect.Kind) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			continue
		}
		if f.Type.Kind() == reflect.Struct {
			collectKinds(f.Type, prefix+name+".", kinds)
			continue
		}
		kinds[prefix+name] = f.Type.Kind()
	}
}

// parseValue converts s for a field of the given kind. Values that do not
// parse are returned unchanged so decoding reports them against the field.
func parseValue(s string, kind reflect.Kind) any {
	switch kind {
	case reflect.Bool:
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0":
			return false
		}
	case reflect.Int, reflect.Int64:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
