package loader

import "testing"

func newTestEnvLoader(env ...string) *EnvLoader {
	l := NewEnvLoader("QUIRE_")
	l.environ = func() []string { return env }
	return l
}

// getByPath retrieves a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	section, setting := path, ""
	for i := range path {
		if path[i] == '.' {
			section, setting = path[:i], path[i+1:]
			break
		}
	}
	m, ok := data[section].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[setting]
	return v, ok
}

func TestEnvLoader_Load(t *testing.T) {
	loader := newTestEnvLoader(
		"QUIRE_LOG_LEVEL=debug",
		"QUIRE_EDITOR_QUIT_TIMES=2",
		"QUIRE_WATCH_ENABLED=false",
		"HOME=/home/someone",
	)

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := getByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val, ok := getByPath(config, "editor.quit_times"); !ok || val != int64(2) {
		t.Errorf("editor.quit_times = %v (%T), want 2", val, val)
	}
	if val, ok := getByPath(config, "watch.enabled"); !ok || val != false {
		t.Errorf("watch.enabled = %v, want false", val)
	}
	if _, ok := config["home"]; ok {
		t.Error("variables without the prefix should be ignored")
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	loader := newTestEnvLoader("QUIRE_QUIET=true")
	loader.AddMapping("QUIRE_QUIET", "editor.welcome")

	config, _ := loader.Load()

	if val, ok := getByPath(config, "editor.welcome"); !ok || val != true {
		t.Errorf("editor.welcome = %v, want true", val)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	loader := NewEnvLoader("QUIRE_")

	tests := []struct {
		env  string
		want string
	}{
		{"QUIRE_EDITOR_QUIT_TIMES", "editor.quit_times"},
		{"QUIRE_WATCH_ENABLED", "watch.enabled"},
		{"QUIRE_LOGGING_FILE", "logging.file"},
		{"QUIRE_SINGLE", ""},
	}

	for _, tt := range tests {
		if got := loader.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"", ""},
		{"true", true},
		{"FALSE", false},
		{"42", int64(42)},
		{"-1", int64(-1)},
		{"warn", "warn"},
		{"/tmp/quire.log", "/tmp/quire.log"},
	}

	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}
