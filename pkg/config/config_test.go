package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

var allKeys = []string{EnvSeed, EnvLearningRate, EnvIterations, EnvLayers, EnvLogLevel}

// isolate moves into an empty directory and unsets every key for the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	for _, k := range allKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want %+v", cfg, Default())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvLearningRate, "0.1")
	t.Setenv(EnvIterations, "5")
	t.Setenv(EnvLayers, "8, 2,1")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := &TrainingConfig{
		Seed:         99,
		LearningRate: 0.1,
		Iterations:   5,
		Layers:       []int{8, 2, 1},
		LogLevel:     slog.LevelDebug,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadEnvFileFromParent(t *testing.T) {
	root := isolate(t)
	env := "MICROGRAD_ITERATIONS=7\nMICROGRAD_LAYERS=3,1\n"
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	chdir(t, sub)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Iterations != 7 {
		t.Errorf("Iterations = %d, want 7", cfg.Iterations)
	}
	if !reflect.DeepEqual(cfg.Layers, []int{3, 1}) {
		t.Errorf("Layers = %v, want [3 1]", cfg.Layers)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvSeed, "abc"},
		{EnvLearningRate, "fast"},
		{EnvLearningRate, "-0.1"},
		{EnvIterations, "-1"},
		{EnvLayers, "4,,1"},
		{EnvLayers, "4,0"},
		{EnvLogLevel, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

// chdir changes the working directory to dir and restores it when the test
// ends (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
