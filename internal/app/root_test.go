package app

import (
	"path/filepath"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "cartlift" {
		t.Errorf("expected Use to be 'cartlift', got '%s'", RootCmd.Use)
	}

	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expectedCommands := []string{"fetch", "train", "rules", "insights", "recommend", "serve", "status"}
	foundCommands := make(map[string]bool)

	for _, cmd := range RootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "db", "log-level"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestGetConfig_FlagOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	origCfg, origDB, origLevel := cfg, dbPath, logLevel
	defer func() { cfg, dbPath, logLevel = origCfg, origDB, origLevel }()

	cfg = nil
	dbPath = filepath.Join(dir, "custom.db")
	logLevel = "debug"

	c, err := getConfig()
	if err != nil {
		t.Fatalf("getConfig() failed: %v", err)
	}
	if c.Store.Path != dbPath {
		t.Errorf("Store.Path = %s, want %s", c.Store.Path, dbPath)
	}
	if c.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", c.Log.Level)
	}

	// Loaded once per invocation.
	again, _ := getConfig()
	if again != c {
		t.Error("getConfig() should return the loaded config")
	}
}

func TestGetConfig_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	origCfg, origLevel := cfg, logLevel
	defer func() { cfg, logLevel = origCfg, origLevel }()

	cfg = nil
	logLevel = "chatty"

	if _, err := getConfig(); err == nil {
		t.Error("getConfig() with invalid --log-level should fail")
	}
}

func TestGetConfig_MissingConfigFile(t *testing.T) {
	origCfg, origPath := cfg, configPath
	defer func() { cfg, configPath = origCfg, origPath }()

	cfg = nil
	configPath = filepath.Join(t.TempDir(), "absent.yaml")

	if _, err := getConfig(); err == nil {
		t.Error("getConfig() with missing --config file should fail")
	}
}
