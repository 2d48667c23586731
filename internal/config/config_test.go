package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Generator: GeneratorConfig{
			ContentDir:             "content",
			ScriptDir:              "",
			Seed:                   0,
			ScriptInstructionLimit: 1000000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
generator:
  content_dir: /srv/artificer/content
  script_dir: /srv/artificer/scripts
  seed: 42
  script_instruction_limit: 5000
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/artificer/content", cfg.Generator.ContentDir)
	assert.Equal(t, "/srv/artificer/scripts", cfg.Generator.ScriptDir)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, 5000, cfg.Generator.ScriptInstructionLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte("generator:\n  content_dir: content\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 1000000, cfg.Generator.ScriptInstructionLimit)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateContentDirEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.ContentDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateSeedNegative(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.Seed = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateInstructionLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.ScriptInstructionLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateJoinsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.ContentDir = ""
	cfg.Logging.Level = "trace"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator.content_dir")
	assert.Contains(t, err.Error(), "logging.level")
}

// Property-based tests

func TestPropertyValidSeeds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64Range(0, 1<<62).Draw(t, "seed")
		cfg := validConfig()
		cfg.Generator.Seed = seed
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid seed %d rejected: %v", seed, err)
		}
	})
}

func TestPropertyInvalidInstructionLimits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(-1000, 0).Draw(t, "limit")
		cfg := validConfig()
		cfg.Generator.ScriptInstructionLimit = limit
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid instruction limit %d accepted", limit)
		}
	})
}
