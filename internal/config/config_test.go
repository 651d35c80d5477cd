package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonscope/internal/config"
)

// isolate points the config directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnvVar, home)
	t.Setenv("CARBONSCOPE_OUTPUT_FORMAT", "")
	t.Setenv("CARBONSCOPE_LOG_LEVEL", "")
	t.Setenv("CARBONSCOPE_LOG_FORMAT", "")
	t.Setenv("CARBONSCOPE_REGION", "")
	t.Setenv(config.ProjectDirEnvVar, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNew_Defaults(t *testing.T) {
	home := isolate(t)

	cfg := config.New()
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, 4, cfg.Output.Precision)
	assert.True(t, cfg.Output.Equivalents)
	assert.Equal(t, "TW", cfg.Calculator.DefaultRegion)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	assert.Equal(t, filepath.Join(home, "logs", "carbonscope.log"), cfg.Logging.File)
	require.NoError(t, cfg.Validate())
}

func TestNew_ReadsGlobalFileAndEnv(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
output:
  default_format: json
  precision: 2
calculator:
  default_region: US
`)
	t.Setenv("CARBONSCOPE_REGION", "JP")

	cfg := config.New()
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.False(t, cfg.Output.Equivalents, "section is replaced, not merged")
	assert.Equal(t, "JP", cfg.Calculator.DefaultRegion)
	assert.Equal(t, 100, cfg.Batch.Size, "absent sections keep defaults")
}

func TestNew_MalformedFileKeepsDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "output: [not, a, map")

	cfg := config.New()
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := config.New()
	require.NoError(t, cfg.Set("output.precision", "6"))
	require.NoError(t, cfg.Set("server.listen", "127.0.0.1:9090"))
	require.NoError(t, cfg.Save())

	reloaded := config.New()
	assert.Equal(t, 6, reloaded.Output.Precision)
	assert.Equal(t, "127.0.0.1:9090", reloaded.Server.Listen)
}

func TestSave_NoPath(t *testing.T) {
	cfg := &config.Config{}
	assert.Error(t, cfg.Save())
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr error
	}{
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, config.ErrInvalidOutputFormat},
		{"precision", func(c *config.Config) { c.Output.Precision = 9 }, config.ErrPrecisionOutOfRange},
		{"log format", func(c *config.Config) { c.Logging.Format = "text" }, config.ErrInvalidLogFormat},
		{"constraint", func(c *config.Config) { c.Calculator.FactorSetConstraint = "not-a-range" }, config.ErrInvalidConstraint},
		{"listen", func(c *config.Config) { c.Server.Listen = "" }, config.ErrInvalidListen},
		{"rate", func(c *config.Config) { c.Server.RateLimitPerMinute = -1 }, config.ErrInvalidRateLimit},
		{"body", func(c *config.Config) { c.Server.MaxBodyBytes = 0 }, config.ErrInvalidBodyLimit},
		{"timeout", func(c *config.Config) { c.Server.ReadTimeout = "soon" }, config.ErrInvalidTimeout},
		{"batch", func(c *config.Config) { c.Batch.Concurrency = 0 }, config.ErrBatchOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestCheckFactorSet(t *testing.T) {
	isolate(t)
	cfg := config.Default()

	require.NoError(t, cfg.CheckFactorSet("2024.1.0"))
	require.NoError(t, cfg.CheckFactorSet("2024.3.2"))
	assert.Error(t, cfg.CheckFactorSet("2025.0.0"))
	assert.Error(t, cfg.CheckFactorSet("not-semver"))

	cfg.Calculator.FactorSetConstraint = ""
	assert.NoError(t, cfg.CheckFactorSet("2025.0.0"))
}

func TestServerDurations(t *testing.T) {
	s := config.ServerConfig{ReadTimeout: "3s"}
	assert.Equal(t, "3s", s.ReadTimeoutDuration().String())
	assert.Equal(t, "15s", s.ShutdownTimeoutDuration().String())
}

func TestGetSetList(t *testing.T) {
	isolate(t)
	cfg := config.Default()

	v, err := cfg.Get("calculator.default_region")
	require.NoError(t, err)
	assert.Equal(t, "TW", v)

	require.NoError(t, cfg.Set("output.equivalents", "false"))
	assert.False(t, cfg.Output.Equivalents)

	require.NoError(t, cfg.Set("server.max_body_bytes", "2048"))
	assert.Equal(t, int64(2048), cfg.Server.MaxBodyBytes)

	assert.ErrorIs(t, cfg.Set("output.colour", "red"), config.ErrUnknownKey)
	assert.Error(t, cfg.Set("batch.size", "many"))
	_, err = cfg.Get("nope")
	assert.ErrorIs(t, err, config.ErrUnknownKey)

	list := cfg.List()
	assert.Equal(t, "2048", list["server.max_body_bytes"])
	assert.Len(t, list, len(config.Keys()))

	keys := config.Keys()
	assert.Equal(t, "output.default_format", keys[0])
	assert.Equal(t, "batch.size", keys[len(keys)-1])
}

func TestGlobalConfig(t *testing.T) {
	isolate(t)

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, 4, cfg.Output.Precision)
	assert.Equal(t, "TW", cfg.Calculator.DefaultRegion)

	replacement := config.Default()
	replacement.Output.Precision = 1
	config.SetGlobalConfig(replacement)
	assert.Equal(t, 1, config.GetGlobalConfig().Output.Precision)

	config.ResetGlobalConfigForTest()
	assert.NotSame(t, replacement, config.GetGlobalConfig())
}

func TestEnsureDirs(t *testing.T) {
	home := isolate(t)

	require.NoError(t, config.EnsureLogDir())

	info, err := os.Stat(filepath.Join(home, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoggingConfigConversion(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "console"}
	assert.Equal(t, "stderr", lc.ToLoggingConfig().Output)

	lc.File = "/tmp/x.log"
	out := lc.ToLoggingConfig()
	assert.Equal(t, "file", out.Output)
	assert.Equal(t, "/tmp/x.log", out.File)
}

func TestShallowMergeYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	writeFile(t, path, `
batch:
  size: 10
  concurrency: 2
unknown_section:
  anything: true
`)

	cfg := config.Default()
	require.NoError(t, config.ShallowMergeYAML(cfg, path))
	assert.Equal(t, 10, cfg.Batch.Size)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)

	assert.Error(t, config.ShallowMergeYAML(nil, path))
	assert.Error(t, config.ShallowMergeYAML(cfg, filepath.Join(t.TempDir(), "missing.yaml")))

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, empty, "# nothing\n")
	assert.NoError(t, config.ShallowMergeYAML(cfg, empty))
}

func TestResolveProjectDir(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".carbonscope"), 0o750))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Equal(t, filepath.Join(root, ".carbonscope"), config.ResolveProjectDir(ctx, "", nested))
	assert.Equal(t, filepath.Join(nested, ".carbonscope"), config.ResolveProjectDir(ctx, nested, ""))
	assert.Equal(t, filepath.Join(root, ".carbonscope"),
		config.ResolveProjectDir(ctx, filepath.Join(root, ".carbonscope"), ""))

	t.Setenv(config.ProjectDirEnvVar, nested)
	assert.Equal(t, filepath.Join(nested, ".carbonscope"), config.ResolveProjectDir(ctx, "", root))
}

func TestNewWithProjectDir(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "output:\n  default_format: json\n  precision: 3\n")

	project := filepath.Join(t.TempDir(), ".carbonscope")
	writeFile(t, filepath.Join(project, "config.yaml"), "calculator:\n  default_region: EU\n")

	cfg := config.NewWithProjectDir(context.Background(), project)
	assert.Equal(t, "EU", cfg.Calculator.DefaultRegion)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)

	assert.Equal(t, "TW", config.NewWithProjectDir(context.Background(), "").Calculator.DefaultRegion)

	broken := filepath.Join(t.TempDir(), ".carbonscope")
	writeFile(t, filepath.Join(broken, "config.yaml"), "calculator: [")
	assert.Equal(t, "TW", config.NewWithProjectDir(context.Background(), broken).Calculator.DefaultRegion)
}

func TestEnsureGitignore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".carbonscope")

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))

	created, err = config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)
}
