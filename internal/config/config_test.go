package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// Полный корректный YAML под текущую структуру config.go.
const sampleYAML = `
env: "prod"
api:
  base_url: "https://api.example.com/"
  user_agent: "sciarticles-test"
session:
  path: "/tmp/sciarticles/session.json"
timeouts:
  request: "3s"
`

// Минимальный YAML (всё остальное — через дефолты/ENV).
const minimalYAML = `
env: "stage"
api:
  base_url: "https://stage.example.com"
`

// Некорректный YAML для проверки сообщений об ошибке.
const brokenYAML = `
env: [unclosed
`

// --- Методы-аксессоры ---

func TestAPIConfig_NormalizedBaseURL(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{name: "trailing_slash", in: "https://api.example.com/", want: "https://api.example.com"},
		{name: "spaces_and_slashes", in: "  https://api.example.com// ", want: "https://api.example.com"},
		{name: "already_clean", in: "https://api.example.com", want: "https://api.example.com"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := APIConfig{BaseURL: tc.in}
			require.Equal(t, tc.want, cfg.NormalizedBaseURL())
		})
	}
}

func TestSessionConfig_ResolvePath_Explicit(t *testing.T) {
	t.Parallel()

	cfg := SessionConfig{Path: "/tmp/s.json"}

	p, err := cfg.ResolvePath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/s.json", p)
}

func TestSessionConfig_ResolvePath_Default(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := SessionConfig{}.ResolvePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".sciarticles", "session.json"), p)
}

// --- Load ---

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.example.com/", cfg.API.BaseURL)
	require.Equal(t, "sciarticles-test", cfg.API.UserAgent)
	require.Equal(t, "/tmp/sciarticles/session.json", cfg.Session.Path)
	require.Equal(t, 3*time.Second, cfg.Timeouts.Request)
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
	require.Equal(t, "https://stage.example.com", cfg.API.BaseURL)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.example.com/", cfg.API.BaseURL)
}

// CONFIG_PATH важнее local.yaml.
func TestLoad_Priority_ENVWinsOverLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, ".", "local.yaml", `
env: "local"
api: { base_url: "https://local.example.com" }
`)

	envPath := writeFile(t, dir, "from_env.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", envPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
	require.Equal(t, "https://stage.example.com", cfg.API.BaseURL)
}

// Явный путь важнее CONFIG_PATH и local.yaml.
func TestLoad_Priority_ExplicitWinsOverEnvAndLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	explicit := writeFile(t, dir, "explicit.yaml", sampleYAML)
	badFromEnv := writeFile(t, dir, "bad.yaml", brokenYAML)
	t.Setenv("CONFIG_PATH", badFromEnv)
	writeFile(t, ".", "local.yaml", `
env: "local"
api: { base_url: "https://local.example.com" }
`)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.example.com/", cfg.API.BaseURL)
}

func TestLoad_EnvOverlay_OverridesValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	t.Setenv("API_BASE_URL", "https://override.example.com")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "https://override.example.com", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Timeouts.Request)
}

// «Только ENV» без файлов.
func TestLoad_EnvOnly_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("ENV", "dev")
	t.Setenv("API_BASE_URL", "https://env.example.com")
	t.Setenv("SESSION_PATH", "/tmp/env-session.json")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	require.Equal(t, "sciarticles-cli", cfg.API.UserAgent)
	require.Equal(t, "/tmp/env-session.json", cfg.Session.Path)
	require.Equal(t, 2*time.Second, cfg.Timeouts.Request)
}

// base_url обязателен: без файла и без ENV загрузка падает.
func TestLoad_EnvOnly_MissingBaseURL(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_BASE_URL", "placeholder") // регистрирует восстановление
	require.NoError(t, os.Unsetenv("API_BASE_URL"))

	_, err := Load("")
	require.Error(t, err)
}

func TestMustLoad_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "ok.yaml", minimalYAML)

	cfg := MustLoad(cfgPath)
	require.NotNil(t, cfg)
	require.Equal(t, "stage", cfg.Env)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
