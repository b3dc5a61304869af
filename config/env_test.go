package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFiles_DotEnvOverridesJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"db_driver":"postgres","app_port":9000,"graphql_enabled":false}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nexport DB_DRIVER=\"mysql\"\nAUDIT_DRIVER=mongo\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles("", "") })

	assert.Equal(t, "mysql", get("DB_DRIVER", ""))
	assert.Equal(t, "9000", get("APP_PORT", ""))
	assert.Equal(t, "false", get("GRAPHQL_ENABLED", ""))
	assert.Equal(t, "mongo", get("AUDIT_DRIVER", ""))
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".env")))

	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestGet_ProcessEnvWins(t *testing.T) {
	t.Setenv("ORDERDESK_TEST_KEY", "from-env")

	mu.Lock()
	values["ORDERDESK_TEST_KEY"] = "from-file"
	mu.Unlock()

	assert.Equal(t, "from-env", get("ORDERDESK_TEST_KEY", "fallback"))
}

func TestDuration(t *testing.T) {
	t.Setenv("ORDER_COMMIT_TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, duration("ORDER_COMMIT_TIMEOUT", time.Second))

	t.Setenv("ORDER_COMMIT_TIMEOUT", "3")
	assert.Equal(t, 3*time.Second, duration("ORDER_COMMIT_TIMEOUT", time.Second))

	t.Setenv("ORDER_COMMIT_TIMEOUT", "soon")
	assert.Equal(t, time.Second, duration("ORDER_COMMIT_TIMEOUT", time.Second))
}
