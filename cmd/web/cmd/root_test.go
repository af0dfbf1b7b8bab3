package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"archived_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-32"

// setTestEnv задаёт минимальное окружение для config.Load и возвращает DSN sqlite-файла
func setTestEnv(t *testing.T, env string) string {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("APP_ENV", env)
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("SECRET_KEY", testSecret)
	return dsn
}

// runCLI выполняет rootCmd с аргументами и возвращает вывод команды
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prevMode := gin.Mode()
	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		forceReset = false
		gin.SetMode(prevMode)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestGinMode(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"development", gin.DebugMode},
		{"production", gin.ReleaseMode},
		{"staging", gin.ReleaseMode},
		{"test", gin.ReleaseMode},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			c := &config.Config{}
			c.Server.Env = tt.env
			assert.Equal(t, tt.want, ginMode(c))
		})
	}
}

func TestSetupApp_NonDevelopmentEnvUsesReleaseMode(t *testing.T) {
	setTestEnv(t, "staging")

	// cleanup-tags проходит через PersistentPreRunE
	_, err := runCLI(t, "cleanup-tags")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}
